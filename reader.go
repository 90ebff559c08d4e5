package wavefile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/riff"
)

const compressionCodePCM = 1

// fmtChunkBody is the fixed 16-byte base form of the fmt chunk. Anything
// beyond it is skipped.
type fmtChunkBody struct {
	CompressionCode uint16
	NumChannels     uint16
	SampleRate      uint32
	AvgBytesPerSec  uint32
	BlockAlign      uint16
	ValidBits       uint16
}

// Open opens the WAV container at path for reading and validates its
// headers. The returned File owns the underlying file handle and releases
// it in Close.
func Open(path string, opts ...Option) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	fi, err := fd.Stat()
	if err != nil {
		fd.Close()

		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := NewReader(fd, fi.Size(), opts...)
	if err != nil {
		fd.Close()

		return nil, err
	}

	return f, nil
}

// NewReader opens a WAV container supplied as a raw stream of the given
// total byte size. If r implements io.Closer the File takes ownership and
// closes it in Close.
func NewReader(r io.Reader, size int64, opts ...Option) (*File, error) {
	f := newFile(opts...)
	f.r = r

	if c, ok := r.(io.Closer); ok {
		f.closer = c
	}

	if err := f.readHeaders(size); err != nil {
		return nil, err
	}

	f.scale, f.offset = readConversion(f.format.ValidBits)
	f.state = stateReading

	return f, nil
}

// readHeaders validates the outer RIFF header against the actual stream
// size and scans chunks until the data chunk is reached. Unknown chunk
// IDs are skipped over their word-aligned byte count.
func (f *File) readHeaders(size int64) error {
	parser := riff.New(f.r)

	id, riffSize, err := parser.IDnSize()
	if err != nil {
		return fmt.Errorf("%w: not enough bytes for the riff header", ErrFormat)
	}

	if id != riff.RiffID {
		return fmt.Errorf("%w: incorrect riff chunk ID %q", ErrFormat, id)
	}

	var riffType [4]byte
	if err := binary.Read(f.r, binary.BigEndian, &riffType); err != nil {
		return fmt.Errorf("%w: not enough bytes for the riff type ID", ErrFormat)
	}

	if riffType != riff.WavFormatID {
		return fmt.Errorf("%w: incorrect riff type ID %q", ErrFormat, riffType)
	}

	if int64(riffSize)+8 != size {
		return fmt.Errorf("%w: header chunk size %d does not match stream size %d", ErrFormat, riffSize, size)
	}

	var foundFormat bool

	for {
		id, chunkSize, err := parser.IDnSize()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return f.endOfChunksErr(foundFormat)
			}

			return fmt.Errorf("%w: could not read chunk header", ErrFormat)
		}

		// chunk bodies are word aligned; the declared size excludes the
		// pad byte, so skipping must round up while frame math must not.
		aligned := int64(chunkSize)
		if aligned%2 == 1 {
			aligned++
		}

		switch id {
		case riff.FmtID:
			foundFormat = true

			if err := f.readFormatChunk(aligned); err != nil {
				return err
			}
		case riff.DataFormatID:
			if !foundFormat {
				return fmt.Errorf("%w: data chunk found before format chunk", ErrFormat)
			}

			if int64(chunkSize)%int64(f.blockAlign) != 0 {
				return fmt.Errorf("%w: data chunk size %d is not a multiple of block align %d", ErrFormat, chunkSize, f.blockAlign)
			}

			f.format.NumFrames = int64(chunkSize) / int64(f.blockAlign)

			return nil
		default:
			if err := f.skip(aligned); err != nil {
				return f.endOfChunksErr(foundFormat)
			}
		}
	}
}

func (f *File) endOfChunksErr(foundFormat bool) error {
	if !foundFormat {
		return fmt.Errorf("%w: reached end of stream without finding a format chunk", ErrFormat)
	}

	return fmt.Errorf("%w: reached end of stream without finding a data chunk", ErrFormat)
}

func (f *File) readFormatChunk(aligned int64) error {
	var body fmtChunkBody
	if err := binary.Read(f.r, binary.LittleEndian, &body); err != nil {
		return fmt.Errorf("%w: could not read format chunk body", ErrFormat)
	}

	if body.CompressionCode != compressionCodePCM {
		return fmt.Errorf("%w: compression code %d not supported", ErrFormat, body.CompressionCode)
	}

	if body.NumChannels == 0 {
		return fmt.Errorf("%w: number of channels specified in header is zero", ErrFormat)
	}

	if body.BlockAlign == 0 {
		return fmt.Errorf("%w: block align specified in header is zero", ErrFormat)
	}

	if body.ValidBits < 2 {
		return fmt.Errorf("%w: valid bits specified in header is less than 2", ErrFormat)
	}

	// the sample codec accumulates into an int64
	if body.ValidBits > 64 {
		return fmt.Errorf("%w: valid bits specified in header is greater than 64", ErrFormat)
	}

	f.format.NumChannels = int(body.NumChannels)
	f.format.SampleRate = int(body.SampleRate)
	f.format.ValidBits = int(body.ValidBits)
	f.bytesPerSample = f.format.BytesPerSample()
	f.blockAlign = int(body.BlockAlign)

	if f.bytesPerSample*f.format.NumChannels != f.blockAlign {
		return fmt.Errorf("%w: block align %d does not agree with %d valid bits and %d channel(s)",
			ErrFormat, f.blockAlign, f.format.ValidBits, f.format.NumChannels)
	}

	if rest := aligned - 16; rest > 0 {
		if err := f.skip(rest); err != nil {
			return fmt.Errorf("%w: truncated format chunk", ErrFormat)
		}
	}

	return nil
}

func (f *File) skip(n int64) error {
	_, err := io.CopyN(io.Discard, f.r, n)

	return err
}

// readSample reconstructs one little-endian sample from the buffer,
// refilling from the underlying stream on demand. The most significant
// byte is sign extended except for single-byte samples, which are
// unsigned.
func (f *File) readSample() (int64, error) {
	var val int64

	for b := 0; b < f.bytesPerSample; b++ {
		if f.bufPos == f.bufLen {
			n, err := io.ReadAtLeast(f.r, f.buf, 1)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return 0, fmt.Errorf("%w: stream ended before the declared frame count", ErrTruncated)
				}

				return 0, fmt.Errorf("failed to read sample data: %w", err)
			}

			f.bufLen = n
			f.bufPos = 0
		}

		v := int64(f.buf[f.bufPos])
		if b == f.bytesPerSample-1 && f.bytesPerSample > 1 {
			v = int64(int8(f.buf[f.bufPos]))
		}

		val += v << (8 * b)
		f.bufPos++
	}

	return val, nil
}

// ReadFrames reads up to frames interleaved frames into dst. It returns
// fewer frames than requested, including zero, exactly when the declared
// frame count has been reached; that is the normal end-of-data signal, not
// an error. On failure no decoded frames are returned: the call fails as a
// whole with 0 and a non-nil error.
func ReadFrames[S Sample](f *File, dst []S, frames int) (int, error) {
	if f.state != stateReading {
		return 0, fmt.Errorf("%w: cannot read frames", ErrInvalidState)
	}

	if limit := len(dst) / f.format.NumChannels; frames > limit {
		frames = limit
	}

	idx := 0

	for n := 0; n < frames; n++ {
		if f.cursor == f.format.NumFrames {
			return n, nil
		}

		for c := 0; c < f.format.NumChannels; c++ {
			raw, err := f.readSample()
			if err != nil {
				return 0, err
			}

			dst[idx] = sampleValue[S](f, raw)
			idx++
		}

		f.cursor++
	}

	return frames, nil
}

// ReadFramesDeinterleaved reads up to frames frames into one slice per
// channel: dst[c][i] receives channel c of frame i. dst must hold at
// least NumChannels slices. Frame accounting matches ReadFrames.
func ReadFramesDeinterleaved[S Sample](f *File, dst [][]S, frames int) (int, error) {
	if f.state != stateReading {
		return 0, fmt.Errorf("%w: cannot read frames", ErrInvalidState)
	}

	if len(dst) < f.format.NumChannels {
		return 0, fmt.Errorf("%d destination slices for %d channels", len(dst), f.format.NumChannels)
	}

	for c := 0; c < f.format.NumChannels; c++ {
		if len(dst[c]) < frames {
			frames = len(dst[c])
		}
	}

	for n := 0; n < frames; n++ {
		if f.cursor == f.format.NumFrames {
			return n, nil
		}

		for c := 0; c < f.format.NumChannels; c++ {
			raw, err := f.readSample()
			if err != nil {
				return 0, err
			}

			dst[c][n] = sampleValue[S](f, raw)
		}

		f.cursor++
	}

	return frames, nil
}
