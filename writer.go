package wavefile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/riff"
)

// headerOverhead is the byte count of everything before the sample data:
// riff type, fmt chunk ID/size/body, and the data chunk ID/size.
const headerOverhead = 4 + 8 + 16 + 8

// Create creates the file at path and emits the container headers for the
// given format. The declared frame count is fixed: WriteFrames silently
// stops accepting frames once it is reached, and the container is only
// well formed when exactly that many frames have been written before
// Close.
func Create(path string, format Format, opts ...Option) (*File, error) {
	if err := format.validate(); err != nil {
		return nil, err
	}

	fd, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	f, err := NewWriter(fd, format, opts...)
	if err != nil {
		fd.Close()

		return nil, err
	}

	return f, nil
}

// NewWriter emits the container headers for the given format to w and
// returns a File in writing mode. If w implements io.Closer the File
// takes ownership and closes it in Close. The format is validated before
// any byte is written.
func NewWriter(w io.Writer, format Format, opts ...Option) (*File, error) {
	if err := format.validate(); err != nil {
		return nil, err
	}

	f := newFile(opts...)
	f.w = w

	if c, ok := w.(io.Closer); ok {
		f.closer = c
	}

	f.format = format
	f.bytesPerSample = format.BytesPerSample()
	f.blockAlign = format.BlockAlign()
	f.scale, f.offset = writeConversion(format.ValidBits)

	dataSize := int64(f.blockAlign) * format.NumFrames

	riffSize := int64(headerOverhead) + dataSize
	if dataSize%2 == 1 {
		riffSize++
		f.padByte = true
	}

	if err := f.writeHeaders(uint32(riffSize), uint32(dataSize)); err != nil {
		return nil, err
	}

	f.state = stateWriting

	return f, nil
}

func (f *File) writeHeaders(riffSize, dataSize uint32) error {
	avgBytesPerSec := uint32(uint64(f.format.SampleRate) * uint64(f.blockAlign))

	fields := []any{
		riff.RiffID,
		riffSize,
		riff.WavFormatID,
		riff.FmtID,
		uint32(16),
		uint16(compressionCodePCM),
		uint16(f.format.NumChannels),
		uint32(f.format.SampleRate),
		avgBytesPerSec,
		uint16(f.blockAlign),
		uint16(f.format.ValidBits),
		riff.DataFormatID,
		dataSize,
	}

	for _, field := range fields {
		if err := binary.Write(f.w, binary.LittleEndian, field); err != nil {
			return fmt.Errorf("failed to write container header: %w", err)
		}
	}

	return nil
}

// writeSample splits one sample into little-endian bytes, flushing the
// buffer to the underlying stream whenever it fills.
func (f *File) writeSample(val int64) error {
	for b := 0; b < f.bytesPerSample; b++ {
		if f.bufPos == len(f.buf) {
			if err := f.flush(); err != nil {
				return err
			}
		}

		f.buf[f.bufPos] = byte(val)
		val >>= 8
		f.bufPos++
	}

	return nil
}

func (f *File) flush() error {
	if f.bufPos == 0 {
		return nil
	}

	if _, err := f.w.Write(f.buf[:f.bufPos]); err != nil {
		return fmt.Errorf("failed to flush sample buffer: %w", err)
	}

	f.bufPos = 0

	return nil
}

// WriteFrames writes up to frames interleaved frames from src. Once the
// declared frame count has been reached it returns fewer frames than
// offered, including zero, and silently ignores the excess. Data is
// buffered locally; a final partial block is only flushed by Close.
func WriteFrames[S Sample](f *File, src []S, frames int) (int, error) {
	if f.state != stateWriting {
		return 0, fmt.Errorf("%w: cannot write frames", ErrInvalidState)
	}

	if limit := len(src) / f.format.NumChannels; frames > limit {
		frames = limit
	}

	idx := 0

	for n := 0; n < frames; n++ {
		if f.cursor == f.format.NumFrames {
			return n, nil
		}

		for c := 0; c < f.format.NumChannels; c++ {
			if err := f.writeSample(rawSample(f, src[idx])); err != nil {
				return n, err
			}

			idx++
		}

		f.cursor++
	}

	return frames, nil
}

// WriteFramesDeinterleaved writes up to frames frames supplied as one
// slice per channel: src[c][i] holds channel c of frame i. src must hold
// at least NumChannels slices. Frame accounting matches WriteFrames.
func WriteFramesDeinterleaved[S Sample](f *File, src [][]S, frames int) (int, error) {
	if f.state != stateWriting {
		return 0, fmt.Errorf("%w: cannot write frames", ErrInvalidState)
	}

	if len(src) < f.format.NumChannels {
		return 0, fmt.Errorf("%d source slices for %d channels", len(src), f.format.NumChannels)
	}

	for c := 0; c < f.format.NumChannels; c++ {
		if len(src[c]) < frames {
			frames = len(src[c])
		}
	}

	for n := 0; n < frames; n++ {
		if f.cursor == f.format.NumFrames {
			return n, nil
		}

		for c := 0; c < f.format.NumChannels; c++ {
			if err := f.writeSample(rawSample(f, src[c][n])); err != nil {
				return n, err
			}
		}

		f.cursor++
	}

	return frames, nil
}
