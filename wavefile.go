package wavefile

import (
	"fmt"
	"io"
)

// DefaultBufferSize is the size of the internal transfer buffer unless
// overridden with WithBufferSize.
const DefaultBufferSize = 4096

type ioState int

const (
	stateReading ioState = iota + 1
	stateWriting
	stateClosed
)

// File is a live read or write session over one WAV container. It is
// created by Open/NewReader or Create/NewWriter and must be finished with
// Close. A File is not safe for concurrent use.
type File struct {
	state ioState

	format         Format
	bytesPerSample int
	blockAlign     int

	// int <-> normalized float conversion factors. The read and write
	// sides use different offset conventions for bit depths of 8 and
	// below; see the reader/writer constructors.
	scale  float64
	offset float64

	r      io.Reader
	w      io.Writer
	closer io.Closer

	buf    []byte
	bufPos int
	bufLen int
	cursor int64

	// padByte records at create time whether one zero byte must follow
	// the data chunk to keep the container word aligned.
	padByte bool
}

// Option configures a File at construction time.
type Option func(*File)

// WithBufferSize sets the internal transfer buffer size in bytes.
// Sizes below one are ignored.
func WithBufferSize(size int) Option {
	return func(f *File) {
		if size > 0 {
			f.buf = make([]byte, size)
		}
	}
}

func newFile(opts ...Option) *File {
	f := &File{}

	for _, opt := range opts {
		opt(f)
	}

	if f.buf == nil {
		f.buf = make([]byte, DefaultBufferSize)
	}

	return f
}

// Format returns the container's format descriptor.
func (f *File) Format() Format {
	return f.format
}

// NumChannels returns the number of interleaved channels per frame.
func (f *File) NumChannels() int {
	return f.format.NumChannels
}

// NumFrames returns the declared total number of frames.
func (f *File) NumFrames() int64 {
	return f.format.NumFrames
}

// SampleRate returns the number of frames per second.
func (f *File) SampleRate() int {
	return f.format.SampleRate
}

// ValidBits returns the number of significant bits per sample.
func (f *File) ValidBits() int {
	return f.format.ValidBits
}

// BytesPerSample returns the on-disk size of one sample.
func (f *File) BytesPerSample() int {
	return f.bytesPerSample
}

// BlockAlign returns the on-disk size of one frame.
func (f *File) BlockAlign() int {
	return f.blockAlign
}

// FramesRemaining returns the number of frames left to read or write
// before the declared total is reached.
func (f *File) FramesRemaining() int64 {
	return f.format.NumFrames - f.cursor
}

// String implements the Stringer interface.
func (f *File) String() string {
	return fmt.Sprintf("%d channel(s), %d frames @ %d Hz, %d valid bits (%d bytes per sample)",
		f.format.NumChannels, f.format.NumFrames, f.format.SampleRate, f.format.ValidBits, f.bytesPerSample)
}

// Close finalizes the session. In writing mode it flushes any buffered
// partial block and appends the alignment pad byte when the payload byte
// count is odd. The underlying stream is closed exactly once when it
// implements io.Closer. Close is safe to call more than once; any frame
// operation after the first Close fails with ErrInvalidState.
func (f *File) Close() error {
	if f == nil || f.state == stateClosed {
		return nil
	}

	var firstErr error

	if f.state == stateWriting {
		firstErr = f.flush()

		if firstErr == nil && f.padByte {
			if _, err := f.w.Write([]byte{0}); err != nil {
				firstErr = fmt.Errorf("failed to write alignment pad byte: %w", err)
			}
		}
	}

	f.state = stateClosed

	if f.closer != nil {
		err := f.closer.Close()
		f.closer = nil

		if firstErr == nil && err != nil {
			firstErr = fmt.Errorf("failed to close underlying stream: %w", err)
		}
	}

	return firstErr
}
