package wavefile

import (
	"fmt"
	"math"
)

const (
	maxChannels  = 65535
	maxValidBits = 65535
)

// Format describes the PCM layout of a container. Callers supply one to
// Create/NewWriter and receive the parsed equivalent from an opened File.
type Format struct {
	// NumChannels is the number of interleaved channels, 1 to 65535.
	NumChannels int
	// NumFrames is the total number of frames in the data chunk.
	NumFrames int64
	// SampleRate is the number of frames per second, 0 to 2^32-1.
	SampleRate int
	// ValidBits is the number of significant bits per sample. Create
	// accepts 2 to 65535 for header purposes; the sample codec itself is
	// limited to 64 bits, and Open rejects anything above that.
	ValidBits int
}

// BytesPerSample returns the number of bytes holding one sample on disk.
func (f Format) BytesPerSample() int {
	return (f.ValidBits + 7) / 8
}

// BlockAlign returns the number of bytes holding one frame on disk.
func (f Format) BlockAlign() int {
	return f.BytesPerSample() * f.NumChannels
}

func (f Format) validate() error {
	if f.NumChannels < 1 || f.NumChannels > maxChannels {
		return fmt.Errorf("%w: number of channels %d outside valid range 1 to %d", ErrFormat, f.NumChannels, maxChannels)
	}

	if f.NumFrames < 0 {
		return fmt.Errorf("%w: number of frames %d must not be negative", ErrFormat, f.NumFrames)
	}

	if f.ValidBits < 2 || f.ValidBits > maxValidBits {
		return fmt.Errorf("%w: valid bits %d outside valid range 2 to %d", ErrFormat, f.ValidBits, maxValidBits)
	}

	if f.SampleRate < 0 || int64(f.SampleRate) > math.MaxUint32 {
		return fmt.Errorf("%w: sample rate %d outside valid range 0 to %d", ErrFormat, f.SampleRate, int64(math.MaxUint32))
	}

	return nil
}
