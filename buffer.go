package wavefile

import "github.com/go-audio/audio"

// AudioFormat returns the audio format of the container's content.
func (f *File) AudioFormat() *audio.Format {
	if f == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: f.format.NumChannels,
		SampleRate:  f.format.SampleRate,
	}
}

// ReadPCMBuffer fills the passed buffer with raw integer samples and
// stamps it with the container's format and bit depth. It returns the
// number of frames read.
func (f *File) ReadPCMBuffer(buf *audio.IntBuffer) (int, error) {
	if buf == nil {
		return 0, nil
	}

	n, err := ReadFrames(f, buf.Data, len(buf.Data)/f.format.NumChannels)
	if err != nil {
		return 0, err
	}

	buf.Format = f.AudioFormat()
	buf.SourceBitDepth = f.format.ValidBits

	return n, nil
}

// FullPCMBuffer reads every remaining frame into a single buffer. The
// entire remainder of the data chunk is held in memory; prefer
// ReadPCMBuffer for large containers.
func (f *File) FullPCMBuffer() (*audio.IntBuffer, error) {
	buf := &audio.IntBuffer{
		Data:           make([]int, f.FramesRemaining()*int64(f.format.NumChannels)),
		Format:         f.AudioFormat(),
		SourceBitDepth: f.format.ValidBits,
	}

	if _, err := ReadFrames(f, buf.Data, int(f.FramesRemaining())); err != nil {
		return nil, err
	}

	return buf, nil
}

// WritePCMBuffer writes the buffer's raw integer samples and returns the
// number of frames written.
func (f *File) WritePCMBuffer(buf *audio.IntBuffer) (int, error) {
	if buf == nil {
		return 0, errNilBuffer
	}

	return WriteFrames(f, buf.Data, len(buf.Data)/f.format.NumChannels)
}

// ReadFloatBuffer fills the passed buffer with normalized float64 samples
// and stamps it with the container's format and bit depth. It returns the
// number of frames read.
func (f *File) ReadFloatBuffer(buf *audio.FloatBuffer) (int, error) {
	if buf == nil {
		return 0, nil
	}

	n, err := ReadFrames(f, buf.Data, len(buf.Data)/f.format.NumChannels)
	if err != nil {
		return 0, err
	}

	buf.Format = f.AudioFormat()

	return n, nil
}

// WriteFloatBuffer writes the buffer's normalized float64 samples and
// returns the number of frames written.
func (f *File) WriteFloatBuffer(buf *audio.FloatBuffer) (int, error) {
	if buf == nil {
		return 0, errNilBuffer
	}

	return WriteFrames(f, buf.Data, len(buf.Data)/f.format.NumChannels)
}
