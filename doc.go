// Package wavefile provides streaming access to uncompressed PCM WAV files.
//
// Unlike whole-file codecs, a File transfers audio frame by frame through a
// small fixed-size buffer, so arbitrarily large containers can be read or
// written in constant memory. Any valid bit depth from 2 to 64 is supported,
// not just the usual 8/16/24/32.
//
// A File is either opened for reading (Open, NewReader) or created for
// writing (Create, NewWriter) with a declared Format; the two modes share
// one frame-transfer surface:
//
//   - ReadFrames / WriteFrames for flat interleaved buffers
//   - ReadFramesDeinterleaved / WriteFramesDeinterleaved for per-channel
//     buffers
//
// Frames move as raw ints, wide int64s, or normalized float64 values in
// [-1, 1]. For interoperability with the go-audio ecosystem, File also
// exchanges audio.IntBuffer and audio.FloatBuffer values.
package wavefile
