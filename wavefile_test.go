package wavefile

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

// encodeFrames writes the given interleaved samples into an in-memory
// container and returns its bytes.
func encodeFrames[S Sample](t *testing.T, format Format, samples []S) []byte {
	t.Helper()

	var buf bytes.Buffer

	f, err := NewWriter(&buf, format)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	frames := len(samples) / format.NumChannels

	n, err := WriteFrames(f, samples, frames)
	if err != nil {
		t.Fatalf("write frames: %v", err)
	}

	if n != frames {
		t.Fatalf("frames written=%d, want %d", n, frames)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	return buf.Bytes()
}

func decodeFrames[S Sample](t *testing.T, data []byte, count int) (*File, []S) {
	t.Helper()

	f, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	dst := make([]S, count*f.NumChannels())

	n, err := ReadFrames(f, dst, count)
	if err != nil {
		t.Fatalf("read frames: %v", err)
	}

	if n != count {
		t.Fatalf("frames read=%d, want %d", n, count)
	}

	return f, dst
}

func TestNormalizedRoundTripAcrossBitDepths(t *testing.T) {
	values := []float64{-1, -0.999, -0.5, -0.25, 0, 0.1, 0.25, 0.5, 0.999, 1}

	for _, validBits := range []int{2, 3, 4, 8, 9, 12, 16, 20, 23, 24, 32, 33, 40, 48, 63, 64} {
		t.Run(bitDepthName(validBits), func(t *testing.T) {
			format := Format{NumChannels: 2, NumFrames: int64(len(values)), SampleRate: 48000, ValidBits: validBits}

			interleaved := make([]float64, 2*len(values))
			for i, v := range values {
				interleaved[2*i] = v
				interleaved[2*i+1] = -v
			}

			data := encodeFrames(t, format, interleaved)

			f, got := decodeFrames[float64](t, data, len(values))
			if f.Format() != format {
				t.Fatalf("format=%+v, want %+v", f.Format(), format)
			}

			scale, _ := readConversion(validBits)

			// one quantization step plus the write-side scale asymmetry,
			// plus float64 noise at very wide depths
			tolerance := 2/scale + 1e-9

			for i, want := range interleaved {
				if diff := math.Abs(got[i] - want); diff > tolerance {
					t.Fatalf("sample %d=%g, want %g within %g (diff %g)", i, got[i], want, tolerance, diff)
				}

				if got[i] < -1 || got[i] > 1 {
					t.Fatalf("sample %d=%g outside [-1,1]", i, got[i])
				}
			}
		})
	}
}

func bitDepthName(bits int) string {
	return string(rune('0'+bits/10)) + string(rune('0'+bits%10)) + "bit"
}

func TestIntRoundTrip16Bit(t *testing.T) {
	samples := []int{-32768, -1, 0, 1, 127, -128, 32767}
	format := Format{NumChannels: 1, NumFrames: int64(len(samples)), SampleRate: 8000, ValidBits: 16}

	data := encodeFrames(t, format, samples)

	_, gotInts := decodeFrames[int](t, data, len(samples))
	for i, want := range samples {
		if gotInts[i] != want {
			t.Fatalf("int sample %d=%d, want %d", i, gotInts[i], want)
		}
	}

	// the same bytes must also decode through the wide representation
	_, gotWide := decodeFrames[int64](t, data, len(samples))
	for i, want := range samples {
		if gotWide[i] != int64(want) {
			t.Fatalf("int64 sample %d=%d, want %d", i, gotWide[i], want)
		}
	}
}

func TestWideRoundTrip40Bit(t *testing.T) {
	samples := []int64{-(1 << 39), -1, 0, 1, 123456789012, 1<<39 - 1}
	format := Format{NumChannels: 1, NumFrames: int64(len(samples)), SampleRate: 8000, ValidBits: 40}

	data := encodeFrames(t, format, samples)

	_, got := decodeFrames[int64](t, data, len(samples))
	for i, want := range samples {
		if got[i] != want {
			t.Fatalf("sample %d=%d, want %d", i, got[i], want)
		}
	}
}

func TestSingleByteSamplesAreUnsigned(t *testing.T) {
	samples := []int{0, 1, 127, 128, 200, 255}
	format := Format{NumChannels: 1, NumFrames: int64(len(samples)), SampleRate: 8000, ValidBits: 8}

	data := encodeFrames(t, format, samples)

	_, got := decodeFrames[int](t, data, len(samples))
	for i, want := range samples {
		if got[i] != want {
			t.Fatalf("sample %d=%d, want %d (no sign extension expected)", i, got[i], want)
		}
	}
}

func TestDeinterleavedRoundTrip(t *testing.T) {
	left := []float64{-0.5, 0, 0.5}
	right := []float64{0.25, -0.25, 1}
	format := Format{NumChannels: 2, NumFrames: 3, SampleRate: 44100, ValidBits: 16}

	var buf bytes.Buffer

	f, err := NewWriter(&buf, format)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if _, err := WriteFramesDeinterleaved(f, [][]float64{left, right}, 3); err != nil {
		t.Fatalf("write frames: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	dst := [][]float64{make([]float64, 3), make([]float64, 3)}
	if _, err := ReadFramesDeinterleaved(r, dst, 3); err != nil {
		t.Fatalf("read frames: %v", err)
	}

	scale, _ := readConversion(16)
	tolerance := 2 / scale

	for i := range left {
		if math.Abs(dst[0][i]-left[i]) > tolerance || math.Abs(dst[1][i]-right[i]) > tolerance {
			t.Fatalf("frame %d=(%g,%g), want (%g,%g)", i, dst[0][i], dst[1][i], left[i], right[i])
		}
	}
}

func TestCreateOpenReportsIdenticalMetadata(t *testing.T) {
	testCases := []Format{
		{NumChannels: 1, NumFrames: 10, SampleRate: 44100, ValidBits: 23},
		{NumChannels: 2, NumFrames: 100, SampleRate: 48000, ValidBits: 16},
		{NumChannels: 3, NumFrames: 7, SampleRate: 8000, ValidBits: 2},
		{NumChannels: 2, NumFrames: 0, SampleRate: 96000, ValidBits: 64},
	}

	for _, format := range testCases {
		t.Run(bitDepthName(format.ValidBits), func(t *testing.T) {
			samples := make([]float64, format.NumFrames*int64(format.NumChannels))

			data := encodeFrames(t, format, samples)

			f, err := NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				t.Fatalf("open: %v", err)
			}

			if f.Format() != format {
				t.Fatalf("format=%+v, want %+v", f.Format(), format)
			}
		})
	}
}

func TestFrameOperationsRequireMatchingMode(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, Format{NumChannels: 1, NumFrames: 2, SampleRate: 8000, ValidBits: 16})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if _, err := ReadFrames(w, make([]int, 2), 2); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("reading from a writer: error %v is not ErrInvalidState", err)
	}

	if _, err := ReadFramesDeinterleaved(w, [][]int{make([]int, 2)}, 2); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("deinterleaved reading from a writer: error %v is not ErrInvalidState", err)
	}

	if _, err := WriteFrames(w, []int{1, 2}, 2); err != nil {
		t.Fatalf("write frames: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := WriteFrames(r, []int{1}, 1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("writing to a reader: error %v is not ErrInvalidState", err)
	}

	if _, err := WriteFramesDeinterleaved(r, [][]int{{1}}, 1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("deinterleaved writing to a reader: error %v is not ErrInvalidState", err)
	}
}

func TestFrameOperationsFailAfterClose(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, Format{NumChannels: 1, NumFrames: 2, SampleRate: 8000, ValidBits: 16})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := WriteFrames(w, []int{1}, 1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("write after close: error %v is not ErrInvalidState", err)
	}

	if _, err := ReadFrames(w, make([]int, 1), 1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("read after close: error %v is not ErrInvalidState", err)
	}

	// closing again is a no-op
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestStringDescribesFormat(t *testing.T) {
	var buf bytes.Buffer

	f, err := NewWriter(&buf, Format{NumChannels: 2, NumFrames: 5, SampleRate: 44100, ValidBits: 23})
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	defer f.Close()

	want := "2 channel(s), 5 frames @ 44100 Hz, 23 valid bits (3 bytes per sample)"
	if got := f.String(); got != want {
		t.Fatalf("String()=%q, want %q", got, want)
	}
}
