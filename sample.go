package wavefile

import "math"

// Sample is the set of in-memory sample representations a frame transfer
// can use: raw int (truncated or widened as needed), raw int64 (full
// width), or normalized float64 in [-1, 1].
type Sample interface {
	int | int64 | float64
}

// sampleValue converts a raw on-disk sample to the requested
// representation using the handle's conversion factors.
func sampleValue[S Sample](f *File, raw int64) S {
	var s S

	switch p := any(&s).(type) {
	case *int:
		*p = int(raw)
	case *int64:
		*p = raw
	case *float64:
		*p = f.offset + float64(raw)/f.scale
	}

	return s
}

// rawSample converts a sample value to its raw on-disk integer. Float
// input is quantized with round-to-nearest and saturates at the int64
// range, which only arbitrarily large inputs at 64 valid bits can reach.
func rawSample[S Sample](f *File, s S) int64 {
	switch v := any(s).(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		scaled := math.Round(f.scale * (f.offset + v))
		if scaled >= math.MaxInt64 {
			return math.MaxInt64
		}

		if scaled <= math.MinInt64 {
			return math.MinInt64
		}

		return int64(scaled)
	}

	return 0
}

// writeConversion returns the scale and offset used to quantize
// normalized floats. Samples wider than 8 bits are two's complement, so
// the scale is the maximum positive magnitude of that width; 8 bits and
// below are unsigned, mapped from [-1,1] onto [0, 2^bits-1].
func writeConversion(validBits int) (scale, offset float64) {
	if validBits > 8 {
		bits := validBits
		if bits > 64 {
			bits = 64
		}

		return float64(int64(math.MaxInt64) >> (64 - bits)), 0
	}

	return 0.5 * float64((uint64(1)<<validBits)-1), 1
}

// readConversion mirrors writeConversion for reconstruction. The signed
// scale is 2^(validBits-1) rather than the write side's 2^(validBits-1)-1,
// and the unsigned offset is -1 rather than +1, so that written values
// reconstruct within one quantization step without leaving [-1, 1].
func readConversion(validBits int) (scale, offset float64) {
	if validBits > 8 {
		return math.Ldexp(1, validBits-1), 0
	}

	return 0.5 * float64((uint64(1)<<validBits)-1), -1
}
