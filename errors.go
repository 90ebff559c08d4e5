package wavefile

import "errors"

var (
	// ErrFormat is returned when container header or chunk data is
	// malformed or internally inconsistent. It aborts Open/Create entirely.
	ErrFormat = errors.New("malformed wav container")
	// ErrInvalidState is returned when a frame operation is attempted in
	// the wrong mode, e.g. reading from a writer or any use after Close.
	ErrInvalidState = errors.New("invalid io state")
	// ErrTruncated is returned when the underlying stream ends before the
	// declared frame count has been satisfied during a read.
	ErrTruncated = errors.New("truncated data chunk")

	errNilBuffer = errors.New("nil audio buffer")
)
