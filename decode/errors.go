package decode

import (
	"errors"
	"fmt"
)

// Sentinel causes carried inside a DecodeError.
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyFile         = errors.New("file is empty")
	ErrNoSamples         = errors.New("no audio samples decoded")
	ErrCorruptStream     = errors.New("corrupt audio stream")
)

// DecodeError is the single fatal error class of the pipeline: the file
// could not be turned into an AudioSignal. It always identifies the path
// and the failing operation.
type DecodeError struct {
	Path string
	Op   string // "open", "probe", "decode"
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %s: %v", e.Op, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// newDecodeError wraps err as a DecodeError for path.
func newDecodeError(path, op string, err error) *DecodeError {
	return &DecodeError{Path: path, Op: op, Err: err}
}
