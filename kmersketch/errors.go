package kmersketch

import "github.com/pkg/errors"

// ParamError reports a violation of a public operation's parameter
// contract: an out-of-range k or a zero width or depth. A query output
// buffer too short for the requested sequence is not reported this way;
// Query panics instead. It never indicates that the sketch's state was
// mutated.
type ParamError struct {
	err error
}

func (e *ParamError) Error() string { return e.err.Error() }

// Unwrap lets callers use errors.As(err, *ParamError) through any wrapping.
func (e *ParamError) Unwrap() error { return e.err }

func paramErrorf(format string, args ...interface{}) error {
	return &ParamError{err: errors.Errorf(format, args...)}
}
