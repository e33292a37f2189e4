package rjson

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the reflective convenience layer (bind.go).
// The core entry points (Walk, Scanf, Setf, Prettify) never return an
// error value, per spec.md §7 ("nothing in the core aborts or panics on
// user input; all failures are value-returned"). Walk and Prettify report
// Invalid/Incomplete through Status; Scanf and Setf return only a match
// count and do not report a syntax error separately.
var (
	ErrInvalid    = errors.New("rjson: invalid document")
	ErrIncomplete = errors.New("rjson: incomplete document")
	ErrType       = errors.New("rjson: type mismatch")
)

// A TypeError holds one message per value that could not be converted to
// the requested Go type, mirroring the teacher's ini.TypeError (ini.go).
// Decode does not return it: Decode stops at the first value it cannot
// convert and returns that failure as a plain error, and fields decoded
// before that point keep their new values.
type TypeError struct {
	Errors []string
}

func (e *TypeError) Error() string {
	s := "rjson: unmarshal errors:"
	for _, m := range e.Errors {
		s += "\n  " + m
	}
	return s
}

// bindError is the internal panic payload used to unwind a deep recursive
// Decode/Encode call back to its public entry point, the same
// panic-and-recover-at-the-boundary idiom the teacher uses for its own
// Marshal/Unmarshal (ini.go: iniError/fail/failf/handleErr). It is never
// allowed to escape an exported function.
type bindError struct{ err error }

func bindFail(err error) {
	panic(bindError{err})
}

func bindFailf(format string, args ...any) {
	panic(bindError{fmt.Errorf(format, args...)})
}

func recoverBind(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(bindError); ok {
			*err = e.err
			return
		}
		panic(v)
	}
}
