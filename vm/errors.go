package vm

import "fmt"

// Errors at this layer are ordinary Go error values propagated single-hop
// to the caller: no retries, no local recovery, no translation of failures
// produced by native entry points.

// TypeError reports a type mismatch, such as descriptor access through an
// object of an incompatible class, or calling a non-callable value.
type TypeError struct {
	msg string
}

func (e *TypeError) Error() string {
	return "TypeError: " + e.msg
}

// TypeErrorf creates a TypeError with a formatted message.
func TypeErrorf(format string, args ...any) error {
	return &TypeError{msg: fmt.Sprintf(format, args...)}
}

// AttributeError reports a failed attribute lookup.
type AttributeError struct {
	msg string
}

func (e *AttributeError) Error() string {
	return "AttributeError: " + e.msg
}

// AttributeErrorf creates an AttributeError with a formatted message.
func AttributeErrorf(format string, args ...any) error {
	return &AttributeError{msg: fmt.Sprintf(format, args...)}
}
