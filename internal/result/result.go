// Package result is a small Ok/Err wrapper, the Go counterpart of the
// original Python tool's result.Result. spec.md §1 scopes it as a tiny
// external collaborator with a specified interface; it is generic over the
// success value but always carries a string error, matching how
// path_utilities.py used it (human-readable messages, never structured
// errors).
package result

// Result holds either a value (Ok) or an error message (Err), never both.
type Result[T any] struct {
	ok    bool
	value T
	err   string
}

// Ok builds a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{ok: true, value: value}
}

// Err builds a failed Result.
func Err[T any](msg string) Result[T] {
	return Result[T]{ok: false, err: msg}
}

// OK reports whether the result is successful.
func (r Result[T]) OK() bool {
	return r.ok
}

// Value returns the success value. Only meaningful when OK() is true.
func (r Result[T]) Value() T {
	return r.value
}

// Error returns the failure message. Only meaningful when OK() is false.
func (r Result[T]) Error() string {
	return r.err
}

// String renders like the Python Result's __repr__.
func (r Result[T]) String() string {
	if r.ok {
		return "Ok(" + anyToString(r.value) + ")"
	}
	return "Err(" + r.err + ")"
}

func anyToString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if str, ok := v.(interface{ String() string }); ok {
		return str.String()
	}
	return ""
}
