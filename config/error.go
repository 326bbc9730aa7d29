package config

import (
	"errors"
	"strings"
)

// Error is a typed configuration failure: a missing key, a type mismatch or
// a decode problem. It carries the origin of the configuration scope the
// lookup ran against.
type Error struct {
	Key     string
	Message string
	Origin  Origin
}

func (e *Error) Error() string {
	if e.Key == "" {
		return e.Message + " (" + e.Origin.String() + ")"
	}
	return "key '" + e.Key + "': " + e.Message + " (" + e.Origin.String() + ")"
}

// Aggregate combines several simultaneous configuration errors into one,
// so that callers report all problems of a directive's attribute set
// together instead of just the first. Nil entries are skipped; an empty
// result yields nil.
func Aggregate(errs []error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	}
	msgs := make([]string, len(nonNil))
	for i, err := range nonNil {
		msgs[i] = err.Error()
	}
	var origin Origin
	for _, err := range nonNil {
		var ce *Error
		if errors.As(err, &ce) {
			origin = ce.Origin
			break
		}
	}
	return &Error{Message: "multiple errors: " + strings.Join(msgs, "; "), Origin: origin}
}
