package repository

import "errors"

// Storage-neutral outcomes that services branch on.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("violates a storage constraint")
)

// ConstraintError names the constraint that rejected a write. It unwraps to one
// of the sentinels above.
type ConstraintError struct {
	Constraint string
	Kind       error
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Constraint
}

func (e *ConstraintError) Unwrap() error { return e.Kind }

// ConstraintOf returns the constraint name carried by err, or "".
func ConstraintOf(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}
