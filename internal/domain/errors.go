package domain

import "errors"

// Validation errors. They are raised before any transaction starts.
var (
	ErrBadRange       = errors.New("bad_range")
	ErrInvalidDaypart = errors.New("invalid daypart")
	ErrInvalidInput   = errors.New("invalid input")
)
