package slots

import "errors"

var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotConflict = errors.New("concurrent slot change")
)
