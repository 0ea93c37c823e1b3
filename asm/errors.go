package asm

import "errors"

// Errors returned by constructors and setters of encoding values. All of them
// indicate a caller bug and are reported at construction time, never while
// serializing an already built instruction.
var (
	// ErrCapacityExceeded is returned when a requested length or value width
	// does not fit in the fixed capacity of a buffer.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrFieldOutOfRange is returned when a bit-field value exceeds its width,
	// e.g. a 3-bit register field set to 8 or a SIB scale that isn't 1, 2, 4 or 8.
	ErrFieldOutOfRange = errors.New("field out of range")
	// ErrInvalidRex is returned when a raw byte does not have the 0100 REX high nibble.
	ErrInvalidRex = errors.New("invalid REX prefix")
)
