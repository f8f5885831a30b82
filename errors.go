package grammaticus

import "errors"

var (
	// ErrUnknownSlot is returned for a slot the class does not declare, or a
	// slot code that cannot be parsed. It signals a programming error.
	ErrUnknownSlot = errors.New("unknown slot")

	// ErrUnknownClass is returned for an inflection class with no table.
	ErrUnknownClass = errors.New("unknown inflection class")

	// ErrNoStemFound is returned when a surface form ends in none of the
	// endings of the class. Callers may try another class.
	ErrNoStemFound = errors.New("no stem found")

	// ErrClassMismatch is returned when an exception entry is applied to a
	// class other than its own.
	ErrClassMismatch = errors.New("exception entry belongs to another class")

	// ErrMalformedData is returned while loading paradigm or exception data.
	ErrMalformedData = errors.New("malformed inflection data")
)
