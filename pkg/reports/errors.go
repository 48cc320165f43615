package reports

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument classifies malformed pagination or filter input.
	// Surfaced to the caller, never retried.
	ErrInvalidArgument = errors.New("reports invalid argument")
	// ErrNotFound classifies lookups for customers that do not exist.
	ErrNotFound = errors.New("reports not found")
	// ErrStorage classifies underlying query execution failures.
	ErrStorage = errors.New("reports storage error")

	// errPageOutOfRange signals that the requested page lies outside
	// [1, pages]. Not surfaced: callers translate it into the defined
	// empty result.
	errPageOutOfRange = errors.New("page out of range")
)

func reportsError(kind error, message string) error {
	if message == "" {
		return kind
	}
	return fmt.Errorf("%w: %s", kind, message)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
