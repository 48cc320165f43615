package customers

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage classifies underlying SQL execution failures.
	ErrStorage = errors.New("customers storage error")

	// errDuplicateGuest signals that a concurrent insert won the race
	// for the same guest email. Internal: the resolver re-reads and
	// returns the surviving row.
	errDuplicateGuest = errors.New("duplicate guest row")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
