package store

import (
	"errors"
	"strings"
)

// ErrDuplicate reports that an insert or update hit a UNIQUE constraint.
// Handlers pre-check for duplicates, so this surfaces only when two
// writers race past the check; callers map it to a conflict response.
var ErrDuplicate = errors.New("duplicate row")

func mapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicate
	}
	return err
}
