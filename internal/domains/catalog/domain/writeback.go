package domain

import (
	"errors"
	"fmt"
)

// WriteFailure describes one position write that did not reach persistence.
type WriteFailure struct {
	ItemID   string
	Position int
	Reason   string
}

// WriteBackReport summarizes an independent, non-transactional set of writes.
// Skipped lists items whose row no longer existed when the write ran.
type WriteBackReport struct {
	Attempted int
	Failures  []WriteFailure
	Skipped   []string
}

func (r WriteBackReport) Succeeded() int {
	return r.Attempted - len(r.Failures) - len(r.Skipped)
}

// Err joins every failure as ErrPersistenceWriteFailed, or returns nil.
func (r WriteBackReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%w: item %s at position %d: %s", ErrPersistenceWriteFailed, f.ItemID, f.Position, f.Reason))
	}
	return errors.Join(errs...)
}
