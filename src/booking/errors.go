package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInterval rejects a request whose checkout is not after its
	// checkin. Returned before any storage lookup.
	ErrInvalidInterval = errors.New("checkout must be after checkin")

	// ErrPersistenceConflict means the storage layer rejected the append
	// because a concurrent writer won the race. Retryable the same way a
	// stale allocation is.
	ErrPersistenceConflict = errors.New("concurrent writer won the commit race")
)

// InsufficientError reports fewer free units than requested at filter time.
// Free carries the actual free count so callers can surface it.
type InsufficientError struct {
	Requested uint
	Free      uint
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("requested %d units but only %d are free", e.Requested, e.Free)
}

// StaleError reports a unit that became unavailable between filtering and
// commit.
type StaleError struct {
	UnitNumber string
}

func (e *StaleError) Error() string {
	return fmt.Sprintf("unit [%s] is no longer available", e.UnitNumber)
}
