package booking

import (
	"context"
	"pms/src/models"
)

// Verify re-fetches the authoritative state of each selected unit and re-runs
// the availability rules against it, closing the gap between candidate
// selection and the persistence write. It does not provide mutual exclusion;
// the store's commit transaction does.
func Verify(ctx context.Context, store Store, selected []*models.Unit, iv Interval) error {
	for _, u := range selected {
		fresh, err := store.FetchUnit(ctx, u.ID)
		if err != nil {
			return err
		}
		if !IsUnitFree(fresh, iv) {
			return &StaleError{UnitNumber: fresh.Number}
		}
	}
	return nil
}
