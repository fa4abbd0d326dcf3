package booking

import (
	"pms/src/models"
	"pms/src/types"
	"time"
)

// Interval is a half-open [Start, End) claim on a unit.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) overlaps(start, end time.Time) bool {
	return iv.Start.Before(end) && iv.End.After(start)
}

// IsUnitFree decides whether a unit can take the requested interval, in
// priority order over its stay records:
//
//  1. A pending_cleanup record, or a checked_out record with no recorded end
//     time, blocks unconditionally — housekeeping has not confirmed readiness.
//  2. An under_maintenance record with a start time blocks every interval
//     whose start or end falls at or after that start (maintenance is
//     open-ended going forward); with no start time it blocks unconditionally.
//  3. A booked or checked_in record blocks on half-open overlap. Comparing
//     exact timestamps keeps same-day turnover possible: a new stay may begin
//     at the prior stay's checkout instant.
//  4. Anything else does not block.
func IsUnitFree(unit *models.Unit, iv Interval) bool {
	for _, stay := range unit.Stays {
		switch stay.Status {
		case types.STAY_PENDING_CLEANUP:
			return false
		case types.STAY_CHECKED_OUT:
			if stay.EndAt == nil {
				return false
			}
		case types.STAY_UNDER_MAINTENANCE:
			if stay.StartAt == nil {
				return false
			}
			if !iv.Start.Before(*stay.StartAt) || !iv.End.Before(*stay.StartAt) {
				return false
			}
		case types.STAY_BOOKED, types.STAY_CHECKED_IN:
			if stay.StartAt == nil || stay.EndAt == nil {
				return false
			}
			if iv.overlaps(*stay.StartAt, *stay.EndAt) {
				return false
			}
		}
	}
	return true
}

// FilterFree returns the candidate units for the requested interval.
func FilterFree(units []*models.Unit, iv Interval) []*models.Unit {
	candidates := make([]*models.Unit, 0, len(units))
	for _, u := range units {
		if IsUnitFree(u, iv) {
			candidates = append(candidates, u)
		}
	}
	return candidates
}
