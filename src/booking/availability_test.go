package booking

import (
	"pms/src/models"
	"pms/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mkUnit(number string, stays ...*models.StayRecord) *models.Unit {
	return &models.Unit{Number: number, Stays: stays}
}

func mkStay(status types.StayStatus, start, end *time.Time) *models.StayRecord {
	return &models.StayRecord{Status: status, StartAt: start, EndAt: end}
}

func TestSameDayTurnover(t *testing.T) {
	turnover := mkDate(2026, time.September, 10, 11)
	prevStart := turnover.AddDate(0, 0, -3)
	unit := mkUnit("101", mkStay(types.STAY_BOOKED, &prevStart, &turnover))

	// new stay starting at the exact checkout instant is allowed
	iv := Interval{Start: turnover, End: turnover.AddDate(0, 0, 2)}
	assert.True(t, IsUnitFree(unit, iv))
}

func TestOverlappingBookingBlocks(t *testing.T) {
	end := mkDate(2026, time.September, 10, 11)
	start := end.AddDate(0, 0, -3)
	unit := mkUnit("101", mkStay(types.STAY_BOOKED, &start, &end))

	iv := Interval{Start: end.Add(-time.Hour), End: end.AddDate(0, 0, 2)}
	assert.False(t, IsUnitFree(unit, iv))

	// fully contained interval
	iv = Interval{Start: start.Add(time.Hour), End: end.Add(-time.Hour)}
	assert.False(t, IsUnitFree(unit, iv))
}

func TestCheckedInBlocksLikeBooked(t *testing.T) {
	end := mkDate(2026, time.September, 10, 11)
	start := end.AddDate(0, 0, -3)
	unit := mkUnit("101", mkStay(types.STAY_CHECKED_IN, &start, &end))

	iv := Interval{Start: start, End: end}
	assert.False(t, IsUnitFree(unit, iv))

	iv = Interval{Start: end, End: end.AddDate(0, 0, 1)}
	assert.True(t, IsUnitFree(unit, iv))
}

func TestPendingCleanupBlocksUnconditionally(t *testing.T) {
	flagged := mkDate(2026, time.September, 1, 11)
	unit := mkUnit("102", mkStay(types.STAY_PENDING_CLEANUP, &flagged, nil))

	// far in the future, still blocked until housekeeping confirms
	iv := Interval{
		Start: mkDate(2026, time.December, 1, 15),
		End:   mkDate(2026, time.December, 5, 11),
	}
	assert.False(t, IsUnitFree(unit, iv))
}

func TestCheckedOutWithoutEndBlocks(t *testing.T) {
	start := mkDate(2026, time.September, 1, 15)
	unit := mkUnit("103", mkStay(types.STAY_CHECKED_OUT, &start, nil))

	iv := Interval{Start: mkDate(2026, time.October, 1, 15), End: mkDate(2026, time.October, 3, 11)}
	assert.False(t, IsUnitFree(unit, iv))
}

func TestResolvedCheckoutDoesNotBlock(t *testing.T) {
	start := mkDate(2026, time.September, 1, 15)
	end := mkDate(2026, time.September, 4, 11)
	unit := mkUnit("103", mkStay(types.STAY_CHECKED_OUT, &start, &end))

	// even an overlapping interval is fine once the stay has ended
	iv := Interval{Start: start, End: end}
	assert.True(t, IsUnitFree(unit, iv))
}

func TestMaintenanceIsOpenEnded(t *testing.T) {
	mStart := mkDate(2026, time.October, 1, 0)
	unit := mkUnit("104", mkStay(types.STAY_UNDER_MAINTENANCE, &mStart, nil))

	// interval entirely before maintenance starts
	iv := Interval{Start: mkDate(2026, time.September, 10, 15), End: mkDate(2026, time.September, 12, 11)}
	assert.True(t, IsUnitFree(unit, iv))

	// interval ending at the maintenance start
	iv = Interval{Start: mkDate(2026, time.September, 29, 15), End: mStart}
	assert.False(t, IsUnitFree(unit, iv))

	// interval starting after maintenance starts
	iv = Interval{Start: mkDate(2026, time.October, 5, 15), End: mkDate(2026, time.October, 7, 11)}
	assert.False(t, IsUnitFree(unit, iv))
}

func TestMaintenanceWithoutStartBlocks(t *testing.T) {
	unit := mkUnit("105", mkStay(types.STAY_UNDER_MAINTENANCE, nil, nil))

	iv := Interval{Start: mkDate(2026, time.September, 10, 15), End: mkDate(2026, time.September, 12, 11)}
	assert.False(t, IsUnitFree(unit, iv))
}

func TestFilterFree(t *testing.T) {
	end := mkDate(2026, time.September, 10, 11)
	start := end.AddDate(0, 0, -3)
	units := []*models.Unit{
		mkUnit("201"),
		mkUnit("202", mkStay(types.STAY_BOOKED, &start, &end)),
		mkUnit("203", mkStay(types.STAY_PENDING_CLEANUP, &start, nil)),
		mkUnit("204", mkStay(types.STAY_CHECKED_OUT, &start, &end)),
	}

	iv := Interval{Start: end.Add(-time.Hour), End: end.AddDate(0, 0, 2)}
	free := FilterFree(units, iv)
	assert.Len(t, free, 2)
	assert.Equal(t, "201", free[0].Number)
	assert.Equal(t, "204", free[1].Number)
}
