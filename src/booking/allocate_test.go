package booking

import (
	"fmt"
	"pms/src/models"
	"pms/src/types"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mkUnits(n int) []*models.Unit {
	units := make([]*models.Unit, 0, n)
	for i := 0; i < n; i++ {
		units = append(units, &models.Unit{ID: uint(i + 1), Number: fmt.Sprintf("%d", 100+i)})
	}
	return units
}

func TestRandomAllocation(t *testing.T) {
	candidates := mkUnits(10)
	selected, err := RandomStrategy{}.Allocate(candidates, 3)
	assert.Nil(t, err)
	assert.Len(t, selected, 3)

	pool := map[uint]bool{}
	for _, u := range candidates {
		pool[u.ID] = true
	}
	seen := map[uint]bool{}
	for _, u := range selected {
		assert.True(t, pool[u.ID], "selected unit outside the candidate set")
		assert.False(t, seen[u.ID], "unit selected twice")
		seen[u.ID] = true
	}
}

func TestRandomAllocationExactFit(t *testing.T) {
	candidates := mkUnits(3)
	selected, err := RandomStrategy{}.Allocate(candidates, 3)
	assert.Nil(t, err)
	assert.Len(t, selected, 3)
}

func TestRandomAllocationInsufficient(t *testing.T) {
	candidates := mkUnits(2)
	_, err := RandomStrategy{}.Allocate(candidates, 3)
	var insufficient *InsufficientError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint(3), insufficient.Requested)
	assert.Equal(t, uint(2), insufficient.Free)
}

func TestRandomAllocationDoesNotMutateCandidates(t *testing.T) {
	candidates := mkUnits(5)
	order := make([]uint, 0, 5)
	for _, u := range candidates {
		order = append(order, u.ID)
	}
	_, err := RandomStrategy{}.Allocate(candidates, 2)
	assert.Nil(t, err)
	for i, u := range candidates {
		assert.Equal(t, order[i], u.ID)
	}
}

func TestLeastRecentlyUsedAllocation(t *testing.T) {
	old := mkDate(2026, time.June, 1, 11)
	recent := mkDate(2026, time.August, 20, 11)
	units := []*models.Unit{
		{ID: 1, Number: "101", Stays: []*models.StayRecord{mkStay(types.STAY_CHECKED_OUT, nil, &recent)}},
		{ID: 2, Number: "102", Stays: []*models.StayRecord{mkStay(types.STAY_CHECKED_OUT, nil, &old)}},
		{ID: 3, Number: "103"},
	}

	selected, err := LeastRecentlyUsedStrategy{}.Allocate(units, 2)
	assert.Nil(t, err)
	assert.Len(t, selected, 2)
	// never-used first, then longest idle
	assert.Equal(t, uint(3), selected[0].ID)
	assert.Equal(t, uint(2), selected[1].ID)
}

func TestLeastRecentlyUsedInsufficient(t *testing.T) {
	_, err := LeastRecentlyUsedStrategy{}.Allocate(mkUnits(1), 4)
	var insufficient *InsufficientError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint(1), insufficient.Free)
}
