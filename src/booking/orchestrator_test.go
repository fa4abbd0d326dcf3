package booking

import (
	"context"
	"fmt"
	"pms/src/models"
	"pms/src/types"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeStore keeps unit state in memory and mimics the conditional-append
// contract of the real storage layer.
type fakeStore struct {
	mu            sync.Mutex
	pt            *models.PropertyType
	units         []*models.Unit
	committed     []*models.Reservation
	commitErrs    []error
	fetchUnitHook func(*fakeStore, uint)
	unitFetches   int
}

func newFakeStore(unitCount int) *fakeStore {
	s := &fakeStore{
		pt: &models.PropertyType{
			ID:         1,
			Name:       "Deluxe Room",
			BaseRate:   2000,
			TaxPercent: 18,
			Capacity:   2,
		},
	}
	for i := 0; i < unitCount; i++ {
		s.units = append(s.units, &models.Unit{
			ID:             uint(i + 1),
			PropertyTypeID: 1,
			Number:         fmt.Sprintf("%d", 100+i),
		})
	}
	return s
}

func (s *fakeStore) FetchPropertyType(ctx context.Context, id uint) (*models.PropertyType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.pt, nil
}

func (s *fakeStore) FetchUnits(ctx context.Context, propertyTypeID uint) ([]*models.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unitFetches++
	return s.units, nil
}

func (s *fakeStore) FetchUnit(ctx context.Context, unitID uint) (*models.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetchUnitHook != nil {
		hook := s.fetchUnitHook
		s.fetchUnitHook = nil
		hook(s, unitID)
	}
	for _, u := range s.units {
		if u.ID == unitID {
			return u, nil
		}
	}
	return nil, fmt.Errorf("unit %d not found", unitID)
}

func (s *fakeStore) Commit(ctx context.Context, reservation *models.Reservation, units []*models.Unit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.commitErrs) > 0 {
		err := s.commitErrs[0]
		s.commitErrs = s.commitErrs[1:]
		return err
	}
	iv := Interval{Start: reservation.CheckIn, End: reservation.CheckOut}
	for _, u := range units {
		if !IsUnitFree(u, iv) {
			return ErrPersistenceConflict
		}
	}
	for _, u := range units {
		u.Stays = append(u.Stays, &models.StayRecord{
			UnitID:         u.ID,
			StartAt:        &reservation.CheckIn,
			EndAt:          &reservation.CheckOut,
			Status:         types.STAY_BOOKED,
			ReservationRef: &reservation.Ref,
		})
	}
	s.committed = append(s.committed, reservation)
	return nil
}

func (s *fakeStore) stayCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.units {
		n += len(u.Stays)
	}
	return n
}

func stdRequest(unitCount uint) Request {
	return Request{
		PropertyTypeID: 1,
		CheckIn:        mkDate(2026, time.September, 7, 15),
		CheckOut:       mkDate(2026, time.September, 10, 11),
		UnitCount:      unitCount,
		Adults:         2,
	}
}

func TestReserveConfirmed(t *testing.T) {
	store := newFakeStore(5)
	o := NewOrchestrator(store, RandomStrategy{})

	outcome, err := o.Reserve(context.Background(), stdRequest(2))
	assert.Nil(t, err)
	assert.Len(t, outcome.Units, 2)
	assert.Equal(t, types.RESERVATION_CONFIRMED, outcome.Reservation.Status)
	assert.Equal(t, outcome.Quote.Total, outcome.Reservation.Total)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", outcome.Reservation.Ref.String())
	assert.Len(t, store.committed, 1)
	assert.Equal(t, 2, store.stayCount())
}

func TestReserveInvalidInterval(t *testing.T) {
	store := newFakeStore(5)
	o := NewOrchestrator(store, RandomStrategy{})

	req := stdRequest(1)
	req.CheckOut = req.CheckIn
	_, err := o.Reserve(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.Empty(t, store.committed)
}

func TestReserveInsufficientUnits(t *testing.T) {
	store := newFakeStore(1)
	o := NewOrchestrator(store, RandomStrategy{})

	_, err := o.Reserve(context.Background(), stdRequest(3))
	var insufficient *InsufficientError
	assert.ErrorAs(t, err, &insufficient)
	assert.Equal(t, uint(1), insufficient.Free)
	assert.Empty(t, store.committed)
	assert.Equal(t, 0, store.stayCount())
}

func TestReserveRetriesAfterCommitConflict(t *testing.T) {
	store := newFakeStore(5)
	store.commitErrs = []error{ErrPersistenceConflict}
	o := NewOrchestrator(store, RandomStrategy{})

	outcome, err := o.Reserve(context.Background(), stdRequest(2))
	assert.Nil(t, err)
	assert.Len(t, store.committed, 1)
	assert.Equal(t, 2, len(outcome.Units))
}

func TestReserveRetriesAfterStaleAllocation(t *testing.T) {
	store := newFakeStore(2)
	req := stdRequest(1)
	// a concurrent writer takes the selected unit between filtering and
	// verification; the retry must re-filter and land on the other unit
	var stolen uint
	store.fetchUnitHook = func(s *fakeStore, unitID uint) {
		stolen = unitID
		for _, u := range s.units {
			if u.ID == unitID {
				u.Stays = append(u.Stays, &models.StayRecord{
					UnitID:  u.ID,
					StartAt: &req.CheckIn,
					EndAt:   &req.CheckOut,
					Status:  types.STAY_BOOKED,
				})
			}
		}
	}
	o := NewOrchestrator(store, RandomStrategy{})

	outcome, err := o.Reserve(context.Background(), req)
	assert.Nil(t, err)
	assert.Len(t, outcome.Units, 1)
	assert.NotEqual(t, stolen, outcome.Units[0].ID)
	assert.Len(t, store.committed, 1)
	// one conflicting claim plus the committed stay
	assert.Equal(t, 2, store.stayCount())
}

func TestReserveAbortsWhenRetriesExhausted(t *testing.T) {
	store := newFakeStore(3)
	store.commitErrs = []error{
		ErrPersistenceConflict,
		ErrPersistenceConflict,
		ErrPersistenceConflict,
		ErrPersistenceConflict,
	}
	o := NewOrchestrator(store, RandomStrategy{})

	_, err := o.Reserve(context.Background(), stdRequest(1))
	assert.ErrorIs(t, err, ErrPersistenceConflict)
	assert.Empty(t, store.committed)
	assert.Equal(t, 0, store.stayCount())
}

func TestReserveTimesOut(t *testing.T) {
	store := newFakeStore(3)
	o := NewOrchestrator(store, RandomStrategy{})
	o.Timeout = time.Nanosecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Reserve(ctx, stdRequest(1))
	assert.NotNil(t, err)
	assert.Empty(t, store.committed)
}

func TestAdvisoryQuoteReadsNoUnits(t *testing.T) {
	store := newFakeStore(3)
	o := NewOrchestrator(store, RandomStrategy{})

	req := stdRequest(1)
	quote, err := o.AdvisoryQuote(context.Background(), req)
	assert.Nil(t, err)
	assert.Equal(t, 3, quote.Nights)
	assert.Equal(t, 0, store.unitFetches)
}
