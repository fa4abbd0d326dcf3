package booking

import (
	"context"
	"errors"
	"log"
	"pms/src/models"
	"pms/src/types"
	"time"

	"github.com/google/uuid"
)

const (
	defaultMaxRetries = 3
	defaultTimeout    = 10 * time.Second
)

// Request is the ephemeral input of one reservation attempt. It is not
// persisted unless allocation succeeds.
type Request struct {
	PropertyTypeID uint
	CheckIn        time.Time
	CheckOut       time.Time
	UnitCount      uint
	Adults         uint
	Children       uint
	UserID         uint
	PaymentToken   *string
}

// Outcome is the confirmed result: the persisted reservation, the units it
// claimed and the final recomputed quote.
type Outcome struct {
	Reservation *models.Reservation
	Units       []*models.Unit
	Quote       *Quote
}

// Orchestrator sequences one booking attempt through
// Quoting -> Filtering -> Allocating -> Verifying -> Committing. It is a
// stateless function of its inputs plus the store reads it performs; the
// persistence write in Committing is its only side effect.
type Orchestrator struct {
	Store      Store
	Strategy   Strategy
	MaxRetries int
	Timeout    time.Duration
}

func NewOrchestrator(store Store, strategy Strategy) *Orchestrator {
	return &Orchestrator{
		Store:      store,
		Strategy:   strategy,
		MaxRetries: defaultMaxRetries,
		Timeout:    defaultTimeout,
	}
}

// AdvisoryQuote runs the rate calculator against the current configuration
// without touching unit state. Display only.
func (o *Orchestrator) AdvisoryQuote(ctx context.Context, req Request) (*Quote, error) {
	pt, err := o.Store.FetchPropertyType(ctx, req.PropertyTypeID)
	if err != nil {
		return nil, err
	}
	return ComputeQuote(RateConfigFor(pt), req.CheckIn, req.CheckOut, req.UnitCount, req.Adults+req.Children)
}

// Reserve runs one reservation attempt to Confirmed or Aborted. A stale
// allocation or a lost commit race re-runs Filtering with fresh state up to
// MaxRetries times; every other failure aborts immediately. No partial set of
// stay records is ever left committed.
func (o *Orchestrator) Reserve(ctx context.Context, req Request) (*Outcome, error) {
	if !req.CheckOut.After(req.CheckIn) {
		return nil, ErrInvalidInterval
	}
	ctx, cancel := context.WithTimeout(ctx, o.Timeout)
	defer cancel()

	iv := Interval{Start: req.CheckIn, End: req.CheckOut}
	guests := req.Adults + req.Children

	// Quoting
	pt, err := o.Store.FetchPropertyType(ctx, req.PropertyTypeID)
	if err != nil {
		return nil, err
	}
	if _, err := ComputeQuote(RateConfigFor(pt), req.CheckIn, req.CheckOut, req.UnitCount, guests); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		// Filtering
		units, err := o.Store.FetchUnits(ctx, req.PropertyTypeID)
		if err != nil {
			return nil, err
		}
		candidates := FilterFree(units, iv)

		// Allocating
		selected, err := o.Strategy.Allocate(candidates, req.UnitCount)
		if err != nil {
			return nil, err
		}

		// Verifying
		if err := Verify(ctx, o.Store, selected, iv); err != nil {
			var stale *StaleError
			if errors.As(err, &stale) && attempt < o.MaxRetries {
				log.Printf("Allocation went stale on unit [%s], retrying (%d/%d)\n", stale.UnitNumber, attempt+1, o.MaxRetries)
				continue
			}
			return nil, err
		}

		// Committing: recompute the quote against freshly-read configuration
		// so mid-flow price changes cannot leak a stale total.
		pt, err = o.Store.FetchPropertyType(ctx, req.PropertyTypeID)
		if err != nil {
			return nil, err
		}
		quote, err := ComputeQuote(RateConfigFor(pt), req.CheckIn, req.CheckOut, req.UnitCount, guests)
		if err != nil {
			return nil, err
		}
		reservation := &models.Reservation{
			Ref:            uuid.New(),
			PropertyTypeID: req.PropertyTypeID,
			UnitCount:      req.UnitCount,
			CheckIn:        req.CheckIn,
			CheckOut:       req.CheckOut,
			Adults:         req.Adults,
			Children:       req.Children,
			RoomCharge:     quote.RoomCharge,
			Taxes:          quote.Taxes,
			ExtraCharge:    quote.ExtraCharge,
			Total:          quote.Total,
			Status:         types.RESERVATION_CONFIRMED,
			PaymentToken:   req.PaymentToken,
			UserID:         req.UserID,
		}
		if err := o.Store.Commit(ctx, reservation, selected); err != nil {
			if errors.Is(err, ErrPersistenceConflict) && attempt < o.MaxRetries {
				log.Printf("Commit lost the race for reservation [%s], retrying (%d/%d)\n", reservation.Ref.String(), attempt+1, o.MaxRetries)
				continue
			}
			return nil, err
		}
		log.Printf("Confirmed reservation [%s] for %d unit(s)\n", reservation.Ref.String(), len(selected))
		return &Outcome{Reservation: reservation, Units: selected, Quote: quote}, nil
	}
}
