package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mkDate(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func stdConfig() RateConfig {
	return RateConfig{
		BaseRate:       2000,
		TaxPercent:     18,
		ExtraGuestRate: 500,
		Capacity:       2,
		Weekend:        NewWeekendRule([]time.Weekday{time.Saturday, time.Sunday}, 20),
	}
}

func TestQuoteWeekendHike(t *testing.T) {
	cfg := stdConfig()
	// Friday to Sunday: one weekday night, one weekend night
	checkIn := mkDate(2026, time.September, 4, 15)
	checkOut := mkDate(2026, time.September, 6, 11)

	quote, err := ComputeQuote(cfg, checkIn, checkOut, 1, 2)
	assert.Nil(t, err)
	assert.Equal(t, 2, quote.Nights)
	assert.Equal(t, 4400.0, quote.RoomCharge)
	assert.Equal(t, 792.0, quote.Taxes)
	assert.Equal(t, 0.0, quote.ExtraCharge)
	assert.Equal(t, 5192.0, quote.Total)
}

func TestQuoteCountsCalendarNights(t *testing.T) {
	cfg := stdConfig()
	// checkout time-of-day later than check-in time-of-day must not add a night
	checkIn := mkDate(2026, time.September, 7, 9)
	checkOut := mkDate(2026, time.September, 8, 11)

	quote, err := ComputeQuote(cfg, checkIn, checkOut, 1, 2)
	assert.Nil(t, err)
	assert.Equal(t, 1, quote.Nights)
	assert.Equal(t, 2000.0, quote.RoomCharge)
	assert.Equal(t, 360.0, quote.Taxes)
	assert.Equal(t, 2360.0, quote.Total)
}

func TestQuoteLateCheckoutKeepsNightClassification(t *testing.T) {
	cfg := stdConfig()
	// Saturday morning to Sunday morning: one weekend night
	checkIn := mkDate(2026, time.September, 5, 9)
	checkOut := mkDate(2026, time.September, 6, 11)

	quote, err := ComputeQuote(cfg, checkIn, checkOut, 1, 2)
	assert.Nil(t, err)
	assert.Equal(t, 1, quote.Nights)
	assert.Equal(t, 2400.0, quote.RoomCharge)
}

func TestQuoteSameDayUse(t *testing.T) {
	cfg := stdConfig()
	// a hall held for the afternoon bills one night at that date's rate
	checkIn := mkDate(2026, time.September, 7, 9)
	checkOut := mkDate(2026, time.September, 7, 18)

	quote, err := ComputeQuote(cfg, checkIn, checkOut, 1, 2)
	assert.Nil(t, err)
	assert.Equal(t, 1, quote.Nights)
	assert.Equal(t, 2000.0, quote.RoomCharge)

	// same-day use on a weekend date takes the hiked rate
	quote, err = ComputeQuote(cfg, mkDate(2026, time.September, 5, 9), mkDate(2026, time.September, 5, 18), 1, 2)
	assert.Nil(t, err)
	assert.Equal(t, 2400.0, quote.RoomCharge)
}

func TestQuoteStableOnRecompute(t *testing.T) {
	cfg := stdConfig()
	checkIn := mkDate(2026, time.September, 4, 15)
	checkOut := mkDate(2026, time.September, 8, 11)

	first, err := ComputeQuote(cfg, checkIn, checkOut, 3, 6)
	assert.Nil(t, err)
	second, err := ComputeQuote(cfg, checkIn, checkOut, 3, 6)
	assert.Nil(t, err)
	assert.Equal(t, first, second)
}

func TestQuoteRejectsEmptyInterval(t *testing.T) {
	cfg := stdConfig()
	at := mkDate(2026, time.September, 4, 15)

	_, err := ComputeQuote(cfg, at, at, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = ComputeQuote(cfg, at, at.Add(-time.Hour), 1, 2)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestQuoteExtraGuestSurcharge(t *testing.T) {
	cfg := stdConfig()
	// Monday to Thursday, no weekend nights
	checkIn := mkDate(2026, time.September, 7, 15)
	checkOut := mkDate(2026, time.September, 10, 11)

	// 1 unit of capacity 2 with 4 guests: 2 extra across 3 nights
	quote, err := ComputeQuote(cfg, checkIn, checkOut, 1, 4)
	assert.Nil(t, err)
	assert.Equal(t, 6000.0, quote.RoomCharge)
	assert.Equal(t, 3000.0, quote.ExtraCharge)
	// surcharge is outside the tax base
	assert.Equal(t, 1080.0, quote.Taxes)
	assert.Equal(t, 10080.0, quote.Total)
}

func TestQuoteTaxOnSurcharge(t *testing.T) {
	cfg := stdConfig()
	cfg.TaxOnSurcharge = true
	checkIn := mkDate(2026, time.September, 7, 15)
	checkOut := mkDate(2026, time.September, 10, 11)

	quote, err := ComputeQuote(cfg, checkIn, checkOut, 1, 4)
	assert.Nil(t, err)
	assert.Equal(t, 1620.0, quote.Taxes)
	assert.Equal(t, 10620.0, quote.Total)
}

func TestQuoteGuestsWithinCapacity(t *testing.T) {
	cfg := stdConfig()
	checkIn := mkDate(2026, time.September, 7, 15)
	checkOut := mkDate(2026, time.September, 8, 11)

	// 2 units of capacity 2 hold 4 guests with no surcharge
	quote, err := ComputeQuote(cfg, checkIn, checkOut, 2, 4)
	assert.Nil(t, err)
	assert.Equal(t, 0.0, quote.ExtraCharge)
}

func TestPriceForNightWeekend(t *testing.T) {
	rule := NewWeekendRule([]time.Weekday{time.Friday}, 50)
	friday := mkDate(2026, time.September, 4, 0)
	saturday := mkDate(2026, time.September, 5, 0)

	assert.Equal(t, 1500.0, rule.PriceForNight(1000, friday))
	assert.Equal(t, 1000.0, rule.PriceForNight(1000, saturday))
}
