package booking

import (
	"math"
	"pms/src/models"
	"strings"
	"time"
)

// WeekendRule enumerates which weekdays count as "weekend" and the percentage
// hike applied multiplicatively to the base rate on those days.
type WeekendRule struct {
	Days        map[time.Weekday]bool
	HikePercent float64
}

func NewWeekendRule(days []time.Weekday, hikePercent float64) WeekendRule {
	m := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		m[d] = true
	}
	return WeekendRule{Days: m, HikePercent: hikePercent}
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// PriceForNight returns the nightly rate for a single date. Pure and stable
// under repeated calls, so a commit-time recomputation with unchanged inputs
// matches the original quote bit-for-bit.
func (r WeekendRule) PriceForNight(baseRate float64, date time.Time) float64 {
	if r.Days[date.Weekday()] {
		return baseRate * (1 + r.HikePercent/100)
	}
	return baseRate
}

// RateConfig is the pricing configuration of a PropertyType, consumed from
// property configuration storage, not owned here.
type RateConfig struct {
	BaseRate       float64
	TaxPercent     float64
	ExtraGuestRate float64
	Capacity       uint
	Weekend        WeekendRule
	// TaxOnSurcharge switches the tax base to include the extra-guest
	// surcharge. The observed domain behavior taxes the room charge alone.
	TaxOnSurcharge bool
}

// RateConfigFor builds a RateConfig from persisted PropertyType configuration.
// Weekend days default to Saturday and Sunday when none are configured.
func RateConfigFor(pt *models.PropertyType) RateConfig {
	days := make([]time.Weekday, 0, len(pt.WeekendDays))
	for _, v := range pt.WeekendDays {
		name, ok := v.(string)
		if !ok {
			continue
		}
		if d, ok := weekdayNames[strings.ToLower(name)]; ok {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		days = []time.Weekday{time.Saturday, time.Sunday}
	}
	return RateConfig{
		BaseRate:       pt.BaseRate,
		TaxPercent:     pt.TaxPercent,
		ExtraGuestRate: pt.ExtraGuestRate,
		Capacity:       pt.Capacity,
		Weekend:        NewWeekendRule(days, pt.WeekendHikePercent),
	}
}

// Quote is the computed monetary breakdown for a stay. Derived, never stored
// on its own; it is recomputed at commit time from the same inputs.
type Quote struct {
	Nights      int     `json:"nights"`
	RoomCharge  float64 `json:"room_charge"`
	Taxes       float64 `json:"taxes"`
	ExtraCharge float64 `json:"extra_charge"`
	Total       float64 `json:"total"`
}

// ComputeQuote iterates each calendar night in [checkIn, checkOut) and
// aggregates the room charge across unitCount units, tax on the pre-surcharge
// subtotal, and the extra-guest surcharge as a single line item. Nights are
// counted by calendar date, not 24-hour steps, so a late checkout never adds
// a night; each night takes the weekend classification of its own date. An
// interval inside a single date (a hall booked for the afternoon) bills as
// one night at that date's rate.
func ComputeQuote(cfg RateConfig, checkIn, checkOut time.Time, unitCount, guests uint) (*Quote, error) {
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidInterval
	}
	var nights int
	var roomCharge float64
	first := dateOf(checkIn)
	last := dateOf(checkOut)
	for night := first; night.Before(last); night = night.AddDate(0, 0, 1) {
		roomCharge += cfg.Weekend.PriceForNight(cfg.BaseRate, night) * float64(unitCount)
		nights++
	}
	if nights == 0 {
		roomCharge = cfg.Weekend.PriceForNight(cfg.BaseRate, first) * float64(unitCount)
		nights = 1
	}

	var extraCharge float64
	extraGuests := int(guests) - int(cfg.Capacity*unitCount)
	if extraGuests > 0 {
		extraCharge = float64(extraGuests) * cfg.ExtraGuestRate * float64(nights)
	}

	taxBase := roomCharge
	if cfg.TaxOnSurcharge {
		taxBase += extraCharge
	}
	taxes := taxBase * cfg.TaxPercent / 100

	q := &Quote{
		Nights:      nights,
		RoomCharge:  roundCents(roomCharge),
		Taxes:       roundCents(taxes),
		ExtraCharge: roundCents(extraCharge),
	}
	q.Total = roundCents(q.RoomCharge + q.Taxes + q.ExtraCharge)
	return q, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
