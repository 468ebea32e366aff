// Package pricing computes rental cost from a date range and a per-day rate.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidRange = errors.New("end date before start date")

const secondsPerDay = 24 * 60 * 60

// Days returns the number of billable days in [start, end]: the duration
// rounded up to whole days, never less than one. A same-day or sub-day
// booking still costs a full day.
func Days(start, end time.Time) (int64, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	seconds := int64(end.Sub(start) / time.Second)
	days := seconds / secondsPerDay
	if seconds%secondsPerDay != 0 {
		days++
	}
	if days < 1 {
		days = 1
	}
	return days, nil
}

// ComputePrice returns billable days * ratePerDay. It is pure and uses exact
// decimal arithmetic; callers must not feed it an inverted range.
func ComputePrice(start, end time.Time, ratePerDay decimal.Decimal) (decimal.Decimal, error) {
	days, err := Days(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return ratePerDay.Mul(decimal.NewFromInt(days)), nil
}
