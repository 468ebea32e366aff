package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalOngoing   RentalStatus = "ongoing"
	RentalFinished  RentalStatus = "finished"
	RentalCancelled RentalStatus = "cancelled"
)

// Valid reports whether s is one of the known rental statuses.
func (s RentalStatus) Valid() bool {
	switch s {
	case RentalPending, RentalOngoing, RentalFinished, RentalCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s RentalStatus) Terminal() bool {
	return s == RentalFinished || s == RentalCancelled
}

// Active reports whether a rental in this status holds its car unavailable.
func (s RentalStatus) Active() bool {
	return s == RentalPending || s == RentalOngoing
}

// rentalTransitions is the closed transition table of the rental lifecycle.
// pending may advance to ongoing or be cancelled; ongoing may only finish.
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalPending:   {RentalOngoing, RentalCancelled},
	RentalOngoing:   {RentalFinished},
	RentalFinished:  nil,
	RentalCancelled: nil,
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to RentalStatus) bool {
	for _, next := range rentalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Rental struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	CarID      int64           `json:"car_id"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    time.Time       `json:"end_date"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     RentalStatus    `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Duration returns the requested rental window length.
func (r *Rental) Duration() time.Duration {
	return r.EndDate.Sub(r.StartDate)
}
