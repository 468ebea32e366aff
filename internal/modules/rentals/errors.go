package rentals

import "errors"

var (
	ErrCarNotFound       = errors.New("car not found")
	ErrRentalNotFound    = errors.New("rental not found")
	ErrCarUnavailable    = errors.New("car not available")
	ErrInvalidDateRange  = errors.New("end date before start date")
	ErrInvalidStatus     = errors.New("unknown rental status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
)
