package cars

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrHasActiveRent = errors.New("car has active rentals")
)
