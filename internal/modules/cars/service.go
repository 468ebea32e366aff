package cars

import (
	"context"

	"carrental/internal/domain"
	pkgvalidator "carrental/internal/pkg/validator"
)

type Service struct {
	cars    CarRepository
	rentals RentalCounter
}

func NewService(cars CarRepository, rentals RentalCounter) *Service {
	return &Service{
		cars:    cars,
		rentals: rentals,
	}
}

func (s *Service) Create(ctx context.Context, req CarRequest) (*domain.Car, error) {
	if !req.PricePerDay.IsPositive() {
		return nil, ErrValidation
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	car := &domain.Car{
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		PricePerDay: req.PricePerDay,
		Available:   available,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}
	if fields := pkgvalidator.Validate(car); fields != nil {
		return nil, ErrValidation
	}

	if err := s.cars.Create(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Car, error) {
	return s.cars.GetAll(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	return s.cars.GetByID(ctx, id)
}

// Update replaces the car's descriptive attributes and rate. The availability
// flag is owned by the rental workflow and is not writable here.
func (s *Service) Update(ctx context.Context, id int64, req CarRequest) (*domain.Car, error) {
	if !req.PricePerDay.IsPositive() {
		return nil, ErrValidation
	}

	car := &domain.Car{
		ID:          id,
		Brand:       req.Brand,
		Model:       req.Model,
		Year:        req.Year,
		PricePerDay: req.PricePerDay,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}
	if fields := pkgvalidator.Validate(car); fields != nil {
		return nil, ErrValidation
	}

	if err := s.cars.Update(ctx, car); err != nil {
		return nil, err
	}
	return car, nil
}

// Delete removes a car from the inventory. Refused while any pending or
// ongoing rental still references it; rental history rows keep the id, so a
// delete of a quiet car never orphans an active booking.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.cars.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.rentals.CountActiveByCar(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrHasActiveRent
	}

	return s.cars.Delete(ctx, id)
}

// OverrideAvailability is the documented administrative escape hatch: it
// writes the flag directly, bypassing the rental ledger.
func (s *Service) OverrideAvailability(ctx context.Context, id int64, available bool) (*domain.Car, error) {
	return s.cars.SetAvailability(ctx, id, available)
}
