package cars

import (
	"context"

	"carrental/internal/domain"
)

// CarRepository defines the inventory operations the cars service uses
type CarRepository interface {
	Create(ctx context.Context, c *domain.Car) error
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	GetAll(ctx context.Context) ([]domain.Car, error)
	Update(ctx context.Context, c *domain.Car) error
	Delete(ctx context.Context, id int64) error
	SetAvailability(ctx context.Context, id int64, available bool) (*domain.Car, error)
}

// RentalCounter reports how many active rentals reference a car; used to
// refuse deleting a car that is still rented out.
type RentalCounter interface {
	CountActiveByCar(ctx context.Context, carID int64) (int64, error)
}
