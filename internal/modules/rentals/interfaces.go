package rentals

import (
	"context"

	"carrental/internal/domain"

	"gorm.io/gorm"
)

// RentalRepository defines the read side of rental storage. Writes happen
// inside this package's own transactions via DB().
type RentalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Rental, error)
	ListAll(ctx context.Context) ([]domain.Rental, error)
	DB() *gorm.DB
}
