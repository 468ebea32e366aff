package rentals

import (
	"context"
	"errors"
	"time"

	"carrental/internal/domain"
	"carrental/internal/pkg/pricing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the rental facade: every public operation is one transaction,
// so the rental row, the price snapshot and the car's availability flag
// always move together.
type Service struct {
	rentals RentalRepository
}

func NewService(rentals RentalRepository) *Service {
	return &Service{rentals: rentals}
}

// rentalRow mirrors the rentals table for writes done inside this package's
// transactions.
type rentalRow struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	UserID     int64           `gorm:"column:user_id"`
	CarID      int64           `gorm:"column:car_id"`
	StartDate  time.Time       `gorm:"column:start_date"`
	EndDate    time.Time       `gorm:"column:end_date"`
	TotalPrice decimal.Decimal `gorm:"column:total_price"`
	Status     string          `gorm:"column:status"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (rentalRow) TableName() string { return "rentals" }

func rowToDomain(m rentalRow) *domain.Rental {
	return &domain.Rental{
		ID:         m.ID,
		UserID:     m.UserID,
		CarID:      m.CarID,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		TotalPrice: m.TotalPrice,
		Status:     domain.RentalStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// Book creates a pending rental for an available car, prices the requested
// window and takes the car off the fleet, all in one transaction.
func (s *Service) Book(ctx context.Context, actorRole domain.UserRole, userID int64, req CreateRentalRequest) (*domain.Rental, error) {
	if actorRole != domain.RoleCustomer {
		return nil, ErrForbidden
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	var out *domain.Rental
	err := s.rentals.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		car, err := lockCar(tx, req.CarID)
		if err != nil {
			return err
		}
		if !car.Available {
			return ErrCarUnavailable
		}

		price, err := pricing.ComputePrice(req.StartDate, req.EndDate, car.PricePerDay)
		if err != nil {
			return ErrInvalidDateRange
		}

		row := rentalRow{
			UserID:     userID,
			CarID:      car.ID,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			TotalPrice: price,
			Status:     string(domain.RentalPending),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		if err := markCarUnavailable(tx, car.ID); err != nil {
			return err
		}

		out = rowToDomain(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdvanceStatus moves a rental through the lifecycle. pending->ongoing
// re-anchors the window to start now, keeping the requested duration, and
// reprices it; pending->cancelled and ongoing->finished release the car.
// Anything outside the transition table is rejected without touching state.
func (s *Service) AdvanceStatus(ctx context.Context, actorRole domain.UserRole, rentalID int64, newStatus domain.RentalStatus) (*domain.Rental, error) {
	if actorRole != domain.RoleAdmin {
		return nil, ErrForbidden
	}
	if !newStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	var out *domain.Rental
	err := s.rentals.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row rentalRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, rentalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRentalNotFound
			}
			return err
		}

		if !domain.CanTransition(domain.RentalStatus(row.Status), newStatus) {
			return ErrInvalidTransition
		}

		car, err := lockCar(tx, row.CarID)
		if err != nil {
			return err
		}

		updates := map[string]any{"status": string(newStatus)}

		switch newStatus {
		case domain.RentalOngoing:
			// Re-anchor: the rental starts now, keeps its requested
			// duration and is repriced off the shifted window.
			duration := row.EndDate.Sub(row.StartDate)
			start := time.Now()
			end := start.Add(duration)

			price, err := pricing.ComputePrice(start, end, car.PricePerDay)
			if err != nil {
				return err
			}

			row.StartDate = start
			row.EndDate = end
			row.TotalPrice = price
			updates["start_date"] = start
			updates["end_date"] = end
			updates["total_price"] = price

		case domain.RentalCancelled, domain.RentalFinished:
			if err := markCarAvailable(tx, car.ID); err != nil {
				return err
			}

		case domain.RentalPending:
			// unreachable: nothing transitions back to pending
		}

		if err := tx.Model(&rentalRow{}).Where("id = ?", row.ID).Updates(updates).Error; err != nil {
			return err
		}

		row.Status = string(newStatus)
		out = rowToDomain(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListMine returns the rentals owned by userID.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Rental, error) {
	return s.rentals.ListByUser(ctx, userID)
}

// ListAll returns the full rental history.
func (s *Service) ListAll(ctx context.Context) ([]domain.Rental, error) {
	return s.rentals.ListAll(ctx)
}

// GetByID returns a single rental.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	r, err := s.rentals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return r, nil
}
