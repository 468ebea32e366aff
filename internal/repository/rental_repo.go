package repository

import (
	"context"
	"time"

	"carrental/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RentalRepository struct {
	db *gorm.DB
}

func NewRentalRepository(db *gorm.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

type rentalModel struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	UserID     int64           `gorm:"column:user_id;index"`
	CarID      int64           `gorm:"column:car_id;index"`
	StartDate  time.Time       `gorm:"column:start_date"`
	EndDate    time.Time       `gorm:"column:end_date"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:decimal(10,2)"`
	Status     string          `gorm:"column:status"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (rentalModel) TableName() string { return "rentals" }

func toDomainRental(m rentalModel) *domain.Rental {
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

func (r *RentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	var m rentalModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRental(m), nil
}

func (r *RentalRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Rental, error) {
	var ms []rentalModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Rental, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainRental(m))
	}
	return out, nil
}

func (r *RentalRepository) ListAll(ctx context.Context) ([]domain.Rental, error) {
	var ms []rentalModel
	tx := r.db.WithContext(ctx).Order("id").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Rental, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainRental(m))
	}
	return out, nil
}

// CountActiveByCar counts rentals still holding the car (pending or ongoing).
func (r *RentalRepository) CountActiveByCar(ctx context.Context, carID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&rentalModel{}).
		Where("car_id = ? AND status IN ?", carID, []string{
			string(domain.RentalPending),
			string(domain.RentalOngoing),
		}).
		Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

func (r *RentalRepository) DB() *gorm.DB { return r.db }
