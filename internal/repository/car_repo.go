package repository

import (
	"context"
	"time"

	"carrental/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CarRepository struct {
	db *gorm.DB
}

func NewCarRepository(db *gorm.DB) *CarRepository {
	return &CarRepository{db: db}
}

type carModel struct {
	ID          int64           `gorm:"column:id;primaryKey"`
	Brand       string          `gorm:"column:brand"`
	Model       string          `gorm:"column:model"`
	Year        int             `gorm:"column:year"`
	PricePerDay decimal.Decimal `gorm:"column:price_per_day;type:decimal(10,2)"`
	Available   bool            `gorm:"column:available"`
	ImageURL    *string         `gorm:"column:image_url"`
	Description *string         `gorm:"column:description"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (carModel) TableName() string { return "cars" }

func toDomainCar(m carModel) *domain.Car {
	var imageURL, description string
	if m.ImageURL != nil {
		imageURL = *m.ImageURL
	}
	if m.Description != nil {
		description = *m.Description
	}

	return &domain.Car{
		ID:          m.ID,
		Brand:       m.Brand,
		Model:       m.Model,
		Year:        m.Year,
		PricePerDay: m.PricePerDay,
		Available:   m.Available,
		ImageURL:    imageURL,
		Description: description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toCarModel(c *domain.Car) carModel {
	var imageURL, description *string
	if c.ImageURL != "" {
		v := c.ImageURL
		imageURL = &v
	}
	if c.Description != "" {
		v := c.Description
		description = &v
	}

	return carModel{
		ID:          c.ID,
		Brand:       c.Brand,
		Model:       c.Model,
		Year:        c.Year,
		PricePerDay: c.PricePerDay,
		Available:   c.Available,
		ImageURL:    imageURL,
		Description: description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (r *CarRepository) Create(ctx context.Context, c *domain.Car) error {
	m := toCarModel(c)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*c = *toDomainCar(m)
	return nil
}

func (r *CarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	var m carModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainCar(m), nil
}

func (r *CarRepository) GetAll(ctx context.Context) ([]domain.Car, error) {
	var ms []carModel
	tx := r.db.WithContext(ctx).Order("id").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Car, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainCar(m))
	}
	return out, nil
}

// Update replaces every descriptive column of the car. The availability flag
// is deliberately not written here; it belongs to the rental workflow and the
// explicit SetAvailability override.
func (r *CarRepository) Update(ctx context.Context, c *domain.Car) error {
	updates := map[string]any{
		"brand":         c.Brand,
		"model":         c.Model,
		"year":          c.Year,
		"price_per_day": c.PricePerDay,
		"image_url":     nullable(c.ImageURL),
		"description":   nullable(c.Description),
	}

	tx := r.db.WithContext(ctx).Model(&carModel{}).Where("id = ?", c.ID).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	fresh, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *fresh
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&carModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetAvailability is the administrative override: it flips the flag without
// consulting the rental ledger.
func (r *CarRepository) SetAvailability(ctx context.Context, id int64, available bool) (*domain.Car, error) {
	tx := r.db.WithContext(ctx).Model(&carModel{}).Where("id = ?", id).Update("available", available)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *CarRepository) DB() *gorm.DB { return r.db }

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
