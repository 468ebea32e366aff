package rentals

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The availability ledger ties cars.available to the existence of an active
// rental. Its mutators are unexported: nothing outside the rental workflow
// can flip the flag through here. All three operations run on the enclosing
// transaction handle, so a booking and its availability write commit or roll
// back together.

// carRow is the projection of the cars table the ledger works with.
type carRow struct {
	ID          int64           `gorm:"column:id;primaryKey"`
	PricePerDay decimal.Decimal `gorm:"column:price_per_day"`
	Available   bool            `gorm:"column:available"`
}

func (carRow) TableName() string { return "cars" }

// lockCar reads the car row under a row lock (SELECT ... FOR UPDATE on
// Postgres). Two concurrent bookings of the same car serialize here; the
// second one sees the flag the first one committed.
func lockCar(tx *gorm.DB, carID int64) (*carRow, error) {
	var car carRow
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&car, carID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return &car, nil
}

// markCarUnavailable flags the car as held by an active rental. Idempotent.
func markCarUnavailable(tx *gorm.DB, carID int64) error {
	return tx.Model(&carRow{}).Where("id = ?", carID).Update("available", false).Error
}

// markCarAvailable releases the car back to the fleet. Idempotent.
func markCarAvailable(tx *gorm.DB, carID int64) error {
	return tx.Model(&carRow{}).Where("id = ?", carID).Update("available", true).Error
}
