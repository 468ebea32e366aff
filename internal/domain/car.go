package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as plain JSON numbers, same shape the old
	// float-based API produced.
	decimal.MarshalJSONWithoutQuotes = true
}

type Car struct {
	ID          int64           `json:"id"`
	Brand       string          `json:"brand" validate:"required,max=50"`
	Model       string          `json:"model" validate:"required,max=50"`
	Year        int             `json:"year" validate:"required"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	Available   bool            `json:"available"`
	ImageURL    string          `json:"image_url,omitempty"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
