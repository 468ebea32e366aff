package cars

import "github.com/shopspring/decimal"

type CarRequest struct {
	Brand       string          `json:"brand" binding:"required,max=50"`
	Model       string          `json:"model" binding:"required,max=50"`
	Year        int             `json:"year" binding:"required,gt=1900"`
	PricePerDay decimal.Decimal `json:"price_per_day" binding:"required"`
	Available   *bool           `json:"available"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
}

type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}
