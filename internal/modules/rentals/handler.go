package rentals

import (
	"errors"
	"net/http"
	"strconv"

	"carrental/internal/domain"
	"carrental/internal/middleware"
	"carrental/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	r := protected.Group("/rentals")
	{
		r.POST("", middleware.CustomerOnly(), h.Create)
		r.GET("/me", h.MyRentals)
		r.GET("", middleware.AdminOnly(), h.ListAll)
		r.PATCH("/:id/status", middleware.AdminOnly(), h.UpdateStatus)
	}
}

// Create books a car for the authenticated customer.
// @Summary		Book a rental
// @Description	Creates a pending rental for an available car. The car is held unavailable until the rental finishes or is cancelled.
// @Tags		Rentals
// @Security	BearerAuth
// @Param		request	body	CreateRentalRequest	true	"car_id plus requested date window"
// @Success		201	{object}		map[string]interface{} "Created rental with computed total price"
// @Failure		400	{object}		map[string]interface{} "Car unavailable or invalid date range"
// @Failure		404	{object}		map[string]interface{} "Car not found"
// @Router		/rentals [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rental, err := h.service.Book(
		c.Request.Context(),
		domain.UserRole(c.GetString("role")),
		c.GetInt64("user_id"),
		req,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only customers can book cars")
		case errors.Is(err, ErrCarNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Car not found")
		case errors.Is(err, ErrCarUnavailable):
			response.Error(c, http.StatusBadRequest, "CAR_UNAVAILABLE", "Car is not available")
		case errors.Is(err, ErrInvalidDateRange):
			response.Error(c, http.StatusBadRequest, "INVALID_DATE_RANGE", "End date must not be before start date")
		default:
			response.Error(c, http.StatusInternalServerError, "BOOKING_FAILED", "Failed to create rental")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"rental": rental})
}

// MyRentals handles GET /rentals/me
func (h *Handler) MyRentals(c *gin.Context) {
	list, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list rentals")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rentals": list})
}

// ListAll handles GET /rentals (admin)
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list rentals")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rentals": list})
}

// UpdateStatus advances a rental through the lifecycle.
// @Summary		Advance rental status
// @Description	pending->ongoing re-anchors the window to start now and reprices it; pending->cancelled and ongoing->finished release the car. Other transitions are rejected.
// @Tags		Rentals
// @Security	BearerAuth
// @Param		request	body	UpdateStatusRequest	true	"target status"
// @Success		200	{object}		map[string]interface{} "Updated rental"
// @Failure		400	{object}		map[string]interface{} "Illegal transition or unknown status"
// @Failure		404	{object}		map[string]interface{} "Rental or car not found"
// @Router		/rentals/{id}/status [PATCH]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid rental ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status is required")
		return
	}

	rental, err := h.service.AdvanceStatus(
		c.Request.Context(),
		domain.UserRole(c.GetString("role")),
		id,
		domain.RentalStatus(req.Status),
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin only")
		case errors.Is(err, ErrRentalNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Rental not found")
		case errors.Is(err, ErrCarNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Car not found")
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown rental status")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", "Status transition is not allowed")
		default:
			response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update rental status")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rental": rental})
}
