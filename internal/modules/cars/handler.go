package cars

import (
	"errors"
	"net/http"
	"strconv"

	"carrental/internal/middleware"
	"carrental/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public listing plus the admin-only inventory
// operations.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/cars", h.List)

	admin := protected.Group("/cars")
	admin.Use(middleware.AdminOnly())
	{
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.PUT("/:id/availability", h.OverrideAvailability)
	}
}

// List handles GET /cars
func (h *Handler) List(c *gin.Context) {
	carsList, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list cars")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cars": carsList})
}

// Create handles POST /cars (admin)
func (h *Handler) Create(c *gin.Context) {
	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	car, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "price_per_day must be positive")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create car")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"car": car})
}

// Update handles PUT /cars/:id (admin, full replace)
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid car ID")
		return
	}

	var req CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	car, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Car not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "price_per_day must be positive")
		default:
			response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update car")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"car": car})
}

// Delete handles DELETE /cars/:id (admin)
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid car ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Car not found")
		case errors.Is(err, ErrHasActiveRent):
			response.Error(c, http.StatusBadRequest, "CAR_IN_USE", "Car has active rentals and cannot be deleted")
		default:
			response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete car")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// OverrideAvailability handles PUT /cars/:id/availability (admin). This is
// the explicit escape hatch around the rental ledger.
func (h *Handler) OverrideAvailability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid car ID")
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "available is required")
		return
	}

	car, err := h.service.OverrideAvailability(c.Request.Context(), id, *req.Available)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Car not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update availability")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"car": car})
}
