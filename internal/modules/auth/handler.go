package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"carrental/internal/domain"
	"carrental/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler manages all HTTP interactions for accounts
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/token", h.Token)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	users := protected.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.GET("/:id", h.GetByID)
		users.PUT("/:id", h.Update)
	}
}

// Register creates a new account.
// @Summary		Register an account
// @Description	Creates a user account. Role defaults to customer; username, email and phone must be unique.
// @Tags		Users
// @Param		request	body	RegisterRequest	true	"Registration data"
// @Success		200	{object}		map[string]interface{} "Created account"
// @Failure		400	{object}		map[string]interface{} "Validation error or duplicate unique field"
// @Router		/users/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			response.Error(c, http.StatusBadRequest, "USERNAME_TAKEN", "Username is already registered")
		case errors.Is(err, ErrEmailTaken):
			response.Error(c, http.StatusBadRequest, "EMAIL_TAKEN", "Email is already registered")
		case errors.Is(err, ErrPhoneTaken):
			response.Error(c, http.StatusBadRequest, "PHONE_TAKEN", "Phone number is already registered")
		case errors.Is(err, ErrDuplicate):
			response.Error(c, http.StatusBadRequest, "DUPLICATE_FIELD", "Username, email or phone is already registered")
		case errors.Is(err, ErrInvalidRole):
			response.Error(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be admin or customer")
		default:
			response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register user")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Token issues an access token for valid credentials.
// @Summary		Issue an access token
// @Description	Authenticates username+password (form or JSON body) and returns a bearer token with role and user id.
// @Tags		Users
// @Success		200	{object}		map[string]interface{} "Bearer token"
// @Failure		401	{object}		map[string]interface{} "Wrong username or password"
// @Router		/users/token [POST]
func (h *Handler) Token(c *gin.Context) {
	var req TokenRequest
	var err error
	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBind(&req)
	}
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Username and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Username or password is incorrect")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"access_token": result.AccessToken,
		"token_type":   "bearer",
		"role":         result.User.Role,
		"user_id":      result.User.ID,
	})
}

// GetMe returns the profile of the authenticated user.
func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// GetByID returns a user profile; only the user themselves or an admin may
// look it up.
func (h *Handler) GetByID(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	if !h.selfOrAdmin(c, targetID) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to view this profile")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// Update applies a partial profile update; only the user themselves or an
// admin may change it.
func (h *Handler) Update(c *gin.Context) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	if !h.selfOrAdmin(c, targetID) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to update this profile")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), targetID, req)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, ErrUsernameTaken):
			response.Error(c, http.StatusBadRequest, "USERNAME_TAKEN", "Username is already in use")
		case errors.Is(err, ErrEmailTaken):
			response.Error(c, http.StatusBadRequest, "EMAIL_TAKEN", "Email is already in use")
		case errors.Is(err, ErrPhoneTaken):
			response.Error(c, http.StatusBadRequest, "PHONE_TAKEN", "Phone number is already in use")
		case errors.Is(err, ErrDuplicate):
			response.Error(c, http.StatusBadRequest, "DUPLICATE_FIELD", "Username, email or phone is already in use")
		default:
			response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Could not update profile")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) selfOrAdmin(c *gin.Context, targetID int64) bool {
	if c.GetString("role") == string(domain.RoleAdmin) {
		return true
	}
	return c.GetInt64("user_id") == targetID
}
