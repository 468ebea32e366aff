package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carrental/internal/database"
	"carrental/internal/middleware"
	"carrental/internal/modules/auth"
	"carrental/internal/modules/cars"
	"carrental/internal/modules/rentals"
	jwtsvc "carrental/internal/pkg/jwt"
	"carrental/internal/repository"
)

type testSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type apiResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *errorDetail           `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func setupSuite(t *testing.T) *testSuite {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, repository.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	rentalRepo := repository.NewRentalRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService))
	carHandler := cars.NewHandler(cars.NewService(carRepo, rentalRepo))
	rentalHandler := rentals.NewHandler(rentals.NewService(rentalRepo))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	public := r.Group("/")
	authHandler.RegisterPublicRoutes(public)

	protected := r.Group("/")
	protected.Use(middleware.Auth(jwtService))
	{
		authHandler.RegisterProtectedRoutes(protected)
		carHandler.RegisterRoutes(public, protected)
		rentalHandler.RegisterRoutes(protected)
	}

	return &testSuite{router: r, db: db}
}

func (s *testSuite) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *apiResponse {
	t.Helper()

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "status %d, body %s", w.Code, w.Body.String())
	return &resp
}

// register creates an account and returns nothing; token logs it in.
func (s *testSuite) register(t *testing.T, username, role string) {
	t.Helper()

	w := s.request(t, "POST", "/users/register", map[string]interface{}{
		"username": username,
		"email":    fmt.Sprintf("%s@test.com", username),
		"password": "Password123",
		"role":     role,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "registration of %s failed: %s", username, w.Body.String())
}

func (s *testSuite) token(t *testing.T, username string) string {
	t.Helper()

	w := s.request(t, "POST", "/users/token", map[string]interface{}{
		"username": username,
		"password": "Password123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "login of %s failed: %s", username, w.Body.String())

	resp := parseResponse(t, w)
	token, _ := resp.Data["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *testSuite) createCar(t *testing.T, adminToken string, pricePerDay float64) int64 {
	t.Helper()

	w := s.request(t, "POST", "/cars", map[string]interface{}{
		"brand":         "Toyota",
		"model":         "Camry",
		"year":          2022,
		"price_per_day": pricePerDay,
	}, adminToken)
	require.Equal(t, http.StatusCreated, w.Code, "car creation failed: %s", w.Body.String())

	resp := parseResponse(t, w)
	car := resp.Data["car"].(map[string]interface{})
	return int64(car["id"].(float64))
}

func TestRegistrationAndAuth(t *testing.T) {
	suite := setupSuite(t)

	t.Run("register customer", func(t *testing.T) {
		w := suite.request(t, "POST", "/users/register", map[string]interface{}{
			"username":  "alice",
			"email":     "alice@test.com",
			"password":  "Password123",
			"full_name": "Alice Smith",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.True(t, resp.Success)
		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "customer", user["role"])
		assert.NotContains(t, user, "password_hash")
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		w := suite.request(t, "POST", "/users/register", map[string]interface{}{
			"username": "alice",
			"email":    "other@test.com",
			"password": "Password123",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "USERNAME_TAKEN", resp.Error.Code)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		w := suite.request(t, "POST", "/users/register", map[string]interface{}{
			"username": "alice2",
			"email":    "alice@test.com",
			"password": "Password123",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "EMAIL_TAKEN", resp.Error.Code)
	})

	t.Run("token issued for valid credentials", func(t *testing.T) {
		w := suite.request(t, "POST", "/users/token", map[string]interface{}{
			"username": "alice",
			"password": "Password123",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.NotEmpty(t, resp.Data["access_token"])
		assert.Equal(t, "bearer", resp.Data["token_type"])
		assert.Equal(t, "customer", resp.Data["role"])
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w := suite.request(t, "POST", "/users/token", map[string]interface{}{
			"username": "alice",
			"password": "wrong-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", resp.Error.Code)
	})

	t.Run("token accepted as form body", func(t *testing.T) {
		form := bytes.NewBufferString("username=alice&password=Password123")
		req := httptest.NewRequest("POST", "/users/token", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "body %s", w.Body.String())
	})

	t.Run("GET /users/me", func(t *testing.T) {
		token := suite.token(t, "alice")

		w := suite.request(t, "GET", "/users/me", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "alice@test.com", user["email"])
	})

	t.Run("missing token rejected", func(t *testing.T) {
		w := suite.request(t, "GET", "/users/me", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := suite.request(t, "GET", "/users/me", nil, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProfileAccess(t *testing.T) {
	suite := setupSuite(t)
	suite.register(t, "admin1", "admin")
	suite.register(t, "bob", "")
	suite.register(t, "carol", "")

	bobToken := suite.token(t, "bob")
	adminToken := suite.token(t, "admin1")

	// ids are assigned in registration order
	t.Run("user reads own profile by id", func(t *testing.T) {
		w := suite.request(t, "GET", "/users/2", nil, bobToken)
		assert.Equal(t, http.StatusOK, w.Code, "body %s", w.Body.String())
	})

	t.Run("user cannot read another profile", func(t *testing.T) {
		w := suite.request(t, "GET", "/users/3", nil, bobToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin reads any profile", func(t *testing.T) {
		w := suite.request(t, "GET", "/users/3", nil, adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user updates own profile", func(t *testing.T) {
		w := suite.request(t, "PUT", "/users/2", map[string]interface{}{
			"full_name": "Bob Builder",
		}, bobToken)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "Bob Builder", user["full_name"])
	})

	t.Run("update to taken username rejected", func(t *testing.T) {
		w := suite.request(t, "PUT", "/users/2", map[string]interface{}{
			"username": "carol",
		}, bobToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "USERNAME_TAKEN", resp.Error.Code)
	})
}

func TestCarManagement(t *testing.T) {
	suite := setupSuite(t)
	suite.register(t, "admin1", "admin")
	suite.register(t, "dave", "")

	adminToken := suite.token(t, "admin1")
	customerToken := suite.token(t, "dave")

	carID := suite.createCar(t, adminToken, 55.5)

	t.Run("listing is public", func(t *testing.T) {
		w := suite.request(t, "GET", "/cars", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		carsList := resp.Data["cars"].([]interface{})
		require.Len(t, carsList, 1)

		car := carsList[0].(map[string]interface{})
		assert.Equal(t, "Toyota", car["brand"])
		assert.InDelta(t, 55.5, car["price_per_day"], 0.001, "price serializes as a number")
		assert.Equal(t, true, car["available"])
	})

	t.Run("customer cannot create cars", func(t *testing.T) {
		w := suite.request(t, "POST", "/cars", map[string]interface{}{
			"brand":         "Kia",
			"model":         "Rio",
			"year":          2021,
			"price_per_day": 25,
		}, customerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("non-positive price rejected", func(t *testing.T) {
		w := suite.request(t, "POST", "/cars", map[string]interface{}{
			"brand":         "Kia",
			"model":         "Rio",
			"year":          2021,
			"price_per_day": -10,
		}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update does not touch availability", func(t *testing.T) {
		w := suite.request(t, "PUT", fmt.Sprintf("/cars/%d", carID), map[string]interface{}{
			"brand":         "Toyota",
			"model":         "Camry Hybrid",
			"year":          2023,
			"price_per_day": 60,
			"available":     false,
		}, adminToken)
		assert.Equal(t, http.StatusOK, w.Code, "body %s", w.Body.String())

		list := suite.request(t, "GET", "/cars", nil, "")
		resp := parseResponse(t, list)
		car := resp.Data["cars"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "Camry Hybrid", car["model"])
		assert.Equal(t, true, car["available"], "availability is owned by the rental workflow")
	})

	t.Run("availability override endpoint flips the flag", func(t *testing.T) {
		w := suite.request(t, "PUT", fmt.Sprintf("/cars/%d/availability", carID), map[string]interface{}{
			"available": false,
		}, adminToken)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		car := resp.Data["car"].(map[string]interface{})
		assert.Equal(t, false, car["available"])

		// restore
		w = suite.request(t, "PUT", fmt.Sprintf("/cars/%d/availability", carID), map[string]interface{}{
			"available": true,
		}, adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("delete quiet car", func(t *testing.T) {
		w := suite.request(t, "DELETE", fmt.Sprintf("/cars/%d", carID), nil, adminToken)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = suite.request(t, "DELETE", fmt.Sprintf("/cars/%d", carID), nil, adminToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRentalLifecycle(t *testing.T) {
	suite := setupSuite(t)
	suite.register(t, "admin1", "admin")
	suite.register(t, "erin", "")
	suite.register(t, "frank", "")

	adminToken := suite.token(t, "admin1")
	erinToken := suite.token(t, "erin")
	frankToken := suite.token(t, "frank")

	carID := suite.createCar(t, adminToken, 50)

	start := time.Now().Add(24 * time.Hour).UTC()
	end := start.Add(48 * time.Hour)
	var rentalID int64

	t.Run("customer books an available car", func(t *testing.T) {
		w := suite.request(t, "POST", "/rentals", map[string]interface{}{
			"car_id":     carID,
			"start_date": start.Format(time.RFC3339),
			"end_date":   end.Format(time.RFC3339),
		}, erinToken)
		assert.Equal(t, http.StatusCreated, w.Code, "body %s", w.Body.String())

		resp := parseResponse(t, w)
		rental := resp.Data["rental"].(map[string]interface{})
		rentalID = int64(rental["id"].(float64))
		assert.Equal(t, "pending", rental["status"])
		assert.InDelta(t, 100, rental["total_price"], 0.001, "2 days at 50")
	})

	t.Run("booked car is held unavailable", func(t *testing.T) {
		w := suite.request(t, "GET", "/cars", nil, "")
		resp := parseResponse(t, w)
		car := resp.Data["cars"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, false, car["available"])
	})

	t.Run("second booking of the same car rejected", func(t *testing.T) {
		w := suite.request(t, "POST", "/rentals", map[string]interface{}{
			"car_id":     carID,
			"start_date": start.Format(time.RFC3339),
			"end_date":   end.Format(time.RFC3339),
		}, frankToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "CAR_UNAVAILABLE", resp.Error.Code)
	})

	t.Run("inverted date range rejected", func(t *testing.T) {
		car2 := suite.createCar(t, adminToken, 40)

		w := suite.request(t, "POST", "/rentals", map[string]interface{}{
			"car_id":     car2,
			"start_date": end.Format(time.RFC3339),
			"end_date":   start.Format(time.RFC3339),
		}, frankToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_DATE_RANGE", resp.Error.Code)
	})

	t.Run("customer lists own rentals", func(t *testing.T) {
		w := suite.request(t, "GET", "/rentals/me", nil, erinToken)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		list := resp.Data["rentals"].([]interface{})
		require.Len(t, list, 1)

		other := suite.request(t, "GET", "/rentals/me", nil, frankToken)
		otherResp := parseResponse(t, other)
		assert.Empty(t, otherResp.Data["rentals"])
	})

	t.Run("admin activates the rental", func(t *testing.T) {
		w := suite.request(t, "PATCH", fmt.Sprintf("/rentals/%d/status", rentalID), map[string]interface{}{
			"status": "ongoing",
		}, adminToken)
		assert.Equal(t, http.StatusOK, w.Code, "body %s", w.Body.String())

		resp := parseResponse(t, w)
		rental := resp.Data["rental"].(map[string]interface{})
		assert.Equal(t, "ongoing", rental["status"])
		assert.InDelta(t, 100, rental["total_price"], 0.001, "rate unchanged, duration preserved")
	})

	t.Run("ongoing rental cannot be cancelled", func(t *testing.T) {
		w := suite.request(t, "PATCH", fmt.Sprintf("/rentals/%d/status", rentalID), map[string]interface{}{
			"status": "cancelled",
		}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		w := suite.request(t, "PATCH", fmt.Sprintf("/rentals/%d/status", rentalID), map[string]interface{}{
			"status": "returned",
		}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := parseResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_STATUS", resp.Error.Code)
	})

	t.Run("finishing releases the car", func(t *testing.T) {
		w := suite.request(t, "PATCH", fmt.Sprintf("/rentals/%d/status", rentalID), map[string]interface{}{
			"status": "finished",
		}, adminToken)
		assert.Equal(t, http.StatusOK, w.Code)

		list := suite.request(t, "GET", "/cars", nil, "")
		resp := parseResponse(t, list)
		for _, raw := range resp.Data["cars"].([]interface{}) {
			car := raw.(map[string]interface{})
			if int64(car["id"].(float64)) == carID {
				assert.Equal(t, true, car["available"])
			}
		}
	})

	t.Run("finished rental is terminal", func(t *testing.T) {
		w := suite.request(t, "PATCH", fmt.Sprintf("/rentals/%d/status", rentalID), map[string]interface{}{
			"status": "ongoing",
		}, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("car with active rental cannot be deleted", func(t *testing.T) {
		w := suite.request(t, "POST", "/rentals", map[string]interface{}{
			"car_id":     carID,
			"start_date": start.Format(time.RFC3339),
			"end_date":   end.Format(time.RFC3339),
		}, frankToken)
		require.Equal(t, http.StatusCreated, w.Code)

		del := suite.request(t, "DELETE", fmt.Sprintf("/cars/%d", carID), nil, adminToken)
		assert.Equal(t, http.StatusBadRequest, del.Code)

		resp := parseResponse(t, del)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "CAR_IN_USE", resp.Error.Code)
	})
}

func TestRoleEnforcement(t *testing.T) {
	suite := setupSuite(t)
	suite.register(t, "admin1", "admin")
	suite.register(t, "gina", "")

	adminToken := suite.token(t, "admin1")
	customerToken := suite.token(t, "gina")

	carID := suite.createCar(t, adminToken, 45)

	start := time.Now().UTC()
	end := start.Add(24 * time.Hour)

	t.Run("admin cannot book cars", func(t *testing.T) {
		w := suite.request(t, "POST", "/rentals", map[string]interface{}{
			"car_id":     carID,
			"start_date": start.Format(time.RFC3339),
			"end_date":   end.Format(time.RFC3339),
		}, adminToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("customer cannot list all rentals", func(t *testing.T) {
		w := suite.request(t, "GET", "/rentals", nil, customerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("customer cannot change rental status", func(t *testing.T) {
		book := suite.request(t, "POST", "/rentals", map[string]interface{}{
			"car_id":     carID,
			"start_date": start.Format(time.RFC3339),
			"end_date":   end.Format(time.RFC3339),
		}, customerToken)
		require.Equal(t, http.StatusCreated, book.Code)

		resp := parseResponse(t, book)
		rental := resp.Data["rental"].(map[string]interface{})
		rentalID := int64(rental["id"].(float64))

		w := suite.request(t, "PATCH", fmt.Sprintf("/rentals/%d/status", rentalID), map[string]interface{}{
			"status": "ongoing",
		}, customerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin lists all rentals", func(t *testing.T) {
		w := suite.request(t, "GET", "/rentals", nil, adminToken)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseResponse(t, w)
		assert.NotEmpty(t, resp.Data["rentals"])
	})
}
