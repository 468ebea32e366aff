package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"carrental/internal/config"
	"carrental/internal/database"
	"carrental/internal/middleware"
	"carrental/internal/modules/auth"
	"carrental/internal/modules/cars"
	"carrental/internal/modules/rentals"
	jwtsvc "carrental/internal/pkg/jwt"
	"carrental/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	carRepo := repository.NewCarRepository(db)
	rentalRepo := repository.NewRentalRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	carService := cars.NewService(carRepo, rentalRepo)
	carHandler := cars.NewHandler(carService)

	rentalService := rentals.NewService(rentalRepo)
	rentalHandler := rentals.NewHandler(rentalService)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	authHandler.RegisterPublicRoutes(public)

	protected := r.Group("/")
	protected.Use(middleware.Auth(j))
	{
		authHandler.RegisterProtectedRoutes(protected)
		carHandler.RegisterRoutes(public, protected)
		rentalHandler.RegisterRoutes(protected)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
