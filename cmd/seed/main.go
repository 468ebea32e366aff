package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"carrental/internal/database"
	"carrental/internal/domain"
	"carrental/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "rental.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migration failed:", err)
	}

	// Cleanup old data, rentals first to satisfy foreign keys
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM rentals")
	db.Exec("DELETE FROM cars")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	cars := repository.NewCarRepository(db)

	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Username:     "admin",
		Email:        "admin@carrental.example",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		FullName:     "Fleet Administrator",
	}
	if err := users.Create(ctx, &admin); err != nil {
		log.Fatal("seeding admin failed:", err)
	}
	log.Println("Admin created: admin / admin123")

	customerNames := []string{"alice", "bob", "carol"}
	for i, name := range customerNames {
		hash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
		customer := domain.User{
			Username:     name,
			Email:        fmt.Sprintf("%s@example.com", name),
			PasswordHash: string(hash),
			Role:         domain.RoleCustomer,
			FullName:     fmt.Sprintf("Customer %d", i+1),
			PhoneNumber:  fmt.Sprintf("+7 777 123 45%02d", i+10),
		}
		if err := users.Create(ctx, &customer); err != nil {
			log.Fatal("seeding customer failed:", err)
		}
	}
	log.Println("Customers created: alice, bob, carol / customer123")

	log.Println("Creating fleet...")

	fleet := []domain.Car{
		{Brand: "Toyota", Model: "Camry", Year: 2022, PricePerDay: dec("55.00"), Available: true, Description: "Comfortable mid-size sedan"},
		{Brand: "Toyota", Model: "Land Cruiser", Year: 2021, PricePerDay: dec("120.00"), Available: true, Description: "Full-size SUV"},
		{Brand: "Hyundai", Model: "Accent", Year: 2023, PricePerDay: dec("35.00"), Available: true, Description: "Economy city car"},
		{Brand: "Kia", Model: "Sportage", Year: 2022, PricePerDay: dec("70.00"), Available: true, Description: "Compact crossover"},
		{Brand: "BMW", Model: "530i", Year: 2021, PricePerDay: dec("150.00"), Available: true, Description: "Business sedan"},
		{Brand: "Volkswagen", Model: "Polo", Year: 2020, PricePerDay: dec("30.00"), Available: false, Description: "In service until further notice"},
	}
	for i := range fleet {
		if err := cars.Create(ctx, &fleet[i]); err != nil {
			log.Fatal("seeding car failed:", err)
		}
	}

	log.Printf("Done: %d users, %d cars", len(customerNames)+1, len(fleet))
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Fatal("bad seed price:", err)
	}
	return d
}
