//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/adeolu/ridebid/internal/config"
	"github.com/adeolu/ridebid/internal/database"
	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/repository"
)

// Lagos coordinates
const (
	baseLat = 6.5244
	baseLng = 3.3792
)

var (
	firstNames = []string{"Adeolu", "Chiamaka", "Emeka", "Funmi", "Ibrahim", "Kemi", "Tunde", "Ngozi", "Segun", "Amina",
		"Bayo", "Chinedu", "Yemi", "Zainab", "Femi", "Halima", "Obinna", "Sade", "Uche", "Bisi"}
	lastNames = []string{"Adebayo", "Okafor", "Balogun", "Eze", "Mohammed", "Olawale", "Nwosu", "Abubakar", "Ojo", "Ibe"}
	carMakes  = []string{"Toyota", "Honda", "Kia", "Hyundai", "Lexus"}
	carModels = []string{"Corolla", "Accord", "Rio", "Elantra", "Camry"}
	carColors = []string{"Black", "Silver", "White", "Blue", "Red"}
)

func main() {
	rand.Seed(time.Now().UnixNano())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBMaxIdleConnections)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	userRepo := repository.NewUserRepository(db.DB)
	fareRepo := repository.NewFareConfigRepository(db.DB)

	// Fare config
	if err := fareRepo.Seed(ctx, cfg.DefaultBaseFare, cfg.DefaultRatePerKm, cfg.DefaultRatePerMinute); err != nil {
		log.Fatalf("Failed to seed fare config: %v", err)
	}
	log.Println("Fare config seeded")

	// Passengers
	log.Println("Creating 20 passengers...")
	for i := 0; i < 20; i++ {
		name := randomName()
		user := &models.User{
			ExternalID: fmt.Sprintf("seed-passenger-%d", i),
			Name:       name,
			Email:      fmt.Sprintf("passenger%d@ridebid.app", i),
			Role:       models.RolePassenger,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Printf("failed to create passenger %d: %v", i, err)
		}
	}

	// Verified drivers with cars
	log.Println("Creating 10 verified drivers...")
	for i := 0; i < 10; i++ {
		name := randomName()
		make := carMakes[rand.Intn(len(carMakes))]
		model := carModels[rand.Intn(len(carModels))]
		color := carColors[rand.Intn(len(carColors))]
		plate := fmt.Sprintf("LAG-%03d-%c%c", rand.Intn(1000), 'A'+rand.Intn(26), 'A'+rand.Intn(26))

		user := &models.User{
			ExternalID:    fmt.Sprintf("seed-driver-%d", i),
			Name:          name,
			Email:         fmt.Sprintf("driver%d@ridebid.app", i),
			Role:          models.RoleDriver,
			IsVerified:    true,
			CarMake:       &make,
			CarModel:      &model,
			CarColor:      &color,
			LicensePlate:  &plate,
			RatingAverage: 3.5 + rand.Float64()*1.5,
			RatingCount:   rand.Intn(40),
			IsAvailable:   true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Printf("failed to create driver %d: %v", i, err)
		}
	}

	log.Println("Seed complete")
}

func randomName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}
