package main

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"webapp/internal/database"
	"webapp/internal/domain"

	"github.com/google/uuid"
)

// Seeds a local database with a couple of test accounts for manual API
// poking. Never run against production.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "webapp.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM images")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")
	now := time.Now().UTC()

	verifiedHash, _ := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.DefaultCost)
	verified := domain.User{
		ID:             uuid.NewString(),
		Email:          "jane.doe@example.com",
		FirstName:      "Jane",
		LastName:       "Doe",
		PasswordHash:   string(verifiedHash),
		Verified:       true,
		AccountCreated: now,
		AccountUpdated: now,
	}
	if err := db.Create(&verified).Error; err != nil {
		log.Fatal("seed verified user failed:", err)
	}

	token := uuid.NewString()
	expiry := now.Add(15 * time.Minute)
	unverifiedHash, _ := bcrypt.GenerateFromPassword([]byte("pass1234"), bcrypt.DefaultCost)
	unverified := domain.User{
		ID:                uuid.NewString(),
		Email:             "john.roe@example.com",
		FirstName:         "John",
		LastName:          "Roe",
		PasswordHash:      string(unverifiedHash),
		Verified:          false,
		VerificationToken: &token,
		TokenExpiry:       &expiry,
		AccountCreated:    now,
		AccountUpdated:    now,
	}
	if err := db.Create(&unverified).Error; err != nil {
		log.Fatal("seed unverified user failed:", err)
	}

	log.Printf("Seed complete: jane.doe@example.com (verified), john.roe@example.com (token=%s)", token)
}
