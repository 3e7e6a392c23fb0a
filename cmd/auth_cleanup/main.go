package main

import (
	"log"
	"os"
	"time"

	"webapp/internal/database"
)

// Clears verification tokens whose expiry has passed. Accounts stay
// unverified; re-registration is not possible, so operators re-issue
// tokens manually when needed.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	res := db.Exec(
		`UPDATE users SET verification_token = NULL, token_expiry = NULL WHERE token_expiry < ? AND verified = ?`,
		time.Now().UTC(), false,
	)
	if res.Error != nil {
		log.Fatalf("cleanup verification tokens failed: %v", res.Error)
	}

	log.Printf("auth cleanup completed: expired_tokens=%d", res.RowsAffected)
}
