package commands

import (
	"fmt"
	"os"

	"task-reminder-bot/internal/database"
)

// databaseURL reads the store location from the environment. The admin
// commands only touch the database, so the full bot configuration with its
// required Telegram token is not loaded here.
func databaseURL() (string, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return "", fmt.Errorf("DATABASE_URL is not set")
	}
	return url, nil
}

func connect() (*database.DB, error) {
	url, err := databaseURL()
	if err != nil {
		return nil, err
	}

	db, err := database.New(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func closeDB(db *database.DB) {
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
	}
}
