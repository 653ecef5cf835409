package main

import (
	"context"
	"database/sql"
	"fmt"
	"fuel-trip-service/internal/adapters/pricing"
	"fuel-trip-service/internal/adapters/repositories"
	"fuel-trip-service/internal/config"
	"fuel-trip-service/internal/platform/db"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// dbtool creates the Postgres schema and loads the fuel price CSV into fuel_prices.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	csvPath := config.Get("PRICE_CSV_PATH", "fuel.csv")
	if err := initAndSeed(ctx, conn, csvPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, csvPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	entries, err := pricing.NewCSVSource(csvPath).LoadPrices(ctx)
	if err != nil {
		return fmt.Errorf("reading prices failed: %w", err)
	}

	log.Printf("Seeding %d fuel prices...", len(entries))
	if err := repositories.SeedPrices(ctx, conn, entries); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
