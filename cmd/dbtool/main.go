package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"driver-log-service/internal/adapters/repositories"
	"driver-log-service/internal/config"
	"driver-log-service/internal/platform/db"
)

// dbtool maintains the shared Postgres routing cache used by fleet
// deployments with more than one service instance.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/distances.json")
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

}

func initAndSeed(db *sql.DB, seedPath string) error {
	log.Println("Initializing cache schema...")
	if err := repositories.InitCacheSchema(db); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("No seed file at %s; skipping seeding.", seedPath)
		return nil
	}

	log.Println("Seeding distance cache...")
	if err := repositories.SeedCacheDistances(db, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
