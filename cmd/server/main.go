package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"driver-log-service/internal/adapters/cache"
	"driver-log-service/internal/adapters/distance"
	"driver-log-service/internal/adapters/formstore"
	"driver-log-service/internal/adapters/rasterizer"
	"driver-log-service/internal/adapters/repositories"
	"driver-log-service/internal/api"
	"driver-log-service/internal/export"
	"driver-log-service/internal/platform/db"
	"driver-log-service/internal/ports"
	"driver-log-service/internal/render"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis, ORS, headless Chrome) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	seedPath := getEnv("SEED_PATH", "data/seeds/distances.json")
	coordsPath := getEnv("COORDS_PATH", "data/coordmap.json")
	templatePath := getEnv("TEMPLATE_PATH", "data/blank-log.png")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	carrierName := getEnv("CARRIER_NAME", "")
	truckNumber := getEnv("TRUCK_NUMBER", "")
	port := getEnv("PORT", "8080")

	sqlite, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlite.Close()

	// Initialize schema and seed cached distances on startup for local runs.
	if err := initAndSeed(sqlite, seedPath); err != nil {
		log.Fatal(err)
	}

	// Keep the interface nil when no provider is configured so the planner
	// takes its fallback path.
	var provider ports.DistanceProvider
	if p := newProvider(sqlite); p != nil {
		provider = p
	}

	coords, err := render.LoadCoordinateMap(coordsPath)
	if err != nil {
		log.Fatal(err)
	}
	template, err := render.LoadTemplate(templatePath)
	if err != nil {
		log.Fatal(err)
	}

	engine, err := rasterizer.NewChromeEngine()
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	compositor := export.NewCompositor(engine, render.NewGridRenderer(coords), template)

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()

	router := api.NewRouter(api.RouterConfig{
		Repo:        repositories.NewSqliteTripRepository(sqlite),
		Provider:    provider,
		Compositor:  compositor,
		FormStore:   formstore.NewRedisFormStore(redisClient),
		CarrierName: carrierName,
		TruckNumber: truckNumber,
	})

	// Timeouts are tuned for multi-page PDF rendering (headless browser latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// newProvider builds the ORS provider when an API key is configured. With
// no key the planner falls back to estimated schedules, so local runs work
// fully offline.
func newProvider(sqlite *sql.DB) *distance.ORSRouteProvider {
	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Println("ORS_API_KEY not set; trips will use estimated schedules")
		return nil
	}

	var distanceCache distance.DistanceCache
	var geocodeCache distance.GeocodeCache

	// A shared Postgres cache serves fleets with several service instances;
	// the local SQLite cache covers single-node runs.
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		distanceCache = cache.NewSQLDistanceCache(pg)
		geocodeCache = cache.NewSQLGeocodeCache(pg)
	} else {
		distanceCache = cache.NewSqliteDistanceCache(sqlite)
		geocodeCache = cache.NewSqliteGeocodeCache(sqlite)
	}

	provider, err := distance.NewORSRouteProvider(orsKey, distanceCache, geocodeCache)
	if err != nil {
		log.Fatal(err)
	}
	return provider
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		return nil
	}
	if err := repositories.SeedDistancesFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
