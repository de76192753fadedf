// Package main provides the logtool CLI: plan trips and export daily log
// documents without running the HTTP server.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"driver-log-service/internal/adapters/cache"
	"driver-log-service/internal/adapters/distance"
	"driver-log-service/internal/adapters/rasterizer"
	"driver-log-service/internal/adapters/repositories"
	"driver-log-service/internal/export"
	"driver-log-service/internal/ports"
	"driver-log-service/internal/render"
	"driver-log-service/internal/services"
)

var (
	dbPath       string
	coordsPath   string
	templatePath string
	outputPath   string

	startLocation   string
	pickupLocation  string
	dropoffLocation string
	cycleHours      float64
	fuelIntervalMi  int
	serviceMinutes  int
	startDate       string

	carrierName string
	truckNumber string
)

func main() {
	// A missing .env file is fine; flags and the environment cover it.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "logtool",
		Short: "Plan trips and export driver daily log documents",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envOr("DB_PATH", "data/app.db"), "SQLite database path")

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a trip and store its daily logs",
		RunE:  runPlan,
	}
	planCmd.Flags().StringVar(&startLocation, "start", "", "Current location")
	planCmd.Flags().StringVar(&pickupLocation, "pickup", "", "Pickup location")
	planCmd.Flags().StringVar(&dropoffLocation, "dropoff", "", "Dropoff location")
	planCmd.Flags().Float64Var(&cycleHours, "cycle-hours", 0, "Hours already used in the current cycle")
	planCmd.Flags().IntVar(&fuelIntervalMi, "fuel-interval", 0, "Miles between fuel stops (default 1000)")
	planCmd.Flags().IntVar(&serviceMinutes, "service-minutes", 0, "Minutes for pickup and dropoff service (default 60)")
	planCmd.Flags().StringVar(&startDate, "date", "", "Trip start date (YYYY-MM-DD, default today)")
	for _, f := range []string{"start", "pickup", "dropoff"} {
		_ = planCmd.MarkFlagRequired(f)
	}

	exportCmd := &cobra.Command{
		Use:   "export [trip-id]",
		Short: "Render a trip's daily logs to a PDF",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&coordsPath, "coords", envOr("COORDS_PATH", "data/coordmap.json"), "Coordinate map path")
	exportCmd.Flags().StringVar(&templatePath, "template", envOr("TEMPLATE_PATH", "data/blank-log.png"), "Blank log sheet image path")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: trip-derived name)")
	exportCmd.Flags().StringVar(&carrierName, "carrier", envOr("CARRIER_NAME", ""), "Carrier name printed on each sheet")
	exportCmd.Flags().StringVar(&truckNumber, "truck", envOr("TRUCK_NUMBER", ""), "Truck number printed on each sheet")

	recapCmd := &cobra.Command{
		Use:   "recap [trip-id]",
		Short: "Write a trip's daily recap as an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecap,
	}
	recapCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: recap-<trip>.xlsx)")

	rootCmd.AddCommand(planCmd, exportCmd, recapCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	db, err := openDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	date := time.Now().UTC()
	if startDate != "" {
		date, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	var provider ports.DistanceProvider
	if key := os.Getenv("ORS_API_KEY"); key != "" {
		p, err := distance.NewORSRouteProvider(key,
			cache.NewSqliteDistanceCache(db), cache.NewSqliteGeocodeCache(db))
		if err != nil {
			return err
		}
		provider = p
	} else {
		fmt.Fprintln(os.Stderr, "ORS_API_KEY not set; the schedule will be estimated")
	}

	req := services.CreateTripRequest{
		StartLocation:   startLocation,
		PickupLocation:  pickupLocation,
		DropoffLocation: dropoffLocation,
		CycleHours:      cycleHours,
		FuelIntervalMi:  fuelIntervalMi,
		ServiceMinutes:  serviceMinutes,
		StartDate:       date,
	}

	trip, err := services.CreateTrip(context.Background(), req, repositories.NewSqliteTripRepository(db), provider)
	if err != nil {
		return fmt.Errorf("plan trip: %w", err)
	}

	fmt.Printf("trip %s planned\n", trip.TripID)
	if trip.Summary != nil {
		fmt.Printf("  distance: %.0f mi\n", trip.Summary.DistanceMiles)
		fmt.Printf("  fuel stops: %d\n", trip.Summary.FuelStops)
		fmt.Printf("  arrival: %s\n", trip.Summary.ArrivalAt.Format(time.RFC3339))
	}
	if trip.Estimated {
		fmt.Println("  schedule is estimated (no route data)")
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	tripID := args[0]

	db, err := openDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	trip, sheets, err := services.LoadTripSheets(context.Background(), tripID,
		repositories.NewSqliteTripRepository(db), carrierName, truckNumber)
	if err != nil {
		return err
	}

	coords, err := render.LoadCoordinateMap(coordsPath)
	if err != nil {
		return err
	}
	template, err := render.LoadTemplate(templatePath)
	if err != nil {
		return err
	}

	engine, err := rasterizer.NewChromeEngine()
	if err != nil {
		return err
	}
	defer engine.Close()

	compositor := export.NewCompositor(engine, render.NewGridRenderer(coords), template)
	pdf, err := compositor.Compose(context.Background(), "Driver Daily Logs "+trip.TripID, sheets)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}

	out := outputPath
	if out == "" {
		out = export.Filename(trip.TripID, time.Now())
	}
	if err := os.WriteFile(out, pdf, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Printf("wrote %s (%d pages)\n", out, len(sheets))
	return nil
}

func runRecap(cmd *cobra.Command, args []string) error {
	tripID := args[0]

	db, err := openDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	trip, sheets, err := services.LoadTripSheets(context.Background(), tripID,
		repositories.NewSqliteTripRepository(db), "", "")
	if err != nil {
		return err
	}

	out := outputPath
	if out == "" {
		out = fmt.Sprintf("recap-%s.xlsx", trip.TripID)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()

	if err := export.WriteRecap(sheets, f); err != nil {
		return fmt.Errorf("write recap: %w", err)
	}

	fmt.Printf("wrote %s (%d days)\n", out, len(sheets))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}
	if err := repositories.InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
