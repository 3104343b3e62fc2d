package main

import (
	"context"
	"fmt"
	"fuel-route-service/internal/adapters/catalog"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/logger"
	"fuel-route-service/internal/services"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

// dbtool prepares the database and imports the OPIS station price export.
func main() {
	fs := pflag.NewFlagSet("dbtool", pflag.ExitOnError)
	csvPath := fs.String("csv", "fuel-prices-for-be-assessment.csv", "station price CSV to import")
	refresh := fs.Bool("refresh-prices", false, "update prices of stations that are already stored")
	initOnly := fs.Bool("init-only", false, "create the schema and exit")
	batch := fs.Int("batch", 100, "stations saved per transaction")
	fs.String("db-driver", "", "database driver: sqlite or postgres (overrides DB_DRIVER)")
	fs.String("db-path", "", "SQLite file (overrides DB_PATH)")
	fs.String("database-url", "", "Postgres URL (overrides DATABASE_URL)")
	fs.Float64("geocode-rps", 0, "geocoding requests per second (overrides GEOCODE_RPS)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		logger.L().Error("load config", "err", err)
		os.Exit(1)
	}
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *csvPath, *refresh, *initOnly, *batch); err != nil {
		log.Error("dbtool failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, csvPath string, refresh, initOnly bool, batch int) error {
	log := logger.L()

	dialect, err := db.ParseDialect(cfg.DBDriver)
	if err != nil {
		return err
	}

	conn, err := db.Connect(dialect, cfg.DBPath, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Info("initializing database schema", "db", string(dialect))
	if err := repositories.InitSchema(conn, dialect); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Info("schema ready")

	if initOnly {
		return nil
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	parsed, err := catalog.Parse(f)
	if err != nil {
		return err
	}
	for _, re := range parsed.Rejected {
		log.Warn("skipping catalog row", "file", csvPath, "line", re.Line, "err", re.Err)
	}

	stations := make([]domain.Station, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		stations = append(stations, row.Station())
	}
	log.Info("catalog parsed", "rows", len(parsed.Rows), "rejected", len(parsed.Rejected))

	geocoder := routing.NewNominatimGeocoder(routing.NominatimConfig{
		BaseURL:           cfg.NominatimURL,
		UserAgent:         cfg.NominatimUserAgent,
		RequestsPerSecond: cfg.GeocodeRPS,
	})
	repo := repositories.NewSQLStationRepository(conn, dialect)

	report, err := services.ImportStations(ctx, stations, geocoder, repo, services.ImportOptions{
		RefreshPrices: refresh,
		BatchSize:     batch,
	})
	if report != nil {
		log.Info("import finished",
			"rows", report.Rows,
			"duplicates", report.Duplicates,
			"existing", report.Existing,
			"prices_updated", report.Updated,
			"inserted", report.Inserted,
			"city_level", report.CityLevel,
			"failed", report.Failed,
		)
	}
	return err
}
