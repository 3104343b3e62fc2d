package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/platform/db"
	"strings"
)

// Initialize the database schema for the given dialect.
func InitSchema(conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements(dialect) {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

func schemaStatements(dialect db.Dialect) []string {
	// Only the floating point type differs between the two engines.
	floatType := "REAL"
	if dialect == db.Postgres {
		floatType = "DOUBLE PRECISION"
	}

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS fuel_stations (
		opis_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		retail_price {{REAL}} NOT NULL,
		lon {{REAL}},
		lat {{REAL}}
	);
	`

	createStationsLocationIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_fuel_stations_lat_lon
	ON fuel_stations(lat, lon);
	`

	createStationsStateIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_fuel_stations_state
	ON fuel_stations(state);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        place TEXT PRIMARY KEY,
        lon {{REAL}} NOT NULL,
        lat {{REAL}} NOT NULL
    );
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        origin_key TEXT NOT NULL,
        destination_key TEXT NOT NULL,
        geometry TEXT NOT NULL,
        distance_meters {{REAL}} NOT NULL,
        duration_seconds {{REAL}} NOT NULL,
        PRIMARY KEY (origin_key, destination_key)
    );
	`

	statements := []string{
		createStationsQuery,
		createStationsLocationIndexQuery,
		createStationsStateIndexQuery,
		createGeocodeCacheQuery,
		createRouteCacheQuery,
	}

	for i, s := range statements {
		statements[i] = strings.ReplaceAll(s, "{{REAL}}", floatType)
	}
	return statements
}
