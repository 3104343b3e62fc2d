package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"strings"

	"github.com/paulmach/orb"
)

const stationColumns = `opis_id, name, address, city, state, retail_price, lon, lat`

// SQL-backed implementation of the StationRepository port. Queries are
// written with '?' placeholders and rebound for Postgres.
type SQLStationRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLStationRepository(conn *sql.DB, dialect db.Dialect) *SQLStationRepository {
	return &SQLStationRepository{DB: conn, Dialect: dialect}
}

func (s *SQLStationRepository) q(query string) string { return db.Rebind(s.Dialect, query) }

// Return located stations whose coordinates fall inside bound.
func (s *SQLStationRepository) ListStationsInBounds(ctx context.Context, bound orb.Bound) (_ []domain.Station, err error) {
	defer obs.Time(ctx, "stations.ListInBounds")(&err)

	if s.DB == nil {
		return nil, errors.New("station repository: DB is nil")
	}

	query := `
	SELECT ` + stationColumns + `
	FROM fuel_stations
	WHERE lat IS NOT NULL
		AND lon IS NOT NULL
		AND lat BETWEEN ? AND ?
		AND lon BETWEEN ? AND ?
	ORDER BY opis_id;
	`
	rows, err := s.DB.QueryContext(ctx, s.q(query), bound.Min.Lat(), bound.Max.Lat(), bound.Min.Lon(), bound.Max.Lon())
	if err != nil {
		return nil, fmt.Errorf("list stations in bounds: query fuel_stations table: %w", err)
	}
	defer rows.Close()

	return scanStations(rows, "list stations in bounds")
}

// Return stations ordered by OpisID, optionally filtered by state.
func (s *SQLStationRepository) ListStations(ctx context.Context, sq ports.StationQuery) ([]domain.Station, error) {
	if s.DB == nil {
		return nil, errors.New("station repository: DB is nil")
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + stationColumns + ` FROM fuel_stations`)

	args := make([]any, 0, 3)
	if st := strings.ToUpper(strings.TrimSpace(sq.State)); st != "" {
		b.WriteString(` WHERE state = ?`)
		args = append(args, st)
	}
	b.WriteString(` ORDER BY opis_id`)
	if sq.Limit > 0 {
		b.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, sq.Limit, max(sq.Offset, 0))
	}

	rows, err := s.DB.QueryContext(ctx, s.q(b.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("list stations: query fuel_stations table: %w", err)
	}
	defer rows.Close()

	return scanStations(rows, "list stations")
}

// Return the set of OpisIDs already stored.
func (s *SQLStationRepository) ListOpisIDs(ctx context.Context) (map[int]struct{}, error) {
	if s.DB == nil {
		return nil, errors.New("station repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT opis_id FROM fuel_stations;`)
	if err != nil {
		return nil, fmt.Errorf("list opis ids: query fuel_stations table: %w", err)
	}
	defer rows.Close()

	out := make(map[int]struct{}, 1024)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list opis ids: scan row: %w", err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list opis ids: row iteration: %w", err)
	}

	return out, nil
}

// Insert stations, replacing existing rows with the same OpisID.
func (s *SQLStationRepository) UpsertStations(ctx context.Context, stations []domain.Station) (err error) {
	defer obs.Time(ctx, "stations.Upsert")(&err)

	if s.DB == nil {
		return errors.New("station repository: DB is nil")
	}
	if len(stations) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO fuel_stations (` + stationColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (opis_id) DO UPDATE
	SET name = EXCLUDED.name,
		address = EXCLUDED.address,
		city = EXCLUDED.city,
		state = EXCLUDED.state,
		retail_price = EXCLUDED.retail_price,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`
	stmt, err := tx.PrepareContext(ctx, s.q(query))
	if err != nil {
		return fmt.Errorf("upsert stations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, st := range stations {
		if st.OpisID <= 0 {
			return fmt.Errorf("upsert stations: invalid opis_id %d", st.OpisID)
		}

		var lon, lat sql.NullFloat64
		if st.Location != nil {
			lon = sql.NullFloat64{Float64: st.Location.Lon, Valid: true}
			lat = sql.NullFloat64{Float64: st.Location.Lat, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, st.OpisID, st.Name, st.Address, st.City, st.State, st.Price, lon, lat); err != nil {
			return fmt.Errorf("upsert stations: insert opis_id=%d: %w", st.OpisID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert stations: commit tx: %w", err)
	}

	return nil
}

// Update the retail price of stored stations. Unknown ids are ignored.
func (s *SQLStationRepository) UpdatePrices(ctx context.Context, prices map[int]float64) (int, error) {
	if s.DB == nil {
		return 0, errors.New("station repository: DB is nil")
	}
	if len(prices) == 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("update prices: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.q(`UPDATE fuel_stations SET retail_price = ? WHERE opis_id = ?;`))
	if err != nil {
		return 0, fmt.Errorf("update prices: prepare update: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for id, price := range prices {
		res, err := stmt.ExecContext(ctx, price, id)
		if err != nil {
			return 0, fmt.Errorf("update prices: opis_id=%d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("update prices: rows affected: %w", err)
		}
		updated += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("update prices: commit tx: %w", err)
	}

	return updated, nil
}

func (s *SQLStationRepository) CountStations(ctx context.Context) (int, error) {
	if s.DB == nil {
		return 0, errors.New("station repository: DB is nil")
	}

	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM fuel_stations;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stations: %w", err)
	}
	return n, nil
}

func scanStations(rows *sql.Rows, op string) ([]domain.Station, error) {
	stations := make([]domain.Station, 0, 64)
	for rows.Next() {
		var st domain.Station
		var lon, lat sql.NullFloat64
		if err := rows.Scan(&st.OpisID, &st.Name, &st.Address, &st.City, &st.State, &st.Price, &lon, &lat); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		if lon.Valid && lat.Valid {
			st.Location = &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
		}
		stations = append(stations, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: row iteration: %w", op, err)
	}

	return stations, nil
}
