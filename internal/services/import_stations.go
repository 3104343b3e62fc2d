package services

import (
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/logger"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
)

const defaultImportBatch = 100

type ImportOptions struct {
	// RefreshPrices updates the price of stations that are already stored
	// instead of skipping them.
	RefreshPrices bool
	BatchSize     int
}

// ImportReport summarises one catalog import.
type ImportReport struct {
	Rows       int
	Duplicates int
	Existing   int
	Updated    int
	Inserted   int
	CityLevel  int
	Failed     int
}

// ImportStations geocodes new catalog stations and stores them in batches.
//
// Stations whose OpisID is already stored are skipped, or have their price
// refreshed when opts.RefreshPrices is set. Each new station is located by
// its street address first and by city and state when that fails; stations
// neither lookup can place are counted in Failed and not stored.
func ImportStations(
	ctx context.Context,
	stations []domain.Station,
	geocoder ports.Geocoder,
	repo ports.StationRepository,
	opts ImportOptions,
) (report *ImportReport, err error) {
	defer obs.Time(ctx, "import_stations")(&err)

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultImportBatch
	}

	report = &ImportReport{Rows: len(stations)}

	unique := dedupeCheapest(stations)
	report.Duplicates = len(stations) - len(unique)

	existing, err := repo.ListOpisIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("import stations: list existing: %w", err)
	}

	fresh := make([]domain.Station, 0, len(unique))
	prices := make(map[int]float64)
	for _, s := range unique {
		if _, ok := existing[s.OpisID]; ok {
			report.Existing++
			prices[s.OpisID] = s.Price
			continue
		}
		fresh = append(fresh, s)
	}

	if opts.RefreshPrices && len(prices) > 0 {
		n, err := repo.UpdatePrices(ctx, prices)
		if err != nil {
			return report, fmt.Errorf("import stations: refresh prices: %w", err)
		}
		report.Updated = n
		logger.L().Info("refreshed station prices", "updated", n)
	}

	batch := make([]domain.Station, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := repo.UpsertStations(ctx, batch); err != nil {
			return fmt.Errorf("import stations: save batch: %w", err)
		}
		report.Inserted += len(batch)
		logger.L().Info("saved stations", "saved", report.Inserted, "remaining", len(fresh)-report.Inserted-report.Failed)
		batch = batch[:0]
		return nil
	}

	for _, s := range fresh {
		loc, cityLevel, err := locate(ctx, geocoder, s)
		if err != nil {
			if ctx.Err() != nil {
				return report, fmt.Errorf("import stations: %w", ctx.Err())
			}
			report.Failed++
			logger.L().Warn("station not geocoded", "opis_id", s.OpisID, "name", s.Name, "err", err)
			continue
		}
		if cityLevel {
			report.CityLevel++
		}

		s.Location = &loc
		batch = append(batch, s)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}

	if err := flush(); err != nil {
		return report, err
	}

	return report, nil
}

// locate geocodes the street address, falling back to "City, State".
func locate(ctx context.Context, geocoder ports.Geocoder, s domain.Station) (domain.Coordinates, bool, error) {
	if s.Address != "" {
		c, err := geocoder.Geocode(ctx, fmt.Sprintf("%s, %s, %s, USA", s.Address, s.City, s.State))
		if err == nil {
			return c, false, nil
		}
		if ctx.Err() != nil {
			return domain.Coordinates{}, false, err
		}
		logger.L().Debug("retrying with city and state", "opis_id", s.OpisID, "city", s.City, "err", err)
	}

	c, err := geocoder.Geocode(ctx, fmt.Sprintf("%s, %s, USA", s.City, s.State))
	if err != nil {
		return domain.Coordinates{}, false, err
	}
	return c, true, nil
}

// dedupeCheapest keeps one station per OpisID, preferring the lowest price
// and then the first occurrence. Order of first appearance is preserved.
func dedupeCheapest(stations []domain.Station) []domain.Station {
	pos := make(map[int]int, len(stations))
	out := make([]domain.Station, 0, len(stations))
	for _, s := range stations {
		if i, ok := pos[s.OpisID]; ok {
			if s.Price < out[i].Price {
				out[i] = s
			}
			continue
		}
		pos[s.OpisID] = len(out)
		out = append(out, s)
	}
	return out
}
