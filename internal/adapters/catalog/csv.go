package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"io"
	"strconv"
	"strings"
)

// Column headers of the OPIS retail price export.
const (
	ColOpisID  = "OPIS Truckstop ID"
	ColName    = "Truckstop Name"
	ColAddress = "Address"
	ColCity    = "City"
	ColState   = "State"
	ColRackID  = "Rack ID"
	ColPrice   = "Retail Price"
)

var requiredColumns = []string{ColOpisID, ColName, ColAddress, ColCity, ColState, ColPrice}

// Row is one station price line from the catalog export.
type Row struct {
	Line    int
	OpisID  int
	Name    string
	Address string
	City    string
	State   string
	RackID  int
	Price   float64
}

// Station converts the row to an unlocated catalog station.
func (r Row) Station() domain.Station {
	return domain.Station{
		OpisID:  r.OpisID,
		Name:    r.Name,
		Address: r.Address,
		City:    r.City,
		State:   r.State,
		Price:   r.Price,
	}
}

type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

// Catalog holds the parsed rows and the lines that were rejected.
type Catalog struct {
	Rows     []Row
	Rejected []RowError
}

// Parse reads a catalog CSV. Missing required columns fail the whole file;
// malformed rows are collected in Rejected and skipped.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("parse catalog: read header: %w", err)
	}

	idx := makeIndex(header)
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("parse catalog: missing column %q", col)
		}
	}

	out := &Catalog{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			out.Rejected = append(out.Rejected, RowError{Line: line, Err: err})
			continue
		}

		row, err := parseRow(record, idx)
		if err != nil {
			out.Rejected = append(out.Rejected, RowError{Line: line, Err: err})
			continue
		}
		row.Line = line
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}

func parseRow(record []string, idx map[string]int) (Row, error) {
	id, err := strconv.Atoi(getField(record, idx, ColOpisID))
	if err != nil || id <= 0 {
		return Row{}, fmt.Errorf("invalid %s %q", ColOpisID, getField(record, idx, ColOpisID))
	}

	price, err := strconv.ParseFloat(getField(record, idx, ColPrice), 64)
	if err != nil || price < 0 {
		return Row{}, fmt.Errorf("invalid %s %q", ColPrice, getField(record, idx, ColPrice))
	}

	row := Row{
		OpisID:  id,
		Name:    getField(record, idx, ColName),
		Address: getField(record, idx, ColAddress),
		City:    getField(record, idx, ColCity),
		State:   strings.ToUpper(getField(record, idx, ColState)),
		Price:   price,
	}
	if row.Name == "" {
		return Row{}, fmt.Errorf("empty %s", ColName)
	}

	// Rack ID is informational; a blank or odd value is not fatal.
	row.RackID, _ = strconv.Atoi(getField(record, idx, ColRackID))

	return row, nil
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		// Exports from spreadsheet tools may start with a UTF-8 BOM.
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
