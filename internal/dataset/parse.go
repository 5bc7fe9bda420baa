package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"rainscope/internal/timeseries"
)

// Format errors for source files that cannot serve as a rainfall dataset.
// Fetch and read failures are ErrUnavailable in loader.go.
var (
	ErrMissingColumn = errors.New("no rainfall column in source data")
	ErrEmptySeries   = errors.New("no usable rainfall rows in source data")
)

// rainColumnCandidates are matched case-insensitively against header names
// when no explicit column is configured. Rainfall_mm comes first because the
// service's own CSV exports use it.
var rainColumnCandidates = []string{"rainfall_mm", "rainfall", "rain_mm", "rain", "precipitation"}

var (
	latColumnCandidates = []string{"latitude", "lat"}
	lonColumnCandidates = []string{"longitude", "lon", "lng"}
)

// Dataset is one loaded station record: the normalized daily series plus
// display-only metadata picked up from the source file.
type Dataset struct {
	Source    string
	Series    timeseries.Series
	Latitude  *float64
	Longitude *float64
	Dropped   int // source rows discarded during parsing
}

// ParseOptions adjusts column detection. The zero value autodetects.
type ParseOptions struct {
	RainColumn string // explicit rainfall header name, overrides autodetection
}

// Parse reads a station CSV: a header row, day-month-year dates in the first
// column, and a rainfall column located by header name. Rows with an
// unparsable date or a non-numeric, negative, or non-finite rainfall value
// are dropped rather than coerced. Duplicate dates collapse to the last
// occurrence.
func Parse(r io.Reader, opts ParseOptions) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing header row", ErrMissingColumn)
	}

	rainIdx := findColumn(header, opts.RainColumn, rainColumnCandidates)
	if rainIdx == -1 {
		return nil, fmt.Errorf("%w: header %v", ErrMissingColumn, header)
	}
	latIdx := findColumn(header, "", latColumnCandidates)
	lonIdx := findColumn(header, "", lonColumnCandidates)

	ds := &Dataset{}
	points := make([]timeseries.Point, 0, 256)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			ds.Dropped++
			continue
		}
		if len(rec) <= rainIdx {
			ds.Dropped++
			continue
		}

		d, err := timeseries.ParseDate(rec[0])
		if err != nil {
			ds.Dropped++
			continue
		}
		mm, err := strconv.ParseFloat(strings.TrimSpace(rec[rainIdx]), 64)
		if err != nil || math.IsNaN(mm) || math.IsInf(mm, 0) || mm < 0 {
			ds.Dropped++
			continue
		}
		points = append(points, timeseries.Point{Date: d, Rainfall: mm})

		if ds.Latitude == nil && latIdx != -1 && len(rec) > latIdx {
			if v, err := strconv.ParseFloat(strings.TrimSpace(rec[latIdx]), 64); err == nil {
				ds.Latitude = &v
			}
		}
		if ds.Longitude == nil && lonIdx != -1 && len(rec) > lonIdx {
			if v, err := strconv.ParseFloat(strings.TrimSpace(rec[lonIdx]), 64); err == nil {
				ds.Longitude = &v
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %d rows dropped", ErrEmptySeries, ds.Dropped)
	}
	ds.Series = timeseries.New(points)
	return ds, nil
}

// findColumn locates a header by name, skipping the first column, which is
// always the date. Returns -1 when nothing matches.
func findColumn(header []string, explicit string, candidates []string) int {
	for i := 1; i < len(header); i++ {
		name := strings.TrimSpace(header[i])
		if explicit != "" {
			if strings.EqualFold(name, explicit) {
				return i
			}
			continue
		}
		for _, c := range candidates {
			if strings.EqualFold(name, c) {
				return i
			}
		}
	}
	return -1
}
