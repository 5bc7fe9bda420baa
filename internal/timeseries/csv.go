package timeseries

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes the series as "Date,Rainfall_mm" rows with dates in the
// day-month-year layout. The header name matches the loader's default
// candidates, so an exported aggregate re-parses to the same bucketed totals.
func (s Series) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Rainfall_mm"}); err != nil {
		return err
	}
	for _, p := range s.Points {
		rec := []string{FormatDate(p.Date), strconv.FormatFloat(p.Rainfall, 'f', -1, 64)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
