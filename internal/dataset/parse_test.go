package dataset

import (
	"errors"
	"strings"
	"testing"
	"time"

	"rainscope/internal/timeseries"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	input := "Date,Rainfall_mm,Latitude,Longitude\n" +
		"01-06-2020,0,30.463,79.525\n" +
		"02-06-2020,12.5,30.463,79.525\n" +
		"03-06-2020,3,30.463,79.525\n"

	ds, err := Parse(strings.NewReader(input), ParseOptions{})
	if err != nil {
		t.Fatalf("Parse returned unexpected error: %v", err)
	}

	if ds.Series.Len() != 3 {
		t.Fatalf("expected 3 points, got %d", ds.Series.Len())
	}
	if ds.Dropped != 0 {
		t.Errorf("expected no dropped rows, got %d", ds.Dropped)
	}
	if !ds.Series.Points[1].Date.Equal(date(2020, time.June, 2)) || ds.Series.Points[1].Rainfall != 12.5 {
		t.Errorf("unexpected second point: %+v", ds.Series.Points[1])
	}
	if ds.Latitude == nil || *ds.Latitude != 30.463 {
		t.Errorf("expected latitude 30.463, got %v", ds.Latitude)
	}
	if ds.Longitude == nil || *ds.Longitude != 79.525 {
		t.Errorf("expected longitude 79.525, got %v", ds.Longitude)
	}
}

func TestParseDropsUnusableRows(t *testing.T) {
	input := "Date,Rainfall_mm\n" +
		"01-06-2020,4\n" +
		"not-a-date,5\n" + // bad date
		"03-06-2020,wet\n" + // non-numeric amount
		"04-06-2020,-2\n" + // negative amount
		"05-06-2020,NaN\n" + // not a number, not coerced to zero
		"06-06-2020\n" + // short row
		"07-06-2020,8\n"

	ds, err := Parse(strings.NewReader(input), ParseOptions{})
	if err != nil {
		t.Fatalf("Parse returned unexpected error: %v", err)
	}

	if ds.Series.Len() != 2 {
		t.Fatalf("expected 2 surviving points, got %d", ds.Series.Len())
	}
	if ds.Dropped != 5 {
		t.Errorf("expected 5 dropped rows, got %d", ds.Dropped)
	}
	if !ds.Series.Points[0].Date.Equal(date(2020, time.June, 1)) || !ds.Series.Points[1].Date.Equal(date(2020, time.June, 7)) {
		t.Errorf("unexpected surviving dates: %s, %s",
			timeseries.FormatDate(ds.Series.Points[0].Date),
			timeseries.FormatDate(ds.Series.Points[1].Date))
	}
}

func TestParseDuplicateDateLastWins(t *testing.T) {
	input := "Date,Rainfall_mm\n" +
		"01-06-2020,4\n" +
		"01-06-2020,9\n"

	ds, err := Parse(strings.NewReader(input), ParseOptions{})
	if err != nil {
		t.Fatalf("Parse returned unexpected error: %v", err)
	}
	if ds.Series.Len() != 1 {
		t.Fatalf("expected 1 point, got %d", ds.Series.Len())
	}
	if ds.Series.Points[0].Rainfall != 9 {
		t.Errorf("expected the later row to win, got %.1f", ds.Series.Points[0].Rainfall)
	}
}

func TestParseColumnDetection(t *testing.T) {
	tests := []struct {
		name   string
		header string
		opts   ParseOptions
	}{
		{"canonical export header", "Date,Rainfall_mm", ParseOptions{}},
		{"plain rainfall", "Date,Rainfall", ParseOptions{}},
		{"upper case precipitation", "DAY,PRECIPITATION", ParseOptions{}},
		{"rain with padding", "Date, rain", ParseOptions{}},
		{"explicit override", "Date,mm_of_rain", ParseOptions{RainColumn: "mm_of_rain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.header + "\n01-06-2020,7\n"
			ds, err := Parse(strings.NewReader(input), tt.opts)
			if err != nil {
				t.Fatalf("Parse returned unexpected error: %v", err)
			}
			if ds.Series.Len() != 1 || ds.Series.Points[0].Rainfall != 7 {
				t.Errorf("expected one 7 mm point, got %+v", ds.Series.Points)
			}
		})
	}
}

func TestParseMissingRainColumn(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  ParseOptions
	}{
		{"no matching header", "Date,Temperature\n01-06-2020,22\n", ParseOptions{}},
		{"explicit name absent", "Date,Rainfall_mm\n01-06-2020,7\n", ParseOptions{RainColumn: "precip_total"}},
		{"only a date column", "Date\n01-06-2020\n", ParseOptions{}},
		{"empty input", "", ParseOptions{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), tt.opts)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMissingColumn) {
				t.Errorf("expected ErrMissingColumn, got %v", err)
			}
		})
	}
}

func TestParseEmptySeries(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"header only", "Date,Rainfall_mm\n"},
		{"every row unusable", "Date,Rainfall_mm\nbad,1\nworse,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), ParseOptions{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrEmptySeries) {
				t.Errorf("expected ErrEmptySeries, got %v", err)
			}
		})
	}
}

func TestAggregateExportRoundTrip(t *testing.T) {
	// An exported aggregate must re-parse to the identical bucketed series
	s := timeseries.New([]timeseries.Point{
		{Date: date(2019, time.December, 30), Rainfall: 1.25},
		{Date: date(2020, time.January, 1), Rainfall: 0},
		{Date: date(2020, time.January, 2), Rainfall: 10},
		{Date: date(2020, time.January, 8), Rainfall: 7.5},
		{Date: date(2020, time.February, 14), Rainfall: 3.33},
	})

	for _, level := range []timeseries.Level{timeseries.Daily, timeseries.Weekly, timeseries.Monthly, timeseries.Yearly} {
		t.Run(level.String(), func(t *testing.T) {
			agg := s.Aggregate(level)

			var buf strings.Builder
			if err := agg.WriteCSV(&buf); err != nil {
				t.Fatalf("WriteCSV returned unexpected error: %v", err)
			}

			ds, err := Parse(strings.NewReader(buf.String()), ParseOptions{})
			if err != nil {
				t.Fatalf("Parse of exported CSV failed: %v", err)
			}

			if ds.Series.Len() != agg.Len() {
				t.Fatalf("expected %d points after round trip, got %d", agg.Len(), ds.Series.Len())
			}
			for i, want := range agg.Points {
				got := ds.Series.Points[i]
				if !got.Date.Equal(want.Date) {
					t.Errorf("point %d: expected date %s, got %s", i,
						timeseries.FormatDate(want.Date), timeseries.FormatDate(got.Date))
				}
				if got.Rainfall != want.Rainfall {
					t.Errorf("point %d: expected %v mm, got %v mm", i, want.Rainfall, got.Rainfall)
				}
			}
		})
	}
}
