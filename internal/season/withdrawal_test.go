package season

import (
	"errors"
	"testing"
	"time"

	"rainscope/internal/timeseries"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// run builds a contiguous daily series starting at start with the given
// rainfall amounts
func run(start time.Time, amounts ...float64) timeseries.Series {
	points := make([]timeseries.Point, len(amounts))
	for i, mm := range amounts {
		points[i] = timeseries.Point{Date: start.AddDate(0, 0, i), Rainfall: mm}
	}
	return timeseries.New(points)
}

func TestFindWithdrawalDryFromDayTen(t *testing.T) {
	// 30 days from 01-06: 10 mm on the first nine days, bone dry afterwards.
	// With a 14-day window at threshold 5 the first fully dry run starts on
	// day ten.
	amounts := make([]float64, 30)
	for i := 0; i < 9; i++ {
		amounts[i] = 10.0
	}
	s := run(date(2021, time.June, 1), amounts...)

	got, found, err := FindWithdrawal(s, Query{
		SearchStart:     date(2021, time.June, 1),
		ThresholdMM:     5.0,
		ConsecutiveDays: 14,
	})
	if err != nil {
		t.Fatalf("FindWithdrawal returned unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a withdrawal date, got not found")
	}
	if want := date(2021, time.June, 10); !got.Equal(want) {
		t.Errorf("expected withdrawal on %s, got %s",
			timeseries.FormatDate(want), timeseries.FormatDate(got))
	}
}

func TestFindWithdrawalRainShiftsDetection(t *testing.T) {
	// Same shape as above, but a wet day landing on the would-be withdrawal
	// date pushes detection one day later
	amounts := make([]float64, 30)
	for i := 0; i < 9; i++ {
		amounts[i] = 10.0
	}
	amounts[9] = 6.0 // just above threshold on day ten
	s := run(date(2021, time.June, 1), amounts...)

	got, found, err := FindWithdrawal(s, Query{
		SearchStart:     date(2021, time.June, 1),
		ThresholdMM:     5.0,
		ConsecutiveDays: 14,
	})
	if err != nil {
		t.Fatalf("FindWithdrawal returned unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a withdrawal date, got not found")
	}
	if want := date(2021, time.June, 11); !got.Equal(want) {
		t.Errorf("expected withdrawal on %s, got %s",
			timeseries.FormatDate(want), timeseries.FormatDate(got))
	}
}

func TestFindWithdrawalNotFound(t *testing.T) {
	tests := []struct {
		name  string
		serie timeseries.Series
		query Query
	}{
		{
			name:  "series shorter than the window",
			serie: run(date(2021, time.September, 1), 0, 0, 0, 0, 0),
			query: Query{SearchStart: date(2021, time.September, 1), ThresholdMM: 5, ConsecutiveDays: 14},
		},
		{
			name:  "rain keeps interrupting",
			serie: run(date(2021, time.September, 1), 0, 0, 12, 0, 0, 9, 0, 0, 11, 0),
			query: Query{SearchStart: date(2021, time.September, 1), ThresholdMM: 5, ConsecutiveDays: 3},
		},
		{
			name:  "no observations after the search start",
			serie: run(date(2021, time.March, 1), 0, 0, 0, 0),
			query: Query{SearchStart: date(2021, time.September, 1), ThresholdMM: 5, ConsecutiveDays: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := FindWithdrawal(tt.serie, tt.query)
			if err != nil {
				t.Fatalf("FindWithdrawal returned unexpected error: %v", err)
			}
			if found {
				t.Errorf("expected not found, got %s", timeseries.FormatDate(got))
			}
		})
	}
}

func TestFindWithdrawalThresholdIsInclusive(t *testing.T) {
	// Days at exactly the threshold count as dry
	s := run(date(2021, time.October, 1), 5.0, 5.0, 5.0)

	got, found, err := FindWithdrawal(s, Query{
		SearchStart:     date(2021, time.October, 1),
		ThresholdMM:     5.0,
		ConsecutiveDays: 3,
	})
	if err != nil {
		t.Fatalf("FindWithdrawal returned unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected a withdrawal date, got not found")
	}
	if want := date(2021, time.October, 1); !got.Equal(want) {
		t.Errorf("expected withdrawal on %s, got %s",
			timeseries.FormatDate(want), timeseries.FormatDate(got))
	}
}

func TestFindWithdrawalIgnoresOtherYears(t *testing.T) {
	// A long dry run in late 2020 must not satisfy a 2021 search, and the
	// scan must not continue into 2022
	points := []timeseries.Point{}
	for i := 0; i < 20; i++ {
		points = append(points, timeseries.Point{Date: date(2020, time.December, 1).AddDate(0, 0, i)})
	}
	// 2021: wet through year end
	for i := 0; i < 122; i++ {
		points = append(points, timeseries.Point{Date: date(2021, time.September, 1).AddDate(0, 0, i), Rainfall: 20})
	}
	// 2022: dry January
	for i := 0; i < 20; i++ {
		points = append(points, timeseries.Point{Date: date(2022, time.January, 1).AddDate(0, 0, i)})
	}
	s := timeseries.New(points)

	_, found, err := FindWithdrawal(s, Query{
		SearchStart:     date(2021, time.September, 1),
		ThresholdMM:     5,
		ConsecutiveDays: 10,
	})
	if err != nil {
		t.Fatalf("FindWithdrawal returned unexpected error: %v", err)
	}
	if found {
		t.Error("expected not found when only other years contain dry runs")
	}
}

func TestFindWithdrawalSkipsDaysBeforeSearchStart(t *testing.T) {
	// Eight dry days, but only the last five fall on or after the search
	// start, so a 6-day window cannot fill
	s := run(date(2021, time.August, 29), 0, 0, 0, 0, 0, 0, 0, 0)

	_, found, err := FindWithdrawal(s, Query{
		SearchStart:     date(2021, time.September, 1),
		ThresholdMM:     5,
		ConsecutiveDays: 6,
	})
	if err != nil {
		t.Fatalf("FindWithdrawal returned unexpected error: %v", err)
	}
	if found {
		t.Error("expected not found when the window only fills by counting days before the search start")
	}
}

func TestFindWithdrawalInvalidQuery(t *testing.T) {
	s := run(date(2021, time.September, 1), 0, 0, 0)

	tests := []struct {
		name  string
		query Query
	}{
		{"negative threshold", Query{SearchStart: date(2021, time.September, 1), ThresholdMM: -1, ConsecutiveDays: 3}},
		{"zero window", Query{SearchStart: date(2021, time.September, 1), ThresholdMM: 5, ConsecutiveDays: 0}},
		{"negative window", Query{SearchStart: date(2021, time.September, 1), ThresholdMM: 5, ConsecutiveDays: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := FindWithdrawal(s, tt.query)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}
