package timeseries

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the day-month-year layout used by station CSV files and exports
const DateLayout = "02-01-2006"

// ErrInvalidRange is returned when a range query has its start after its end
var ErrInvalidRange = errors.New("invalid date range: start is after end")

// Point is a single daily rainfall observation
type Point struct {
	Date     time.Time `json:"date"`
	Rainfall float64   `json:"rainfall_mm"` // millimetres, never negative
}

// Series is an ordered daily rainfall series: dates ascending at midnight UTC,
// one point per date. Operations never mutate the receiver; they return
// derived Series values.
type Series struct {
	Points []Point
}

// New builds a normalized Series from raw points: dates are truncated to
// midnight UTC, duplicate dates collapse to the last occurrence, and the
// result is sorted ascending.
func New(points []Point) Series {
	byDate := make(map[time.Time]float64, len(points))
	for _, p := range points {
		byDate[DateOnly(p.Date)] = p.Rainfall
	}
	out := make([]Point, 0, len(byDate))
	for d, mm := range byDate {
		out = append(out, Point{Date: d, Rainfall: mm})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return Series{Points: out}
}

// DateOnly truncates a timestamp to its calendar day at midnight UTC
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a day-month-year date such as "15-06-2020"
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// FormatDate renders a date in the day-month-year layout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Len returns the number of observations
func (s Series) Len() int {
	return len(s.Points)
}

// Empty reports whether the series has no observations
func (s Series) Empty() bool {
	return len(s.Points) == 0
}

// Bounds returns the first and last observation dates; ok is false for an
// empty series
func (s Series) Bounds() (start, end time.Time, ok bool) {
	if len(s.Points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.Points[0].Date, s.Points[len(s.Points)-1].Date, true
}

// Range returns the sub-series between start and end, both inclusive. An
// empty result is valid; start after end is not.
func (s Series) Range(start, end time.Time) (Series, error) {
	start, end = DateOnly(start), DateOnly(end)
	if start.After(end) {
		return Series{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, FormatDate(start), FormatDate(end))
	}
	// Points are sorted, so the matching run is contiguous
	lo := sort.Search(len(s.Points), func(i int) bool { return !s.Points[i].Date.Before(start) })
	hi := sort.Search(len(s.Points), func(i int) bool { return s.Points[i].Date.After(end) })
	out := make([]Point, hi-lo)
	copy(out, s.Points[lo:hi])
	return Series{Points: out}, nil
}

// Year returns the sub-series for a single calendar year
func (s Series) Year(year int) Series {
	sub, _ := s.Range(
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
	return sub
}

// Total returns the sum of all rainfall amounts
func (s Series) Total() float64 {
	var sum float64
	for _, p := range s.Points {
		sum += p.Rainfall
	}
	return sum
}

// Stats summarises a series. Mean is taken over the days actually observed,
// not over calendar days in the span. Peak is nil for an empty series; on
// equal amounts the earliest date wins.
type Stats struct {
	Days  int     `json:"days"`
	Total float64 `json:"total_mm"`
	Mean  float64 `json:"mean_mm"`
	Peak  *Point  `json:"peak,omitempty"`
}

// Stats computes summary statistics for the series
func (s Series) Stats() Stats {
	if len(s.Points) == 0 {
		return Stats{}
	}
	peak := 0
	var total float64
	for i, p := range s.Points {
		total += p.Rainfall
		if p.Rainfall > s.Points[peak].Rainfall {
			peak = i
		}
	}
	p := s.Points[peak]
	return Stats{
		Days:  len(s.Points),
		Total: total,
		Mean:  total / float64(len(s.Points)),
		Peak:  &p,
	}
}
