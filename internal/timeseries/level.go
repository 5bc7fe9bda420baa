package timeseries

import (
	"fmt"
	"strings"
	"time"
)

// Level is a calendar aggregation granularity
type Level int

const (
	Daily Level = iota
	Weekly
	Monthly
	Yearly
)

// ParseLevel parses an aggregation level name, any case
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "yearly":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown aggregation level %q", s)
	}
}

// String returns the lowercase level name
func (l Level) String() string {
	switch l {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "unknown"
	}
}

// Title returns the display form of the level name, e.g. "Weekly"
func (l Level) Title() string {
	switch l {
	case Daily:
		return "Daily"
	case Weekly:
		return "Weekly"
	case Monthly:
		return "Monthly"
	case Yearly:
		return "Yearly"
	default:
		return "Unknown"
	}
}

// BucketStart maps a date to the start of the bucket containing it: the day
// itself, the Monday of its week, the first of its month, or January 1 of
// its year. Bucket membership depends on these anchors, so they are fixed.
func (l Level) BucketStart(d time.Time) time.Time {
	d = DateOnly(d)
	switch l {
	case Weekly:
		// time.Weekday counts Sunday as 0; shift so Monday is the anchor
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Yearly:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// Aggregate sums the series into calendar buckets at the given level. Each
// output point carries the bucket start date and the bucket's total rainfall;
// only buckets touched by at least one observation appear. The overall total
// is preserved.
func (s Series) Aggregate(level Level) Series {
	if level == Daily || len(s.Points) == 0 {
		return s
	}
	// Sorted input means bucket starts are non-decreasing, so a single
	// streaming pass groups correctly.
	out := make([]Point, 0, len(s.Points))
	cur := Point{Date: level.BucketStart(s.Points[0].Date)}
	for _, p := range s.Points {
		b := level.BucketStart(p.Date)
		if !b.Equal(cur.Date) {
			out = append(out, cur)
			cur = Point{Date: b}
		}
		cur.Rainfall += p.Rainfall
	}
	out = append(out, cur)
	return Series{Points: out}
}
