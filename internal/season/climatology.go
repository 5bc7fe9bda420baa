package season

import (
	"time"

	"rainscope/internal/timeseries"
)

// monthDay keys climatology by calendar month and day, so leap years never
// shift alignment the way day-of-year numbering would
type monthDay struct {
	month time.Month
	day   int
}

// ClimatologyPoint pairs one target-year observation with the long-term mean
// for its calendar day. LongTermAvg and Anomaly are nil when no other year
// observed that day, such as February 29 in a record of non-leap years.
type ClimatologyPoint struct {
	Date        time.Time `json:"date"`
	Actual      float64   `json:"actual_mm"`
	LongTermAvg *float64  `json:"long_term_avg_mm"`
	Anomaly     *float64  `json:"anomaly_mm"`
}

// Climatology compares targetYear against the per-calendar-day mean of every
// other year in the series. The result covers exactly the target year's
// observed days in date order, and is empty when the series holds no data
// for that year. Anomaly is actual minus long-term mean where the mean is
// defined.
func Climatology(s timeseries.Series, targetYear int) []ClimatologyPoint {
	type acc struct {
		sum float64
		n   int
	}
	means := make(map[monthDay]acc)
	for _, p := range s.Points {
		if p.Date.Year() == targetYear {
			continue
		}
		k := monthDay{p.Date.Month(), p.Date.Day()}
		a := means[k]
		a.sum += p.Rainfall
		a.n++
		means[k] = a
	}

	target := s.Year(targetYear)
	out := make([]ClimatologyPoint, 0, target.Len())
	for _, p := range target.Points {
		cp := ClimatologyPoint{Date: p.Date, Actual: p.Rainfall}
		if a, ok := means[monthDay{p.Date.Month(), p.Date.Day()}]; ok && a.n > 0 {
			avg := a.sum / float64(a.n)
			anomaly := p.Rainfall - avg
			cp.LongTermAvg = &avg
			cp.Anomaly = &anomaly
		}
		out = append(out, cp)
	}
	return out
}

// Years lists the distinct calendar years present in the series, ascending.
// The last entry is the default target year for seasonal queries.
func Years(s timeseries.Series) []int {
	out := make([]int, 0, 8)
	last := 0
	for _, p := range s.Points {
		if y := p.Date.Year(); y != last {
			out = append(out, y)
			last = y
		}
	}
	return out
}
