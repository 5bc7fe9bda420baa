package season

import (
	"errors"
	"fmt"
	"time"

	"rainscope/internal/timeseries"
)

// ErrInvalidQuery is returned for out-of-domain withdrawal query parameters
var ErrInvalidQuery = errors.New("invalid withdrawal query")

// Query describes a dry-spell search: where in the season to start looking,
// how little rain still counts as dry, and how many consecutive dry days
// mark the monsoon withdrawal.
type Query struct {
	SearchStart     time.Time
	ThresholdMM     float64
	ConsecutiveDays int
}

// FindWithdrawal scans the calendar year of q.SearchStart, beginning at
// q.SearchStart, for the first run of ConsecutiveDays observations that are
// all dry (rainfall <= ThresholdMM) and returns the first day of that run.
// found is false when no such run exists; a season that never settles into a
// dry spell is a normal outcome, not an error. With fewer observations than
// the window the answer is always not found.
func FindWithdrawal(s timeseries.Series, q Query) (withdrawal time.Time, found bool, err error) {
	if q.ThresholdMM < 0 {
		return time.Time{}, false, fmt.Errorf("%w: threshold %.2f mm is negative", ErrInvalidQuery, q.ThresholdMM)
	}
	if q.ConsecutiveDays < 1 {
		return time.Time{}, false, fmt.Errorf("%w: consecutive days must be at least 1, got %d", ErrInvalidQuery, q.ConsecutiveDays)
	}

	start := timeseries.DateOnly(q.SearchStart)
	yearEnd := time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	sub, err := s.Range(start, yearEnd)
	if err != nil {
		return time.Time{}, false, err
	}

	// Rolling count of dry flags over a trailing window of k observations
	k := q.ConsecutiveDays
	dry := 0
	for i, p := range sub.Points {
		if p.Rainfall <= q.ThresholdMM {
			dry++
		}
		if i >= k && sub.Points[i-k].Rainfall <= q.ThresholdMM {
			dry--
		}
		if i >= k-1 && dry == k {
			return p.Date.AddDate(0, 0, -(k - 1)), true, nil
		}
	}
	return time.Time{}, false, nil
}
