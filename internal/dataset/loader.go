package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"rainscope/internal/logger"
	"rainscope/internal/observability"
)

// ErrUnavailable is returned when the rainfall source cannot be fetched or
// read at all.
var ErrUnavailable = errors.New("rainfall source unavailable")

// Loader fetches station CSVs over HTTP or from local files and memoizes the
// parsed datasets by source string for the lifetime of the process. A
// restart is the only cache invalidation.
type Loader struct {
	client  *resty.Client
	opts    ParseOptions
	metrics *observability.Metrics

	mu    sync.RWMutex
	cache map[string]*Dataset
}

// NewLoader creates a loader with the service's HTTP retry policy. A nil
// metrics disables instrumentation.
func NewLoader(rainColumn string, metrics *observability.Metrics) *Loader {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)

	return &Loader{
		client:  client,
		opts:    ParseOptions{RainColumn: rainColumn},
		metrics: metrics,
		cache:   make(map[string]*Dataset),
	}
}

// Load returns the dataset for source, fetching and parsing on first use.
// Concurrent first loads may fetch twice; the later parse wins the cache
// slot and both callers see equivalent data.
func (l *Loader) Load(ctx context.Context, source string) (*Dataset, error) {
	l.mu.RLock()
	ds, ok := l.cache[source]
	l.mu.RUnlock()
	if ok {
		l.countCache("hit")
		return ds, nil
	}
	l.countCache("miss")

	raw, err := l.read(ctx, source)
	if err != nil {
		l.countLoad("error")
		return nil, err
	}

	ds, err = Parse(bytes.NewReader(raw), l.opts)
	if err != nil {
		l.countLoad("error")
		return nil, err
	}
	ds.Source = source

	l.mu.Lock()
	l.cache[source] = ds
	l.mu.Unlock()

	l.countLoad("success")
	if l.metrics != nil {
		l.metrics.ObservationsLoaded.Set(float64(ds.Series.Len()))
	}
	logger.Info("Rainfall dataset loaded", map[string]interface{}{
		"source":  source,
		"days":    ds.Series.Len(),
		"dropped": ds.Dropped,
	})
	return ds, nil
}

func (l *Loader) countCache(result string) {
	if l.metrics != nil {
		l.metrics.DatasetCache.WithLabelValues(result).Inc()
	}
}

func (l *Loader) countLoad(outcome string) {
	if l.metrics != nil {
		l.metrics.DatasetLoads.WithLabelValues(outcome).Inc()
	}
}

// read fetches the raw CSV bytes from an HTTP URL or the local filesystem
func (l *Loader) read(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := l.client.R().
			SetContext(ctx).
			Get(source)
		if err != nil {
			return nil, fmt.Errorf("%w: fetching %s: %v", ErrUnavailable, source, err)
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("%w: %s returned status %d", ErrUnavailable, source, resp.StatusCode())
		}
		return resp.Body(), nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, source, err)
	}
	return data, nil
}
