package acquire

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/verdantlabs/carbonpeer/config"
	"github.com/verdantlabs/carbonpeer/model"
)

const maxBodyBytes = 64 << 20

// Fetcher downloads disclosure documents over HTTP with bounded
// retries and a per-host rate limit, so ingestion runs stay polite to
// corporate report hosts.
type Fetcher struct {
	client    *http.Client
	retries   int
	userAgent string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewFetcher(cfg config.IngestConfig) *Fetcher {
	ua := cfg.UserAgent
	if ua == "" {
		ua = "carbonpeer/1.0"
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: time.Duration(cfg.FetchTimeoutSecs) * time.Second,
		},
		retries:   cfg.FetchRetries,
		userAgent: ua,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (f *Fetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Every(500*time.Millisecond), 2)
		f.limiters[host] = l
	}
	return l
}

// Fetch downloads the document at location. Failures after all retries
// surface as a model.FetchError so callers can record the source as
// unavailable without aborting the rest of the run.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, &model.FetchError{Location: location, Err: err}
	}

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &model.FetchError{Location: location, Err: ctx.Err()}
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}
		if err := f.limiter(u.Host).Wait(ctx); err != nil {
			return nil, &model.FetchError{Location: location, Err: err}
		}

		data, err := f.fetchOnce(ctx, location)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, &model.FetchError{Location: location, Err: lastErr}
}

func (f *Fetcher) fetchOnce(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return data, nil
}
