package ephem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/litescript/ls-natal/internal/chart"
)

const (
	// DefaultChartURL is the chart backend endpoint used when none is configured.
	DefaultChartURL = "http://localhost:8000/api/chart"

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// ChartCacheTTL is how long a fetched chart is reused for the same request.
	ChartCacheTTL = 5 * time.Minute

	// maxCachedCharts bounds the cache. Live mode asks for a new time on
	// every tick, so keys rarely repeat.
	maxCachedCharts = 32
)

// HTTPProvider fetches charts from the chart backend. The request is POSTed
// as JSON and the response is the chart JSON shape.
type HTTPProvider struct {
	client  *http.Client
	url     string
	timeout time.Duration
	ttl     time.Duration
	aspects chart.AspectSet

	now func() time.Time

	mu    sync.RWMutex
	cache map[string]*cachedChart
}

type cachedChart struct {
	data      *chart.Data
	fetchedAt time.Time
}

// HTTPOption configures an HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithURL sets the chart endpoint.
func WithURL(url string) HTTPOption {
	return func(p *HTTPProvider) {
		p.url = url
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(p *HTTPProvider) {
		p.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		p.client = client
	}
}

// WithCacheTTL sets how long charts are cached. Zero disables caching.
func WithCacheTTL(d time.Duration) HTTPOption {
	return func(p *HTTPProvider) {
		p.ttl = d
	}
}

// NewHTTPProvider creates a new chart backend client.
func NewHTTPProvider(opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		url:     DefaultChartURL,
		timeout: DefaultTimeout,
		ttl:     ChartCacheTTL,
		aspects: chart.DefaultAspects(),
		cache:   make(map[string]*cachedChart),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		p.client = &http.Client{
			Timeout: p.timeout,
		}
	}
	return p
}

// Name implements Provider.
func (p *HTTPProvider) Name() string {
	return "remote"
}

// URL returns the configured endpoint.
func (p *HTTPProvider) URL() string {
	return p.url
}

// Chart implements Provider.
// Returns a cached chart if one was fetched for the same request within the TTL.
func (p *HTTPProvider) Chart(ctx context.Context, req Request) (*chart.Data, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := req.cacheKey()
	p.mu.RLock()
	cached, ok := p.cache[key]
	p.mu.RUnlock()
	if ok && p.now().Sub(cached.fetchedAt) < p.ttl {
		return cached.data, nil
	}

	d, err := p.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	if p.ttl > 0 {
		p.store(key, d)
	}
	return d, nil
}

// store caches d under key, dropping expired entries first and then the
// oldest ones while the cache is full.
func (p *HTTPProvider) store(key string, d *chart.Data) {
	now := p.now()
	p.mu.Lock()
	defer p.mu.Unlock()

	for k, c := range p.cache {
		if now.Sub(c.fetchedAt) >= p.ttl {
			delete(p.cache, k)
		}
	}
	for len(p.cache) >= maxCachedCharts {
		var oldest string
		var oldestAt time.Time
		for k, c := range p.cache {
			if oldest == "" || c.fetchedAt.Before(oldestAt) {
				oldest, oldestAt = k, c.fetchedAt
			}
		}
		delete(p.cache, oldest)
	}
	p.cache[key] = &cachedChart{data: d, fetchedAt: now}
}

// InvalidateCache drops every cached chart.
func (p *HTTPProvider) InvalidateCache() {
	p.mu.Lock()
	clear(p.cache)
	p.mu.Unlock()
}

func (p *HTTPProvider) fetch(ctx context.Context, req Request) (*chart.Data, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "ls-natal/1.0")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: chart request failed: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("chart backend returned status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return nil, err
	}

	d, err := chart.Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(d.Aspects) == 0 {
		d.Aspects = chart.FindAspects(d.BodiesOfKind(chart.KindPlanet), p.aspects)
	}
	if d.Time.IsZero() {
		d.Time = req.Time.UTC()
	}
	return d, nil
}
