// Package ephem provides birth charts, computed locally or fetched from a
// chart backend.
package ephem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-natal/internal/chart"
)

// ErrUnavailable is wrapped when a provider cannot produce a chart at all,
// as opposed to rejecting a bad request.
var ErrUnavailable = errors.New("chart provider unavailable")

// Request describes the chart to cast.
type Request struct {
	Name        string            `json:"name,omitempty"`
	Time        time.Time         `json:"time"`
	Location    chart.Location    `json:"location"`
	HouseSystem chart.HouseSystem `json:"house_system"`
}

// Validate checks the request before any work is done.
func (r Request) Validate() error {
	if r.Time.IsZero() {
		return fmt.Errorf("request: birth time is required")
	}
	if r.Location.LatDeg < -90 || r.Location.LatDeg > 90 {
		return fmt.Errorf("request: latitude %.4f out of range", r.Location.LatDeg)
	}
	if r.Location.LonDeg < -180 || r.Location.LonDeg > 180 {
		return fmt.Errorf("request: longitude %.4f out of range", r.Location.LonDeg)
	}
	return nil
}

// cacheKey identifies requests that produce the same chart.
func (r Request) cacheKey() string {
	return fmt.Sprintf("%s|%.4f|%.4f|%s|%s",
		r.Time.UTC().Format(time.RFC3339), r.Location.LatDeg, r.Location.LonDeg, r.HouseSystem, r.Name)
}

// Provider defines the interface for chart sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Chart casts or fetches the chart for a request.
	Chart(ctx context.Context, req Request) (*chart.Data, error)
}

// Mode represents which chart source to use.
type Mode int

const (
	ModeLocal  Mode = iota // Compute in process
	ModeRemote             // Chart backend only
	ModeAuto               // Try the backend, fall back to local
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeRemote:
		return "remote"
	case ModeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode string.
func ParseMode(s string) Mode {
	switch s {
	case "local":
		return ModeLocal
	case "remote":
		return ModeRemote
	case "auto":
		return ModeAuto
	default:
		return ModeAuto
	}
}
