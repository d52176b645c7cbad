package ephem

import (
	"context"
	"errors"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/logging"
)

// FallbackProvider tries a primary provider and, when it is unavailable,
// a secondary one. Invalid requests are not retried.
type FallbackProvider struct {
	primary   Provider
	secondary Provider
	logger    *logging.Logger
}

// NewFallbackProvider creates a provider that prefers primary.
func NewFallbackProvider(primary, secondary Provider, logger *logging.Logger) *FallbackProvider {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FallbackProvider{primary: primary, secondary: secondary, logger: logger}
}

// Name implements Provider.
func (p *FallbackProvider) Name() string {
	return p.primary.Name() + "+" + p.secondary.Name()
}

// Chart implements Provider.
func (p *FallbackProvider) Chart(ctx context.Context, req Request) (*chart.Data, error) {
	d, err := p.primary.Chart(ctx, req)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrUnavailable) {
		return nil, err
	}
	p.logger.Warn("%s provider unavailable, using %s: %v", p.primary.Name(), p.secondary.Name(), err)
	return p.secondary.Chart(ctx, req)
}

// New builds the provider for a mode. HTTP options only apply to the remote
// and auto modes.
func New(mode Mode, logger *logging.Logger, opts ...HTTPOption) Provider {
	switch mode {
	case ModeLocal:
		return NewLocalProvider()
	case ModeRemote:
		return NewHTTPProvider(opts...)
	default:
		return NewFallbackProvider(NewHTTPProvider(opts...), NewLocalProvider(), logger)
	}
}
