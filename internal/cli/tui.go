package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/ui"
)

const (
	minRefresh = 10 * time.Second
	maxRefresh = 24 * time.Hour
)

// runTUI starts the Bubble Tea program. Without a terminal on stdout it
// prints the positions table instead.
func (c *CLI) runTUI(cmd *cobra.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		c.logger.Info("stdout is not a terminal, printing summary")
		return c.newSummaryCmd().RunE(cmd, nil)
	}

	// The TUI owns the terminal; logs go to the configured file or nowhere.
	logger, closeLog, err := openLogFile(c.cfg.View.LogFile, logging.ParseLevel(c.cfg.View.LogLevel))
	if err != nil {
		return err
	}
	defer closeLog()

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = clampRefresh(c.cfg.View.Refresh.Duration)
	stateMgr := state.NewManager(stateCfg)

	layers, rejected := c.newLayers(logger)
	for _, e := range rejected {
		stateMgr.RecordLayer(e.Layer, false, e.Missing)
	}

	provider := c.newProvider(logger)
	refreshCh := make(chan struct{}, 1)

	model := ui.New(stateMgr, layers,
		ui.WithProviderName(provider.Name()),
		ui.WithRefresh(func() {
			select {
			case refreshCh <- struct{}{}:
			default:
			}
		}),
	)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	f := &fetcher{
		provider: provider,
		cfg:      c.cfg,
		state:    stateMgr,
		logger:   logger,
		send:     p.Send,
	}
	go f.loop(ctx, refreshCh)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

// clampRefresh keeps live mode between minRefresh and maxRefresh. Zero
// disables it.
func clampRefresh(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return min(max(d, minRefresh), maxRefresh)
}

// fetcher casts charts in the background and hands them to the UI.
type fetcher struct {
	provider ephem.Provider
	cfg      config.Config
	state    *state.Manager
	logger   *logging.Logger
	send     func(tea.Msg)
	now      func() time.Time
}

func (f *fetcher) loop(ctx context.Context, refresh <-chan struct{}) {
	// Do initial fetch immediately
	f.fetch(ctx)

	var tick <-chan time.Time
	if interval := f.state.RefreshInterval(); interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			f.logger.Debug("fetch loop shutting down")
			return
		case <-tick:
			f.fetch(ctx)
		case <-refresh:
			f.fetch(ctx)
		}
	}
}

func (f *fetcher) fetch(ctx context.Context) {
	now := time.Now()
	if f.now != nil {
		now = f.now()
	}
	req := f.cfg.Request(now)
	// Live mode always shows the sky at the current time.
	if f.state.RefreshInterval() > 0 {
		req.Time = now.UTC()
	}

	f.logger.Debug("casting chart for %s", req.Time.Format(time.RFC3339))
	start := time.Now()
	d, err := f.provider.Chart(ctx, req)
	dur := time.Since(start)

	if err != nil {
		f.logger.Error("cast chart: %v", err)
		f.state.Update(nil, dur, err)
		f.send(ui.ErrorMsg{Error: err})
		return
	}

	f.logger.Debug("chart %s: %d bodies, %d aspects in %v", d.ID, len(d.Bodies), len(d.Aspects), dur)
	f.state.Update(d, dur, nil)
	f.send(ui.DataUpdateMsg{Snapshot: f.state.Snapshot()})
}
