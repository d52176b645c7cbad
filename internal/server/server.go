// Package server exposes the layer catalog and rendered chart wheels over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/layer"
	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/wheel"
)

const (
	// DefaultSVGSize is the width and height of /chart.svg in pixels.
	DefaultSVGSize = 600.0

	// RejectedHeader lists show requests refused by the dependency guard,
	// as "layer:dep+dep" entries separated by commas.
	RejectedHeader = "X-Layer-Rejected"

	requestTimeout = 30 * time.Second
)

// Server serves one configured chart. Every request builds its own layer
// manager, so requests never share visibility state.
type Server struct {
	provider ephem.Provider
	cfg      config.Config
	painter  *wheel.Painter
	logger   *logging.Logger
	now      func() time.Time
	svgSize  float64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithPainter sets the painter used for /chart.svg.
func WithPainter(p *wheel.Painter) Option {
	return func(s *Server) {
		s.painter = p
	}
}

// WithClock overrides time.Now for charts without a fixed birth time.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithSVGSize sets the rendered SVG size.
func WithSVGSize(size float64) Option {
	return func(s *Server) {
		if size > 0 {
			s.svgSize = size
		}
	}
}

// New creates a server for the chart described by cfg.
func New(provider ephem.Provider, cfg config.Config, opts ...Option) *Server {
	s := &Server{
		provider: provider,
		cfg:      cfg,
		painter:  wheel.NewPainter(),
		logger:   logging.Discard(),
		now:      time.Now,
		svgSize:  DefaultSVGSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	r.Get("/layers", s.handleLayers)
	r.Get("/chart.json", s.handleChartJSON)
	r.Get("/chart.svg", s.handleChartSVG)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("%s %s %d %v [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
	})
}

// LayerInfo is one entry of GET /layers.
type LayerInfo struct {
	ID           layer.ID       `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Category     layer.Category `json:"category"`
	ZIndex       int            `json:"zIndex"`
	Visible      bool           `json:"visible"`
	Opacity      float64        `json:"opacity"`
	Interactive  bool           `json:"interactive"`
	Dependencies []layer.ID     `json:"dependencies"`
	Missing      []layer.ID     `json:"missing,omitempty"`
}

// newManager builds a manager with the configured layer overrides and then
// the request's show and hide lists applied.
func (s *Server) newManager(r *http.Request) (*layer.Manager, []*layer.MissingDependenciesError, error) {
	overrides, err := queryLayers(r)
	if err != nil {
		return nil, nil, err
	}

	m := layer.NewManager(layer.DefaultCatalog(), layer.WithLogger(s.logger))
	s.painter.Register(m)
	rejected := s.cfg.ApplyLayers(m)
	rejected = append(rejected, overrides.Apply(m)...)
	return m, rejected, nil
}

// queryLayers reads comma-separated show and hide parameters.
func queryLayers(r *http.Request) (config.Layers, error) {
	var l config.Layers
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *[]string
	}{{"show", &l.Show}, {"hide", &l.Hide}} {
		for _, v := range q[p.key] {
			for name := range strings.SplitSeq(v, ",") {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				if _, ok := layer.ParseID(name); !ok {
					return l, fmt.Errorf("unknown layer %q", name)
				}
				*p.dst = append(*p.dst, name)
			}
		}
	}
	return l, nil
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	m, rejected, err := s.newManager(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	setRejected(w, rejected)

	all := m.AllOrdered()
	out := make([]LayerInfo, 0, len(all))
	for _, l := range all {
		deps := l.Dependencies
		if deps == nil {
			deps = []layer.ID{}
		}
		out = append(out, LayerInfo{
			ID:           l.ID,
			Name:         l.Name,
			Description:  l.Description,
			Category:     l.Category,
			ZIndex:       l.ZIndex,
			Visible:      l.Visible,
			Opacity:      l.Opacity,
			Interactive:  l.Interactive,
			Dependencies: deps,
			Missing:      m.MissingDependencies(l.ID),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleChartJSON(w http.ResponseWriter, r *http.Request) {
	d, err := s.provider.Chart(r.Context(), s.cfg.Request(s.now()))
	if err != nil {
		s.chartError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := d.WriteJSON(w); err != nil {
		s.logger.Error("write chart JSON: %v", err)
	}
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	m, rejected, err := s.newManager(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	d, err := s.provider.Chart(r.Context(), s.cfg.Request(s.now()))
	if err != nil {
		s.chartError(w, err)
		return
	}

	ctx := render.Context{Chart: d, Geometry: render.NewGeometry(s.svgSize)}
	setRejected(w, rejected)
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.WriteSVG(w, ctx.Geometry, wheel.Compose(m, ctx)); err != nil {
		s.logger.Error("write chart SVG: %v", err)
	}
}

func (s *Server) chartError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ephem.ErrUnavailable) {
		status = http.StatusServiceUnavailable
	}
	s.logger.Warn("chart: %v", err)
	http.Error(w, err.Error(), status)
}

func setRejected(w http.ResponseWriter, rejected []*layer.MissingDependenciesError) {
	if len(rejected) == 0 {
		return
	}
	parts := make([]string, len(rejected))
	for i, e := range rejected {
		deps := make([]string, len(e.Missing))
		for j, id := range e.Missing {
			deps[j] = string(id)
		}
		parts[i] = string(e.Layer) + ":" + strings.Join(deps, "+")
	}
	w.Header().Set(RejectedHeader, strings.Join(parts, ","))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
