package layer

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/render"
)

// DrawFunc paints one layer for a render pass.
type DrawFunc func(ctx render.Context) render.Output

func noDraw(render.Context) render.Output { return render.Output{} }

// ErrMissingDependencies matches every *MissingDependenciesError.
var ErrMissingDependencies = errors.New("missing layer dependencies")

// MissingDependenciesError reports a rejected request to show a layer.
type MissingDependenciesError struct {
	Layer   ID
	Missing []ID // hidden direct dependencies, in declaration order
}

func (e *MissingDependenciesError) Error() string {
	return fmt.Sprintf("cannot show layer %q: requires hidden %s", e.Layer, joinIDs(e.Missing))
}

// Is lets errors.Is match ErrMissingDependencies.
func (e *MissingDependenciesError) Is(target error) bool {
	return target == ErrMissingDependencies
}

// Layer is a read-only copy of one layer's state.
type Layer struct {
	Config
	Visible     bool
	Opacity     float64
	Interactive bool
	Draw        DrawFunc
}

type state struct {
	config      Config
	visible     bool
	opacity     float64
	interactive bool
	draw        DrawFunc
}

func (s *state) snapshot() Layer {
	cfg := s.config
	cfg.Dependencies = slices.Clone(cfg.Dependencies)
	return Layer{
		Config:      cfg,
		Visible:     s.visible,
		Opacity:     s.opacity,
		Interactive: s.interactive,
		Draw:        s.draw,
	}
}

// Manager is the single source of truth for layer state in one chart view.
//
// Manager is not safe for concurrent use. All calls must come from the
// goroutine that owns the view, and draw functions must not call back into
// the manager during a render pass.
type Manager struct {
	order  []ID
	states map[ID]*state
	logger *logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets where rejection diagnostics are logged.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// NewManager creates state for every catalog entry: visibility from
// DefaultVisible, full opacity, interactive, and a no-op draw function.
// Later duplicates of an id are ignored.
func NewManager(catalog []Config, opts ...Option) *Manager {
	m := &Manager{
		order:  make([]ID, 0, len(catalog)),
		states: make(map[ID]*state, len(catalog)),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, c := range catalog {
		if _, dup := m.states[c.ID]; dup {
			continue
		}
		c.Dependencies = slices.Clone(c.Dependencies)
		m.order = append(m.order, c.ID)
		m.states[c.ID] = &state{
			config:      c,
			visible:     c.DefaultVisible,
			opacity:     1,
			interactive: true,
			draw:        noDraw,
		}
	}
	return m
}

// Len returns the number of layers.
func (m *Manager) Len() int {
	return len(m.order)
}

// SetDrawFunc replaces the draw function for id. Unknown ids are ignored so
// painters can be registered in any order. A nil fn restores the no-op.
func (m *Manager) SetDrawFunc(id ID, fn DrawFunc) {
	s, ok := m.states[id]
	if !ok {
		return
	}
	if fn == nil {
		fn = noDraw
	}
	s.draw = fn
}

// MissingDependencies returns the direct dependencies of id that are
// currently hidden. Dependencies on layers outside the catalog count as
// hidden. Returns nil for unknown ids.
func (m *Manager) MissingDependencies(id ID) []ID {
	s, ok := m.states[id]
	if !ok {
		return nil
	}
	var missing []ID
	for _, dep := range s.config.Dependencies {
		if ds, ok := m.states[dep]; !ok || !ds.visible {
			missing = append(missing, dep)
		}
	}
	return missing
}

// SetVisibility shows or hides a layer.
//
// Showing a layer whose direct dependencies are not all visible is rejected:
// state is left untouched, a warning is logged and a
// *MissingDependenciesError is returned. Hiding always succeeds and never
// hides dependents. Unknown ids are a no-op and return nil.
func (m *Manager) SetVisibility(id ID, visible bool) error {
	s, ok := m.states[id]
	if !ok {
		return nil
	}

	if visible {
		if missing := m.MissingDependencies(id); len(missing) > 0 {
			m.logger.Warn("layer %s not shown: missing dependencies %s", id, joinIDs(missing))
			return &MissingDependenciesError{Layer: id, Missing: missing}
		}
	}

	s.visible = visible
	return nil
}

// Toggle flips visibility through SetVisibility.
func (m *Manager) Toggle(id ID) error {
	s, ok := m.states[id]
	if !ok {
		return nil
	}
	return m.SetVisibility(id, !s.visible)
}

// SetOpacity sets a layer's opacity, clamped to [0, 1].
func (m *Manager) SetOpacity(id ID, opacity float64) {
	s, ok := m.states[id]
	if !ok {
		return
	}
	s.opacity = min(max(opacity, 0), 1)
}

// SetInteractive controls whether the layer receives hover and selection.
func (m *Manager) SetInteractive(id ID, interactive bool) {
	if s, ok := m.states[id]; ok {
		s.interactive = interactive
	}
}

// Layer returns a copy of one layer's state.
func (m *Manager) Layer(id ID) (Layer, bool) {
	s, ok := m.states[id]
	if !ok {
		return Layer{}, false
	}
	return s.snapshot(), true
}

// VisibleOrdered returns visible layers in paint order: ascending ZIndex,
// ties kept in catalog order.
func (m *Manager) VisibleOrdered() []Layer {
	return m.ordered(true)
}

// AllOrdered returns every layer in paint order regardless of visibility.
func (m *Manager) AllOrdered() []Layer {
	return m.ordered(false)
}

func (m *Manager) ordered(visibleOnly bool) []Layer {
	out := make([]Layer, 0, len(m.order))
	for _, id := range m.order {
		s := m.states[id]
		if visibleOnly && !s.visible {
			continue
		}
		out = append(out, s.snapshot())
	}
	slices.SortStableFunc(out, func(a, b Layer) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
	return out
}

func joinIDs(ids []ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
