package config

import (
	"errors"

	"github.com/litescript/ls-natal/internal/layer"
)

// Apply applies the overrides to m. Hides run before shows, and shows run in
// file order through the dependency guard, so a show listed before its
// dependency is rejected. Rejected shows are returned; the remaining
// overrides are still applied.
func (l Layers) Apply(m *layer.Manager) []*layer.MissingDependenciesError {
	for _, name := range l.Hide {
		if id, ok := layer.ParseID(name); ok {
			_ = m.SetVisibility(id, false) // hiding never fails
		}
	}

	var rejected []*layer.MissingDependenciesError
	for _, name := range l.Show {
		id, ok := layer.ParseID(name)
		if !ok {
			continue
		}
		var mde *layer.MissingDependenciesError
		if err := m.SetVisibility(id, true); errors.As(err, &mde) {
			rejected = append(rejected, mde)
		}
	}

	for name, v := range l.Opacity {
		if id, ok := layer.ParseID(name); ok {
			m.SetOpacity(id, v)
		}
	}
	return rejected
}

// ApplyLayers applies the [layers] section to m.
func (c Config) ApplyLayers(m *layer.Manager) []*layer.MissingDependenciesError {
	return c.Layers.Apply(m)
}
