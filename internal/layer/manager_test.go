package layer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-natal/internal/logging"
	"github.com/litescript/ls-natal/internal/render"
)

func ids(layers []Layer) []ID {
	out := make([]ID, len(layers))
	for i, l := range layers {
		out[i] = l.ID
	}
	return out
}

func TestDefaultCatalogIsValid(t *testing.T) {
	require.NoError(t, ValidateCatalog(DefaultCatalog()))
	assert.Len(t, DefaultCatalog(), 11)
}

func TestDefaultCatalogIsCopy(t *testing.T) {
	a := DefaultCatalog()
	a[3].Dependencies[0] = Zodiac
	a[0].Name = "changed"

	b := DefaultCatalog()
	assert.Equal(t, Planets, b[3].Dependencies[0])
	assert.Equal(t, "Zodiac Ring", b[0].Name)
}

func TestValidateCatalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog []Config
	}{
		{"duplicate", []Config{{ID: Zodiac}, {ID: Zodiac}}},
		{"self dependency", []Config{{ID: Zodiac, Dependencies: []ID{Zodiac}}}},
		{"unknown dependency", []Config{{ID: Labels, Dependencies: []ID{Planets}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalog(tt.catalog)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(DefaultCatalog())

	for _, c := range DefaultCatalog() {
		l, ok := m.Layer(c.ID)
		require.True(t, ok, c.ID)
		assert.Equal(t, c.DefaultVisible, l.Visible, c.ID)
		assert.Equal(t, 1.0, l.Opacity, c.ID)
		assert.True(t, l.Interactive, c.ID)
		require.NotNil(t, l.Draw)
		assert.True(t, l.Draw(render.Context{}).Empty(), "default draw must be a no-op")
	}
}

func TestNewManager_IgnoresDuplicates(t *testing.T) {
	m := NewManager([]Config{
		{ID: Zodiac, Name: "first", ZIndex: 1},
		{ID: Zodiac, Name: "second", ZIndex: 9},
	})
	assert.Equal(t, 1, m.Len())
	l, _ := m.Layer(Zodiac)
	assert.Equal(t, "first", l.Name)
}

func TestSetVisibility_EnableRequiresDependencies(t *testing.T) {
	m := NewManager(DefaultCatalog())

	require.NoError(t, m.SetVisibility(Planets, false))
	require.NoError(t, m.SetVisibility(Labels, false))

	err := m.SetVisibility(Labels, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDependencies))

	var mde *MissingDependenciesError
	require.ErrorAs(t, err, &mde)
	assert.Equal(t, Labels, mde.Layer)
	assert.Equal(t, []ID{Planets}, mde.Missing)
	assert.Contains(t, err.Error(), "planets")

	l, _ := m.Layer(Labels)
	assert.False(t, l.Visible, "rejected enable must leave state unchanged")
}

func TestSetVisibility_MissingSetIsExact(t *testing.T) {
	catalog := []Config{
		{ID: "a", ZIndex: 1, DefaultVisible: false},
		{ID: "b", ZIndex: 2, DefaultVisible: true},
		{ID: "c", ZIndex: 3, DefaultVisible: false},
		{ID: "d", ZIndex: 4, Dependencies: []ID{"a", "b", "c"}},
	}
	m := NewManager(catalog)

	var mde *MissingDependenciesError
	require.ErrorAs(t, m.SetVisibility("d", true), &mde)
	assert.Equal(t, []ID{"a", "c"}, mde.Missing)
	assert.Equal(t, []ID{"a", "c"}, m.MissingDependencies("d"))

	require.NoError(t, m.SetVisibility("a", true))
	require.NoError(t, m.SetVisibility("c", true))
	assert.Empty(t, m.MissingDependencies("d"))
	require.NoError(t, m.SetVisibility("d", true))
}

func TestSetVisibility_RejectionIsLogged(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(DefaultCatalog(), WithLogger(logging.NewWithWriter(&buf, logging.LevelWarn)))

	require.NoError(t, m.SetVisibility(Zodiac, false))
	require.Error(t, m.SetVisibility(FixedStars, true))

	assert.Contains(t, buf.String(), "fixedStars")
	assert.Contains(t, buf.String(), "zodiac")
}

func TestSetVisibility_EnableThenLabelsOrdersPlanetsFirst(t *testing.T) {
	m := NewManager(DefaultCatalog())
	require.NoError(t, m.SetVisibility(Planets, false))
	require.NoError(t, m.SetVisibility(Labels, false))

	require.NoError(t, m.SetVisibility(Planets, true))
	require.NoError(t, m.SetVisibility(Labels, true))

	order := ids(m.VisibleOrdered())
	assert.Less(t, indexOf(order, Planets), indexOf(order, Labels))
}

func TestSetVisibility_HideDoesNotCascade(t *testing.T) {
	m := NewManager(DefaultCatalog())

	require.NoError(t, m.SetVisibility(Planets, false))

	planets, _ := m.Layer(Planets)
	aspects, _ := m.Layer(Aspects)
	assert.False(t, planets.Visible)
	assert.True(t, aspects.Visible, "hiding a dependency must not hide dependents")
}

func TestSetVisibility_HideAlwaysSucceeds(t *testing.T) {
	m := NewManager(DefaultCatalog())
	for _, c := range DefaultCatalog() {
		assert.NoError(t, m.SetVisibility(c.ID, false), c.ID)
	}
	assert.Empty(t, m.VisibleOrdered())
}

func TestSetVisibility_DirectDependenciesOnly(t *testing.T) {
	catalog := []Config{
		{ID: "c", ZIndex: 1, DefaultVisible: true},
		{ID: "b", ZIndex: 2, DefaultVisible: true, Dependencies: []ID{"c"}},
		{ID: "a", ZIndex: 3, DefaultVisible: false, Dependencies: []ID{"b"}},
	}
	m := NewManager(catalog)

	require.NoError(t, m.SetVisibility("c", false))
	// b is still visible, so a can be shown although its chain is broken.
	require.NoError(t, m.SetVisibility("a", true))
	assert.Equal(t, []ID{"b", "a"}, ids(m.VisibleOrdered()))
}

func TestToggle(t *testing.T) {
	m := NewManager(DefaultCatalog())

	require.NoError(t, m.Toggle(Degrees))
	l, _ := m.Layer(Degrees)
	assert.True(t, l.Visible)

	require.NoError(t, m.Toggle(Degrees))
	l, _ = m.Layer(Degrees)
	assert.False(t, l.Visible)

	require.NoError(t, m.SetVisibility(Zodiac, false))
	assert.ErrorIs(t, m.Toggle(Degrees), ErrMissingDependencies)
	assert.NoError(t, m.Toggle("not-a-layer"))
}

func TestUnknownLayer(t *testing.T) {
	m := NewManager(DefaultCatalog())
	before := m.AllOrdered()

	assert.NoError(t, m.SetVisibility("not-a-layer", true))
	m.SetDrawFunc("not-a-layer", func(render.Context) render.Output {
		t.Fatal("should never be called")
		return render.Output{}
	})
	m.SetOpacity("not-a-layer", 0.1)
	m.SetInteractive("not-a-layer", false)

	_, ok := m.Layer("not-a-layer")
	assert.False(t, ok)
	assert.Nil(t, m.MissingDependencies("not-a-layer"))

	after := m.AllOrdered()
	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].Config, after[i].Config)
		assert.Equal(t, before[i].Visible, after[i].Visible)
		assert.Equal(t, before[i].Opacity, after[i].Opacity)
		assert.Equal(t, before[i].Interactive, after[i].Interactive)
	}
}

func TestSetDrawFunc(t *testing.T) {
	m := NewManager(DefaultCatalog())

	calls := 0
	m.SetDrawFunc(Planets, func(ctx render.Context) render.Output {
		calls++
		var out render.Output
		out.Glyph(ctx.Geometry.Center, "☉", "#ffd700", "body:sun")
		return out
	})

	l, _ := m.Layer(Planets)
	out := l.Draw(render.Context{Geometry: render.NewGeometry(100)})
	assert.Equal(t, 1, calls)
	assert.Len(t, out.Marks, 1)

	m.SetDrawFunc(Planets, nil)
	l, _ = m.Layer(Planets)
	assert.True(t, l.Draw(render.Context{}).Empty())
}

func TestSetOpacityClamps(t *testing.T) {
	m := NewManager(DefaultCatalog())

	m.SetOpacity(Aspects, 0.4)
	l, _ := m.Layer(Aspects)
	assert.Equal(t, 0.4, l.Opacity)

	m.SetOpacity(Aspects, 3)
	l, _ = m.Layer(Aspects)
	assert.Equal(t, 1.0, l.Opacity)

	m.SetOpacity(Aspects, -1)
	l, _ = m.Layer(Aspects)
	assert.Equal(t, 0.0, l.Opacity)
}

func TestSetInteractive(t *testing.T) {
	m := NewManager(DefaultCatalog())
	m.SetInteractive(Planets, false)
	l, _ := m.Layer(Planets)
	assert.False(t, l.Interactive)
}

func TestVisibleOrdered(t *testing.T) {
	m := NewManager(DefaultCatalog())

	got := ids(m.VisibleOrdered())
	assert.Equal(t, []ID{Zodiac, Houses, Aspects, Planets, Labels}, got)

	// Idempotent read.
	assert.Equal(t, got, ids(m.VisibleOrdered()))

	for _, l := range m.VisibleOrdered() {
		assert.True(t, l.Visible)
	}
}

func TestAllOrdered_StableTies(t *testing.T) {
	m := NewManager(DefaultCatalog())

	all := m.AllOrdered()
	require.Len(t, all, 11)

	assert.Equal(t, []ID{
		Zodiac,
		Houses,
		Degrees, FixedStars, // z 3, catalog order
		Aspects,
		Planets, Nodes, Chiron, Asteroids, ArabicParts, // z 5, catalog order
		Labels,
	}, ids(all))

	seen := make(map[ID]bool)
	for i, l := range all {
		assert.False(t, seen[l.ID], "duplicate %s", l.ID)
		seen[l.ID] = true
		if i > 0 {
			assert.LessOrEqual(t, all[i-1].ZIndex, l.ZIndex)
		}
	}
}

func TestLayerReturnsCopy(t *testing.T) {
	m := NewManager(DefaultCatalog())

	l, _ := m.Layer(Aspects)
	l.Visible = false
	l.Dependencies[0] = Zodiac

	fresh, _ := m.Layer(Aspects)
	assert.True(t, fresh.Visible)
	assert.Equal(t, []ID{Planets}, fresh.Dependencies)
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("ArabicParts")
	assert.True(t, ok)
	assert.Equal(t, ArabicParts, id)

	_, ok = ParseID("moons")
	assert.False(t, ok)
}

func indexOf(list []ID, id ID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}
