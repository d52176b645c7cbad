package ui

import (
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/layer"
	"github.com/litescript/ls-natal/internal/wheel"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testChart() *chart.Data {
	d := &chart.Data{
		ID:          "ui-test",
		Name:        "Test Chart",
		Time:        time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
		HouseSystem: chart.HouseEqual,
		Angles:      chart.Angles{Ascendant: 0, Midheaven: 270},
		Bodies: []chart.Body{
			{ID: "sun", Name: "Sun", Kind: chart.KindPlanet, Longitude: 10, Speed: 1},
			{ID: "moon", Name: "Moon", Kind: chart.KindPlanet, Longitude: 130, Speed: 13},
			{ID: "mars", Name: "Mars", Kind: chart.KindPlanet, Longitude: 100.5, Speed: -0.2},
			{ID: "north_node", Name: "North Node", Kind: chart.KindNode, Longitude: 50, Speed: -0.05},
		},
	}
	for i := range d.Cusps {
		d.Cusps[i] = float64(i * 30)
	}
	d.Aspects = chart.FindAspects(d.BodiesOfKind(chart.KindPlanet), chart.DefaultAspects())
	return d
}

func TestWheelView_SyncFollowsVisibleLayers(t *testing.T) {
	d := testChart()
	mgr := layer.NewManager(layer.DefaultCatalog())

	w := NewWheelViewModel().Sync(d, mgr)
	want := []string{"body:sun", "body:mars", "body:moon"}
	if !slices.Equal(w.selectable, want) {
		t.Errorf("selectable = %v, want %v", w.selectable, want)
	}

	if err := mgr.SetVisibility(layer.Nodes, true); err != nil {
		t.Fatal(err)
	}
	w = w.Sync(d, mgr)
	if !slices.Contains(w.selectable, "body:north_node") {
		t.Error("nodes should be selectable once the layer is visible")
	}
}

func TestWheelView_Selection(t *testing.T) {
	d := testChart()
	mgr := layer.NewManager(layer.DefaultCatalog())
	w := NewWheelViewModel().Sync(d, mgr)

	if w.Selected() != "" {
		t.Fatalf("Selected = %q, want none", w.Selected())
	}

	w = w.Update(key("right"))
	if got := w.Selected(); got != "body:sun" {
		t.Errorf("right: Selected = %q, want body:sun", got)
	}
	w = w.Update(key("l"))
	if got := w.Selected(); got != "body:mars" {
		t.Errorf("l: Selected = %q, want body:mars", got)
	}
	w = w.Update(key("h"))
	w = w.Update(key("left"))
	if got := w.Selected(); got != "body:moon" {
		t.Errorf("left wrap: Selected = %q, want body:moon", got)
	}
	w = w.Update(key("esc"))
	if got := w.Selected(); got != "" {
		t.Errorf("esc: Selected = %q, want none", got)
	}
}

func TestWheelView_SyncKeepsOrDropsSelection(t *testing.T) {
	d := testChart()
	mgr := layer.NewManager(layer.DefaultCatalog())
	w := NewWheelViewModel().Sync(d, mgr)
	w = w.Update(key("right"))
	w = w.Update(key("right")) // mars

	if err := mgr.SetVisibility(layer.Nodes, true); err != nil {
		t.Fatal(err)
	}
	w = w.Sync(d, mgr)
	if got := w.Selected(); got != "body:mars" {
		t.Errorf("Selected = %q, want body:mars kept", got)
	}

	if err := mgr.SetVisibility(layer.Planets, false); err != nil {
		t.Fatal(err)
	}
	w = w.Sync(d, mgr)
	if got := w.Selected(); got != "" {
		t.Errorf("Selected = %q, want none after planets hidden", got)
	}
}

func TestWheelView_Interaction(t *testing.T) {
	d := testChart()
	mgr := layer.NewManager(layer.DefaultCatalog())
	w := NewWheelViewModel().Sync(d, mgr)

	if i := w.Interaction(d); i.Selected != "" || len(i.Highlighted) != 0 {
		t.Errorf("Interaction = %+v, want empty", i)
	}

	w = w.Update(key("right"))
	i := w.Interaction(d)
	if i.Selected != "body:sun" {
		t.Errorf("Selected = %q", i.Selected)
	}
	if !slices.Equal(i.Highlighted, wheel.Highlights(d, "body:sun")) {
		t.Errorf("Highlighted = %v", i.Highlighted)
	}
	if len(i.Highlighted) == 0 {
		t.Error("sun square mars should be highlighted")
	}
}

func TestWheelView_View(t *testing.T) {
	d := testChart()
	mgr := layer.NewManager(layer.DefaultCatalog())
	wheel.Register(mgr)

	small := NewWheelViewModel().SetSize(10, 5)
	if got := small.View(d, mgr); !strings.Contains(got, "larger terminal") {
		t.Errorf("small view = %q", got)
	}

	w := NewWheelViewModel().SetSize(80, 30).Sync(d, mgr)
	if got := w.View(nil, mgr); got != "No chart loaded" {
		t.Errorf("nil chart view = %q", got)
	}

	if got := w.View(d, mgr); !strings.Contains(got, "←/→ select") {
		t.Error("unselected view should show the selection hint")
	}

	w = w.Update(key("l"))
	view := w.View(d, mgr)
	for _, want := range []string{">>>", "Sun", "H1"} {
		if !strings.Contains(view, want) {
			t.Errorf("selected view missing %q", want)
		}
	}
}
