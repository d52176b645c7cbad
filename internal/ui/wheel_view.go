package ui

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/layer"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/wheel"
)

const (
	// Wheel space is fixed; the canvas scales it to the terminal.
	wheelSize = 100.0

	colorSelection = "229" // bright gold
	colorAccent    = "#d0c8ff"
)

// WheelViewModel renders the chart wheel and tracks the body cursor.
type WheelViewModel struct {
	width  int
	height int

	// Selection cycles over the bodies of visible body layers.
	selectable []string
	cursor     int // -1 when nothing is selected
}

// NewWheelViewModel creates a wheel view with nothing selected.
func NewWheelViewModel() WheelViewModel {
	return WheelViewModel{cursor: -1}
}

// SetSize updates the viewport size.
func (m WheelViewModel) SetSize(width, height int) WheelViewModel {
	m.width = width
	m.height = height
	return m
}

// Sync rebuilds the selectable bodies for the chart and the currently visible
// layers, keeping the selection when the body is still selectable.
func (m WheelViewModel) Sync(d *chart.Data, mgr *layer.Manager) WheelViewModel {
	selected := m.Selected()

	var kinds []chart.BodyKind
	for _, l := range mgr.VisibleOrdered() {
		if kind, ok := wheel.LayerKinds[l.ID]; ok {
			kinds = append(kinds, kind)
		}
	}
	m.selectable = wheel.Selectable(d, kinds...)
	m.cursor = slices.Index(m.selectable, selected)
	return m
}

// Selected returns the selected element id, or "".
func (m WheelViewModel) Selected() string {
	if m.cursor < 0 || m.cursor >= len(m.selectable) {
		return ""
	}
	return m.selectable[m.cursor]
}

// Interaction builds the interaction snapshot for a render pass.
func (m WheelViewModel) Interaction(d *chart.Data) render.Interaction {
	selected := m.Selected()
	return render.Interaction{
		Selected:    selected,
		Highlighted: wheel.Highlights(d, selected),
	}
}

// Update handles selection keys.
func (m WheelViewModel) Update(msg tea.KeyMsg) WheelViewModel {
	n := len(m.selectable)
	if n == 0 {
		return m
	}
	switch msg.String() {
	case "right", "l":
		m.cursor = (m.cursor + 1) % n
	case "left", "h":
		if m.cursor <= 0 {
			m.cursor = n - 1
		} else {
			m.cursor--
		}
	case "esc":
		m.cursor = -1
	}
	return m
}

// View renders the wheel for the chart and layers.
func (m WheelViewModel) View(d *chart.Data, mgr *layer.Manager) string {
	if m.width < 20 || m.height < 10 {
		return "Wheel view requires larger terminal"
	}
	if d == nil {
		return "No chart loaded"
	}

	// Reserve lines for the selection status
	viewHeight := m.height - 3
	ctx := render.Context{
		Chart:       d,
		Geometry:    render.NewGeometry(wheelSize),
		Interaction: m.Interaction(d),
	}
	canvas := render.NewCanvas(m.width, viewHeight, ctx.Geometry)
	canvas.Paint(wheel.Compose(mgr, ctx))

	return canvas.String() + "\n" + m.renderStatus(d)
}

// renderStatus describes the selected body and its aspects.
func (m WheelViewModel) renderStatus(d *chart.Data) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	selected := m.Selected()
	bodyID, ok := wheel.BodyIDFromElement(selected)
	if !ok {
		return dimStyle.Render(fmt.Sprintf("%d bodies · ←/→ select", len(m.selectable)))
	}

	b, ok := d.Body(bodyID)
	if !ok {
		for _, p := range chart.Parts(d) {
			if p.ID == bodyID {
				b, ok = p, true
			}
		}
	}
	if !ok {
		return ""
	}

	line := fmt.Sprintf(">>> %s %s  %s", wheel.Glyph(b.ID), b.Name, chart.FormatLongitude(b.Longitude))
	if h := d.HouseOf(b.Longitude); h > 0 {
		line += fmt.Sprintf("  H%d", h)
	}
	if b.Retrograde() {
		line += "  ℞"
	}
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSelection))
	status := accentStyle.Render(line)

	var aspects []string
	for _, a := range d.Aspects {
		if !a.Involves(bodyID) {
			continue
		}
		other := a.To
		if other == bodyID {
			other = a.From
		}
		aspects = append(aspects, fmt.Sprintf("%s %s %.1f°", a.Kind, wheel.Glyph(other), a.Orb))
	}
	if len(aspects) > 0 {
		status += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Render("    "+strings.Join(aspects, " · "))
	}
	return status
}
