package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/layer"
)

// Layer panel colors
const (
	colorLayerOn       = "#7CFC00" // visible
	colorLayerOff      = "#444444" // hidden
	colorLayerBlocked  = "#FF6347" // hidden with missing dependencies
	colorLayerCursor   = "229"
	colorLayerCategory = "135"
)

const opacityStep = 0.1

// LayerChange reports what a panel action did, so the root model can log it
// and show a status line.
type LayerChange struct {
	Layer   layer.ID
	Visible bool
	Enabled []layer.ID // dependencies switched on first by EnableWithDependencies
	Err     error
}

// Missing returns the rejected dependencies, or nil.
func (c LayerChange) Missing() []layer.ID {
	var mde *layer.MissingDependenciesError
	if errors.As(c.Err, &mde) {
		return mde.Missing
	}
	return nil
}

// LayerPanelModel lists every layer grouped by category, paint order within
// each group, with a cursor.
type LayerPanelModel struct {
	width  int
	height int
	cursor int
}

// NewLayerPanelModel creates an empty panel.
func NewLayerPanelModel() LayerPanelModel {
	return LayerPanelModel{}
}

// SetSize updates the panel size.
func (m LayerPanelModel) SetSize(width, height int) LayerPanelModel {
	m.width = width
	m.height = height
	return m
}

// Cursor returns the id under the cursor.
func (m LayerPanelModel) Cursor(mgr *layer.Manager) layer.ID {
	rows := panelRows(mgr)
	if len(rows) == 0 {
		return ""
	}
	return rows[min(m.cursor, len(rows)-1)].ID
}

var categoryOrder = []layer.Category{layer.CategoryCore, layer.CategoryAdditional, layer.CategoryAdvanced}

// panelRows orders layers by category, then paint order. Categories outside
// categoryOrder follow in the order they first appear.
func panelRows(mgr *layer.Manager) []layer.Layer {
	all := mgr.AllOrdered()
	cats := slices.Clone(categoryOrder)
	for _, l := range all {
		if !slices.Contains(cats, l.Category) {
			cats = append(cats, l.Category)
		}
	}

	rows := make([]layer.Layer, 0, len(all))
	for _, c := range cats {
		for _, l := range all {
			if l.Category == c {
				rows = append(rows, l)
			}
		}
	}
	return rows
}

// Update handles panel keys. The change is nil for keys that do not touch
// layer state.
func (m LayerPanelModel) Update(msg tea.KeyMsg, mgr *layer.Manager) (LayerPanelModel, *LayerChange) {
	n := mgr.Len()
	if n == 0 {
		return m, nil
	}
	id := m.Cursor(mgr)

	switch msg.String() {
	case "up", "k":
		m.cursor = (m.cursor - 1 + n) % n
	case "down", "j":
		m.cursor = (m.cursor + 1) % n
	case " ", "enter":
		err := mgr.Toggle(id)
		l, _ := mgr.Layer(id)
		return m, &LayerChange{Layer: id, Visible: l.Visible, Err: err}
	case "a":
		enabled, err := EnableWithDependencies(mgr, id)
		return m, &LayerChange{Layer: id, Visible: err == nil, Enabled: enabled, Err: err}
	case "+", "=":
		l, _ := mgr.Layer(id)
		mgr.SetOpacity(id, l.Opacity+opacityStep)
	case "-":
		l, _ := mgr.Layer(id)
		mgr.SetOpacity(id, l.Opacity-opacityStep)
	case "i":
		l, _ := mgr.Layer(id)
		mgr.SetInteractive(id, !l.Interactive)
	}
	return m, nil
}

// EnableWithDependencies shows id after first showing, depth first, every
// hidden layer it depends on. The manager still enforces the dependency rule
// for each step; this is only a convenience for the user. Layers switched on
// along the way are returned in the order they were shown.
func EnableWithDependencies(mgr *layer.Manager, id layer.ID) ([]layer.ID, error) {
	var enabled []layer.ID
	visiting := make(map[layer.ID]bool)

	var enable func(id layer.ID) error
	enable = func(id layer.ID) error {
		if visiting[id] {
			return fmt.Errorf("dependency cycle at layer %q", id)
		}
		visiting[id] = true
		defer delete(visiting, id)

		for _, dep := range mgr.MissingDependencies(id) {
			if _, ok := mgr.Layer(dep); !ok {
				return fmt.Errorf("layer %q depends on unknown layer %q", id, dep)
			}
			if err := enable(dep); err != nil {
				return err
			}
		}
		l, ok := mgr.Layer(id)
		if !ok || l.Visible {
			return nil
		}
		if err := mgr.SetVisibility(id, true); err != nil {
			return err
		}
		enabled = append(enabled, id)
		return nil
	}

	err := enable(id)
	// The requested layer itself is reported through LayerChange.Layer.
	if n := len(enabled); n > 0 && enabled[n-1] == id {
		enabled = enabled[:n-1]
	}
	return enabled, err
}

// View renders the panel.
//
//	▶ ● Zodiac Ring        z1  100%
//	  ○ Degree Markers     z3   needs zodiac
func (m LayerPanelModel) View(mgr *layer.Manager) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	catStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLayerCategory))

	rows := panelRows(mgr)
	cursor := min(m.cursor, len(rows)-1)

	var lines []string
	cursorLine := 0
	var lastCat layer.Category
	for i, l := range rows {
		if i == 0 || l.Category != lastCat {
			lines = append(lines, catStyle.Render(strings.ToUpper(string(l.Category))))
			lastCat = l.Category
		}
		if i == cursor {
			cursorLine = len(lines)
		}
		lines = append(lines, m.renderRow(mgr, l, i == cursor))
	}

	// Title and key hint take two lines; scroll the rest to keep the cursor in view.
	if avail := m.height - 2; m.height > 0 && len(lines) > avail {
		avail = max(avail, 1)
		start := min(max(cursorLine-avail/2, 0), len(lines)-avail)
		lines = lines[start : start+avail]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Layers"))
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("space: toggle  a: with deps  +/-: opacity  i: interactive"))
	return b.String()
}

func (m LayerPanelModel) renderRow(mgr *layer.Manager, l layer.Layer, focused bool) string {
	mark, color := "○", colorLayerOff
	missing := mgr.MissingDependencies(l.ID)
	switch {
	case l.Visible:
		mark, color = "●", colorLayerOn
	case len(missing) > 0:
		color = colorLayerBlocked
	}

	prefix := "  "
	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	if focused {
		prefix = "▶ "
		nameStyle = nameStyle.Foreground(lipgloss.Color(colorLayerCursor)).Bold(true)
	}

	markStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	detail := fmt.Sprintf("%3.0f%%", l.Opacity*100)
	if !l.Visible && len(missing) > 0 {
		detail = "needs " + joinLayerIDs(missing)
	}
	if !l.Interactive {
		detail += " static"
	}

	return prefix + markStyle.Render(mark) + " " +
		nameStyle.Render(fmt.Sprintf("%-16s", l.Name)) +
		dimStyle.Render(fmt.Sprintf(" z%d  %s", l.ZIndex, detail))
}

func joinLayerIDs(ids []layer.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
