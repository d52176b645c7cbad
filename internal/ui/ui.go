// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-natal/internal/layer"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewWheel ViewMode = iota
	ViewPositions
)

const (
	panelWidth     = 46
	maxEventsShown = 12
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new chart is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a fetch error.
	ErrorMsg struct {
		Error error
	}
)

// Option configures the root model.
type Option func(*Model)

// WithRefresh sets the callback run when the user asks for a refetch.
func WithRefresh(fn func()) Option {
	return func(m *Model) {
		m.refresh = fn
	}
}

// WithProviderName sets the chart source shown in the footer.
func WithProviderName(name string) Option {
	return func(m *Model) {
		m.providerName = name
	}
}

// Model is the root Bubble Tea model.
//
// The layer manager is only touched from Update and View, which Bubble Tea
// runs on one goroutine.
type Model struct {
	// Dependencies
	state        *state.Manager
	layers       *layer.Manager
	refresh      func()
	providerName string

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string // layer rejections and other one-line notices
	animTick  int    // Animation tick for the spinner

	// Sub-models
	wheel WheelViewModel
	panel LayerPanelModel

	// Data snapshot (updated on DataUpdateMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, layers *layer.Manager, opts ...Option) Model {
	m := Model{
		state:    stateMgr,
		layers:   layers,
		viewMode: ViewWheel,
		wheel:    NewWheelViewModel(),
		panel:    NewLayerPanelModel(),
		snapshot: stateMgr.Snapshot(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.wheel = m.wheel.Sync(m.snapshot.Chart, m.layers)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "w":
			m.viewMode = ViewWheel
		case "2", "p":
			m.viewMode = ViewPositions

		case "tab":
			// Cycle through views
			m.viewMode = (m.viewMode + 1) % 2

		case "r":
			if m.refresh != nil {
				m.statusMsg = "Refreshing chart..."
				m.refresh()
			}

		default:
			if m.viewMode == ViewWheel {
				m = m.updateWheel(msg)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 13
		wheelWidth := max(msg.Width-panelWidth, 20)
		m.wheel = m.wheel.SetSize(wheelWidth, contentHeight)
		m.panel = m.panel.SetSize(panelWidth, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		// Request fresh snapshot
		m.snapshot = m.state.Snapshot()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m.snapshot = msg.Snapshot
		m.wheel = m.wheel.Sync(m.snapshot.Chart, m.layers)
		m.state.SetInteraction(m.wheel.Interaction(m.snapshot.Chart))
		if m.statusMsg == "Refreshing chart..." {
			m.statusMsg = ""
		}

	case ErrorMsg:
		m.statusMsg = "Fetch failed: " + msg.Error.Error()
	}

	return m, tea.Batch(cmds...)
}

// updateWheel routes keys to the layer panel and the body cursor. Their key
// sets do not overlap.
func (m Model) updateWheel(msg tea.KeyMsg) Model {
	var change *LayerChange
	m.panel, change = m.panel.Update(msg, m.layers)
	if change != nil {
		m.applyChange(*change)
	}

	m.wheel = m.wheel.Update(msg)
	m.state.SetInteraction(m.wheel.Interaction(m.snapshot.Chart))
	return m
}

// applyChange records a visibility change and sets the status line.
func (m *Model) applyChange(c LayerChange) {
	for _, id := range c.Enabled {
		m.state.RecordLayer(id, true, nil)
	}
	m.state.RecordLayer(c.Layer, c.Visible, c.Missing())

	switch {
	case len(c.Missing()) > 0:
		m.statusMsg = fmt.Sprintf("Cannot show %s: needs %s (press a to enable them too)",
			c.Layer, joinLayerIDs(c.Missing()))
	case c.Err != nil:
		m.statusMsg = "Layer error: " + c.Err.Error()
	case len(c.Enabled) > 0:
		m.statusMsg = fmt.Sprintf("Showing %s with %s", c.Layer, joinLayerIDs(c.Enabled))
	default:
		m.statusMsg = ""
	}

	// Body layers may have appeared or gone.
	m.wheel = m.wheel.Sync(m.snapshot.Chart, m.layers)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewWheel:
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			m.wheel.View(m.snapshot.Chart, m.layers),
			"  ",
			m.panel.View(m.layers),
		)
	case ViewPositions:
		content = renderPositions(m.snapshot, maxEventsShown)
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

var logo = []string{
	`  ██╗     ███████╗      ███╗   ██╗ █████╗ ████████╗ █████╗ ██╗`,
	`  ██║     ██╔════╝      ████╗  ██║██╔══██╗╚══██╔══╝██╔══██╗██║`,
	`  ██║     ███████╗█████╗██╔██╗ ██║███████║   ██║   ███████║██║`,
	`  ██║     ╚════██║╚════╝██║╚██╗██║██╔══██║   ██║   ██╔══██║██║`,
	`  ███████╗███████║      ██║ ╚████║██║  ██║   ██║   ██║  ██║███████╗`,
	`  ╚══════╝╚══════╝      ╚═╝  ╚═══╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚══════╝`,
}

// Logo gradient stops, left to right.
var logoStops = []string{"#3B82F6", "#8B5CF6", "#D946EF", "#EC4899"}

func (m Model) renderLogo() string {
	var b strings.Builder
	b.WriteString("\n")

	width := 0
	for _, line := range logo {
		width = max(width, len([]rune(line)))
	}

	// Render each line with a horizontal truecolor gradient
	for row, line := range logo {
		for col, r := range []rune(line) {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, row, width, len(logo))))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Natal Chart Wheel · v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// blend along the stops horizontally, darkening toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(max(width-1, 1))
	yRatio := float64(row) / float64(max(height, 1))

	segments := float64(len(logoStops) - 1)
	pos := xRatio * segments
	i := min(int(pos), len(logoStops)-2)

	from, _ := colorful.Hex(logoStops[i])
	to, _ := colorful.Hex(logoStops[i+1])
	c := from.BlendLuv(to, pos-float64(i)).Clamped()

	// Vertical fade: brighter at top, darker toward bottom
	black := colorful.Color{}
	return c.BlendRgb(black, yRatio*0.5).Clamped().Hex()
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Wheel", "[2] Positions"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.snapshot.Chart == nil:
		status = accentStyle.Render(spinner) + dimStyle.Render(" casting chart...")
	default:
		source := m.providerName
		if source == "" {
			source = "chart"
		}
		status = dimStyle.Render(source)
		if m.snapshot.FetchDuration > 0 {
			status += dimStyle.Render(" (" + m.snapshot.FetchDuration.Round(time.Millisecond).String() + ")")
		}
		if interval := m.state.RefreshInterval(); interval > 0 {
			countdown := time.Until(m.snapshot.LastFetch.Add(interval)).Round(time.Second)
			status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" live · refresh in %ds · ", int(max(countdown, 0).Seconds()))) + status
		}
	}

	var help string
	switch m.viewMode {
	case ViewWheel:
		help = dimStyle.Render("←/→: select body | j/k: layer | space: toggle | r: refresh | q: quit")
	default:
		help = dimStyle.Render("tab: switch view | r: refresh | q: quit")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + errorStyle.Render(m.statusMsg)
	}

	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}
