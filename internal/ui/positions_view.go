package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/state"
)

// renderPositions shows the positions table and the recent activity log.
func renderPositions(snap state.Snapshot, maxEvents int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var b strings.Builder
	if snap.Chart == nil {
		b.WriteString(dimStyle.Render("No chart loaded"))
	} else {
		b.WriteString(titleStyle.Render("Positions"))
		b.WriteString("\n")
		chart.WriteSummary(&b, snap.Chart)
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Activity"))
	b.WriteString("\n")
	events := snap.Events
	if len(events) > maxEvents {
		events = events[len(events)-maxEvents:]
	}
	if len(events) == 0 {
		b.WriteString(dimStyle.Render("  none"))
	}
	for _, e := range events {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(e.Timestamp.Format("15:04:05")))
		b.WriteString("  ")
		b.WriteString(eventStyle(e.Type).Render(describeEvent(e)))
		b.WriteString("\n")
	}
	return b.String()
}

func eventStyle(t state.EventType) lipgloss.Style {
	color := "252"
	switch t {
	case state.EventLayerRejected:
		color = "#E84A27"
	case state.EventIngress, state.EventStation:
		color = "229"
	case state.EventLayerShown:
		color = colorLayerOn
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// describeEvent formats an event for the activity log and status line.
func describeEvent(e state.Event) string {
	switch e.Type {
	case state.EventChartLoaded:
		return "chart loaded " + e.Detail
	case state.EventIngress:
		return fmt.Sprintf("%s enters %s (from %s)", e.Body, e.NewSign, e.OldSign)
	case state.EventStation:
		return fmt.Sprintf("%s stations %s", e.Body, e.Detail)
	case state.EventLayerShown:
		return fmt.Sprintf("layer %s shown", e.Layer)
	case state.EventLayerHidden:
		return fmt.Sprintf("layer %s hidden", e.Layer)
	case state.EventLayerRejected:
		return fmt.Sprintf("layer %s needs %s", e.Layer, joinLayerIDs(e.Missing))
	default:
		return string(e.Type)
	}
}
