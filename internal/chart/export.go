package chart

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Decode reads a chart from the backend JSON shape.
func Decode(r io.Reader) (*Data, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	for i := range d.Bodies {
		d.Bodies[i].Longitude = Normalize(d.Bodies[i].Longitude)
	}
	return &d, nil
}

// WriteJSON writes the chart as indented JSON.
func (d *Data) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteSummary writes a human-readable positions table.
//
//	Sun        22°14' Ari   H10
//	Moon       03°40' Can   H12  R
func WriteSummary(w io.Writer, d *Data) {
	if d == nil {
		fmt.Fprintln(w, "No chart data")
		return
	}

	title := d.Name
	if title == "" {
		title = "Chart"
	}
	fmt.Fprintf(w, "%s  %s", title, d.Time.UTC().Format("2006-01-02 15:04 UTC"))
	if d.Location.Name != "" {
		fmt.Fprintf(w, "  %s", d.Location.Name)
	}
	fmt.Fprintf(w, "  (%.2f, %.2f)\n", d.Location.LatDeg, d.Location.LonDeg)
	fmt.Fprintf(w, "ASC %s   MC %s   Houses: %s\n\n",
		FormatLongitude(d.Angles.Ascendant), FormatLongitude(d.Angles.Midheaven), d.HouseSystem)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, b := range d.Bodies {
		retro := ""
		if b.Retrograde() {
			retro = "R"
		}
		house := ""
		if h := d.HouseOf(b.Longitude); h > 0 {
			house = fmt.Sprintf("H%d", h)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Name, FormatLongitude(b.Longitude), house, retro)
	}
	_ = tw.Flush()

	if len(d.Aspects) == 0 {
		return
	}
	fmt.Fprintln(w)
	var parts []string
	for _, a := range d.Aspects {
		parts = append(parts, fmt.Sprintf("%s %s %s (%.1f°)", a.From, aspectSymbol(a.Kind), a.To, a.Orb))
	}
	fmt.Fprintln(w, strings.Join(parts, "\n"))
}

func aspectSymbol(k AspectKind) string {
	switch k {
	case Conjunction:
		return "☌"
	case Sextile:
		return "⚹"
	case Square:
		return "□"
	case Trine:
		return "△"
	case Opposition:
		return "☍"
	default:
		return "?"
	}
}
