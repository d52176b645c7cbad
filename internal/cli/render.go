package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/render"
	"github.com/litescript/ls-natal/internal/wheel"
)

const (
	formatText = "text"
	formatSVG  = "svg"

	defaultCanvasWidth  = 80
	defaultCanvasHeight = 40
	defaultSVGSize      = 600
	textWheelSize       = 100.0
)

func (c *CLI) newRenderCmd() *cobra.Command {
	var (
		format   string
		output   string
		width    int
		height   int
		size     float64
		show     []string
		hide     []string
		selected string
		color    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the chart wheel as text or SVG",
		Long: `Render casts the configured chart and draws the visible layers.

The text format paints onto a character canvas; the SVG format writes one
group per layer in paint order. --hide is applied before --show, and a
--show whose dependencies are hidden is skipped with a warning.`,
		Example: `  ls-natal render --time 1990-04-12T08:30:00Z --lat 51.5 --lon -0.12
  ls-natal render --format svg -o chart.svg --show degrees,nodes
  ls-natal render --hide zodiac --show fixedStars   # fixedStars is rejected`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatText && format != formatSVG {
				return fmt.Errorf("unknown format %q (want text or svg)", format)
			}

			m, rejected := c.newLayers(c.logger)
			flagRejected, err := applyFlagLayers(m, show, hide)
			if err != nil {
				return err
			}
			c.warnRejected(append(rejected, flagRejected...))

			d, err := c.newProvider(c.logger).Chart(cmd.Context(), c.cfg.Request(time.Now()))
			if err != nil {
				return fmt.Errorf("cast chart: %w", err)
			}

			ctx := render.Context{Chart: d}
			if selected != "" {
				ctx.Interaction.Selected = wheel.BodyElementID(selected)
				ctx.Interaction.Highlighted = wheel.Highlights(d, ctx.Interaction.Selected)
			}

			w, closeOut, err := openOutput(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			defer closeOut()

			if format == formatSVG {
				ctx.Geometry = render.NewGeometry(size)
				return render.WriteSVG(w, ctx.Geometry, wheel.Compose(m, ctx))
			}

			ctx.Geometry = render.NewGeometry(textWheelSize)
			canvas := render.NewCanvas(width, height, ctx.Geometry)
			canvas.Paint(wheel.Compose(m, ctx))
			out := canvas.Plain()
			if color {
				out = canvas.String()
			}
			_, err = fmt.Fprintln(w, out)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", formatText, "output format (text, svg)")
	f.StringVarP(&output, "output", "o", "-", "output file (- for stdout)")
	f.IntVar(&width, "width", defaultCanvasWidth, "text canvas width in columns")
	f.IntVar(&height, "height", defaultCanvasHeight, "text canvas height in rows")
	f.Float64Var(&size, "size", defaultSVGSize, "SVG width and height in pixels")
	f.StringSliceVar(&show, "show", nil, "layers to show (comma-separated)")
	f.StringSliceVar(&hide, "hide", nil, "layers to hide (comma-separated)")
	f.StringVar(&selected, "select", "", "body id to highlight, e.g. sun")
	f.BoolVar(&color, "color", false, "emit ANSI colors in text output")
	return cmd
}

func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func (c *CLI) newLayersCmd() *cobra.Command {
	var (
		show []string
		hide []string
	)

	cmd := &cobra.Command{
		Use:   "layers",
		Short: "List the layer catalog in paint order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, rejected := c.newLayers(c.logger)
			flagRejected, err := applyFlagLayers(m, show, hide)
			if err != nil {
				return err
			}
			c.warnRejected(append(rejected, flagRejected...))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tZ\tCATEGORY\tVISIBLE\tOPACITY\tDEPENDS ON")
			for _, l := range m.AllOrdered() {
				visible := "no"
				switch {
				case l.Visible:
					visible = "yes"
				case len(m.MissingDependencies(l.ID)) > 0:
					visible = "blocked"
				}
				deps := "-"
				if len(l.Dependencies) > 0 {
					deps = joinIDs(l.Dependencies)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%.0f%%\t%s\n",
					l.ID, l.Name, l.ZIndex, l.Category, visible, l.Opacity*100, deps)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&show, "show", nil, "layers to show (comma-separated)")
	cmd.Flags().StringSliceVar(&hide, "hide", nil, "layers to hide (comma-separated)")
	return cmd
}

func (c *CLI) newSummaryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the chart positions table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.newProvider(c.logger).Chart(cmd.Context(), c.cfg.Request(time.Now()))
			if err != nil {
				return fmt.Errorf("cast chart: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return d.WriteJSON(out)
			}
			chart.WriteSummary(out, d)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write the chart as JSON")
	return cmd
}
