package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/measure"
	"github.com/matzehuels/timestack/pkg/render"
	"github.com/matzehuels/timestack/pkg/ticks"
)

// Output formats of the ticks command.
const (
	formatTable = "table" // styled tick table
	formatJSON  = "json"  // tick list as JSON
	formatText  = "text"  // three-line terminal preview
	formatSVG   = "svg"   // SVG axis strip

	defaultWidth   = 800 // axis width in pixels
	defaultColumns = 80  // text preview width in cells
)

// ticksOpts holds the command-line flags for the ticks command.
type ticksOpts struct {
	axisFlags
	min, max  string
	width     float64
	format    string
	output    string
	columns   int
	title     string
	embedFont bool
}

func (c *CLI) ticksCommand() *cobra.Command {
	opts := ticksOpts{width: defaultWidth, format: formatTable, columns: defaultColumns}

	cmd := &cobra.Command{
		Use:   "ticks",
		Short: "Build the ticks of a time axis",
		Long: `Build the ticks of a time axis for a range and width.

Instants are epoch milliseconds, RFC 3339 timestamps or wall clock times
such as 2024-03-05T10:30 in the axis time zone.`,
		Example: `  timestack ticks --min 2024-03-05T10:00 --max 2024-03-05T11:30 --width 600
  timestack ticks --min 2024-01-01 --max 2024-04-01 -f text --locale de-DE
  timestack ticks --min 2019-01-01 --max 2024-01-01 -f svg -o axis.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			if opts.format == formatText && !cmd.Flags().Changed("width") {
				opts.width = float64(opts.columns)
			}
			return c.runTicks(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.min, "min", "", "range start (required)")
	cmd.Flags().StringVar(&opts.max, "max", "", "range end, exclusive (required)")
	cmd.Flags().Float64VarP(&opts.width, "width", "w", opts.width, "axis width in pixels")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table, json, text, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&opts.columns, "columns", opts.columns, "text preview width in cells")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG title")
	cmd.Flags().BoolVar(&opts.embedFont, "embed-font", false, "embed the Go font in SVG output")
	cmd.MarkFlagRequired("min")
	cmd.MarkFlagRequired("max")

	return cmd
}

// validateFormat checks the --format flag.
func validateFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatText, formatSVG:
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'table', 'json', 'text' or 'svg')", f)
}

func (c *CLI) runTicks(ctx context.Context, stdout io.Writer, opts *ticksOpts) error {
	cfg, axisOpts, m, err := opts.resolve()
	if err != nil {
		return err
	}
	if opts.format == formatText && cfg.Font == "" {
		// One pixel per cell keeps the estimate in step with the preview.
		m = measure.CellMeasurer{CellWidth: float64(opts.columns) / opts.width}
	}
	axisOpts.Logger = c.Logger

	a, err := axis.New(axisOpts)
	if err != nil {
		return err
	}
	min, err := a.Calendar().ParseInstant(opts.min)
	if err != nil {
		return err
	}
	max, err := a.Calendar().ParseInstant(opts.max)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	res, err := a.Build(ctx, min, max, opts.width, m)
	if err != nil {
		return err
	}
	if res.Generator == nil {
		c.Logger.Warn("no tick generator fits; try a wider axis or a higher --max-density")
	} else {
		prog.done(fmt.Sprintf("Built %d ticks with %s", len(res.Ticks), res.Generator))
	}

	var data []byte
	switch opts.format {
	case formatJSON:
		if data, err = json.MarshalIndent(ticksOrEmpty(res.Ticks), "", "  "); err != nil {
			return err
		}
		data = append(data, '\n')
	case formatText:
		data = []byte(render.RenderText(res, render.WithColumns(opts.columns)) + "\n")
	case formatSVG:
		svgOpts := []render.SVGOption{render.WithFontSize(svgFontSize(m))}
		if opts.title != "" {
			svgOpts = append(svgOpts, render.WithTitle(opts.title))
		}
		if opts.embedFont {
			svgOpts = append(svgOpts, render.WithEmbeddedFont())
		}
		data = render.RenderSVG(res, svgOpts...)
	default:
		data = []byte(tickTable(res, a) + "\n")
	}

	if opts.output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return err
	}
	printFile(opts.output)
	return nil
}

func ticksOrEmpty(ts []ticks.Tick) []ticks.Tick {
	if ts == nil {
		return []ticks.Tick{}
	}
	return ts
}

// svgFontSize returns the pixel size of a Go font measurer, so the drawn
// labels match the measured ones.
func svgFontSize(m measure.Measurer) float64 {
	size, _, ok := strings.Cut(m.Font(), "px ")
	if !ok {
		return 12
	}
	v, err := strconv.ParseFloat(size, 64)
	if err != nil || v <= 0 {
		return 12
	}
	return v
}

// tickTable renders the ticks of res as a table with their instants in the
// axis zone.
func tickTable(res axis.Result, a *axis.Axis) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(res.Ticks))
	for _, t := range res.Ticks {
		at := a.Calendar().FromMillis(t.Value).Time().Format(time.RFC3339)
		kind := ""
		switch {
		case t.Label.Top == "" && t.Label.HasBottom:
			kind = "floating"
		case t.Major:
			kind = "major"
		}
		rows = append(rows, []string{at, kind, t.Label.Top, t.Label.Bottom})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Instant", "", "Top", "Bottom").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case col == 0:
				return style.Foreground(colorGray)
			case col == 3:
				return style.Foreground(colorCyan)
			case row < len(res.Ticks) && res.Ticks[row].Major:
				return style.Bold(true)
			}
			return style
		}).
		String()
}
