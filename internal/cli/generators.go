package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timestack/pkg/calendar"
	"github.com/matzehuels/timestack/pkg/config"
	"github.com/matzehuels/timestack/pkg/ticks"
)

func (c *CLI) generatorsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "generators",
		Short: "List the tick generators in selection order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			opts, err := cfg.AxisOptions()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), generatorTable(config.GeneratorsOrDefault(opts)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (.toml, .yaml)")
	return cmd
}

func generatorTable(gens []ticks.Generator) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(gens))
	for i, g := range gens {
		bottom := "-"
		if b := g.Bottom(); b != nil {
			bottom = approx(b.Size)
		}
		rows[i] = []string{strconv.Itoa(i), g.String(), approx(g.Top().Size), bottom}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Generator", "Step", "Bottom").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 || col == 2 || col == 3 {
				return style.Foreground(colorGray)
			}
			return style
		}).
		String()
}

// approx renders a nominal step in milliseconds in its largest whole unit,
// e.g. "5m" or "365d".
func approx(ms float64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d >= time.Minute && d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	}
	return d.String()
}

// =============================================================================
// measure
// =============================================================================

func (c *CLI) measureCommand() *cobra.Command {
	var flags axisFlags
	var format string

	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Print the widest label a format can produce",
		Long: `Print the widest label a date format can produce in a locale and font.

The format is a preset (HMS, HM, MDAY, MON, YEAR, YMD, YM, MD) or a JSON
object of Intl-style fields such as {"month":"long","day":"numeric"}.`,
		Example: `  timestack measure --format YMD --locale de-DE
  timestack measure --format '{"weekday":"long"}' --font go:14`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ticks.ParseFormat(format)
			if err != nil {
				return err
			}
			_, opts, m, err := flags.resolve()
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			cal, err := calendar.New(calendar.Options{Locale: opts.Locale, Zone: opts.Zone})
			if err != nil {
				return err
			}
			width, err := opts.Estimator.MaxWidth(f, m, cal)
			if err != nil {
				return err
			}

			printKeyValue("Format", f.Key())
			printKeyValue("Locale", cal.Key())
			printKeyValue("Font", m.Font())
			printKeyValue("Width", StyleNumber.Render(fmt.Sprintf("%.1fpx", width)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "label format preset or JSON object (required)")
	cmd.MarkFlagRequired("format")
	return cmd
}
