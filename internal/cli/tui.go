package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timestack/pkg/axis"
	"github.com/matzehuels/timestack/pkg/measure"
	"github.com/matzehuels/timestack/pkg/render"
)

// Explore zoom limits.
const (
	minSpan = int64(10 * time.Second / time.Millisecond)
	maxSpan = 500 * 365 * 24 * int64(time.Hour/time.Millisecond)
)

var (
	exploreFrameStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
	exploreHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
	exploreErrStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// ExploreModel - Interactive axis pan and zoom
// =============================================================================

// ExploreModel is the bubbletea model of the explore command. It rebuilds
// the axis on every pan or zoom, measuring labels in terminal cells.
type ExploreModel struct {
	Axis     *axis.Axis
	Min, Max int64
	Columns  int

	home   [2]int64
	result axis.Result
	err    error
}

// NewExploreModel creates a model showing [min, max) on columns cells.
func NewExploreModel(a *axis.Axis, min, max int64, columns int) ExploreModel {
	m := ExploreModel{Axis: a, Min: min, Max: max, Columns: columns, home: [2]int64{min, max}}
	m.rebuild()
	return m
}

func (m *ExploreModel) rebuild() {
	m.result, m.err = m.Axis.Build(context.Background(), m.Min, m.Max, float64(m.Columns), measure.CellMeasurer{CellWidth: 1})
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		span := m.Max - m.Min
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.Min, m.Max = m.Min-span/4, m.Max-span/4
		case "right", "l":
			m.Min, m.Max = m.Min+span/4, m.Max+span/4
		case "+", "=", "up", "k":
			m.zoom(span / 2)
		case "-", "_", "down", "j":
			m.zoom(span * 2)
		case "0", "r":
			m.Min, m.Max = m.home[0], m.home[1]
		default:
			return m, nil
		}
		m.rebuild()
	case tea.WindowSizeMsg:
		// Frame border and padding take four cells.
		m.Columns = max(msg.Width-4, 20)
		m.rebuild()
	}
	return m, nil
}

// zoom resizes the range to span around its center.
func (m *ExploreModel) zoom(span int64) {
	span = min(max(span, minSpan), maxSpan)
	center := m.Min + (m.Max-m.Min)/2
	m.Min = center - span/2
	m.Max = m.Min + span
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.Axis.LabelForValue(m.Min) + " → " + m.Axis.LabelForValue(m.Max)))
	b.WriteString("\n")

	var body string
	switch {
	case m.err != nil:
		body = exploreErrStyle.Render(m.err.Error())
	case m.result.Generator == nil:
		body = StyleWarning.Render("no tick generator fits this range")
	default:
		body = render.RenderText(m.result, render.WithColumns(m.Columns))
	}
	b.WriteString(exploreFrameStyle.Render(body))
	b.WriteString("\n")

	if m.result.Generator != nil {
		b.WriteString(StyleHighlight.Render(m.result.Generator.String()))
		b.WriteString(StyleDim.Render(fmt.Sprintf(" · %d ticks · density %.2f", len(m.result.Ticks), m.result.Density)))
		b.WriteString("\n")
	}
	b.WriteString(exploreHelpStyle.Render("←/→ pan  +/- zoom  0 reset  q quit"))

	return b.String()
}

// =============================================================================
// explore command
// =============================================================================

func (c *CLI) exploreCommand() *cobra.Command {
	var flags axisFlags
	var from, to string

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Pan and zoom a time axis in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, opts, _, err := flags.resolve()
			if err != nil {
				return err
			}
			// Build warnings would tear the alternate screen.
			opts.Logger = nil
			a, err := axis.New(opts)
			if err != nil {
				return err
			}

			min, max := time.Now().Add(-24*time.Hour).UnixMilli(), time.Now().UnixMilli()
			if from != "" {
				if min, err = a.Calendar().ParseInstant(from); err != nil {
					return err
				}
			}
			if to != "" {
				if max, err = a.Calendar().ParseInstant(to); err != nil {
					return err
				}
			}
			if min >= max {
				return fmt.Errorf("--min must be before --max")
			}

			p := tea.NewProgram(NewExploreModel(a, min, max, defaultColumns), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&from, "min", "", "initial range start (default 24h ago)")
	cmd.Flags().StringVar(&to, "max", "", "initial range end (default now)")
	return cmd
}
