package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glyphgraph/pkg/graph"
	"github.com/matzehuels/glyphgraph/pkg/store"
)

// historyCommand creates the history command for saved results.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List results saved with 'extract --save'",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			recs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No saved results")
				return nil
			}
			fmt.Fprintln(stdout, historyTable(recs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", store.DefaultListLimit, "maximum number of results")
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// historyShowCommand prints one saved graph as JSON.
func (c *CLI) historyShowCommand() *cobra.Command {
	var overlay string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print a saved graph as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if overlay != "" {
				if len(rec.Overlay) == 0 {
					printWarning("Result %s has no overlay", rec.ID)
				} else if err := writeFile(overlay, rec.Overlay); err != nil {
					return err
				}
			}
			return graph.Write(rec.Graph, stdout)
		},
	}

	cmd.Flags().StringVar(&overlay, "overlay", "", "also write the saved overlay PNG to this file")
	return cmd
}

// historyTable renders records as a table, newest first.
func historyTable(recs []store.Record, now time.Time) string {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			r.ID,
			formatRelativeTime(r.CreatedAt, now),
			r.Source,
			strconv.Itoa(r.CellSize),
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.Edges),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Saved", "Source", "Cell", "Nodes", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col == 1:
				return listDimStyle
			case col >= 3:
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return listNormalStyle
		}).
		Render()
}

// formatRelativeTime renders t relative to now for recent times.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
