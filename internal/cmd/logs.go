package cmd

import (
	"fmt"

	"github.com/Digital-Shane/scenename/internal/tui/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var logLimit int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List recent refinement sessions",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logLimit, "limit", "n", 10, "Number of sessions to show (0 for all)")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}
	sessions, err := store.ReadSessions(logLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintf(out, "No sessions recorded in %s\n", store.Dir())
		return nil
	}

	th := theme.Default()
	t := table.New().
		Border(th.Borders().Table).
		BorderStyle(lipgloss.NewStyle().Foreground(th.Colors().Muted)).
		Headers("When", "Session", "Videos", "Refined", "Failed", "Directory").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.TableHeaderStyle()
			}
			return th.TableCellStyle(theme.StatusRefined)
		})
	for _, s := range sessions {
		m := s.Metadata
		t.Row(
			m.Timestamp.Local().Format("2006-01-02 15:04"),
			shortID(m.SessionID),
			fmt.Sprint(m.TotalVideos),
			fmt.Sprint(m.RefinedVideos),
			fmt.Sprint(m.FailedVideos),
			m.WorkingDir,
		)
	}
	fmt.Fprintln(out, t.Render())
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
