package tui

import (
	"path/filepath"
	"sort"

	"github.com/Digital-Shane/scenename/internal/refiner"
	"github.com/Digital-Shane/scenename/internal/tui/theme"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

const (
	minVideoWidth = 16
	minSceneWidth = 20
)

func init() {
	// Emoji icons count as a single cell in the results table
	runewidth.DefaultCondition.EastAsianWidth = false
	runewidth.DefaultCondition.StrictEmojiNeutral = true
}

// StatusOf classifies an outcome for display.
func StatusOf(outcome *refiner.Outcome) theme.Status {
	switch {
	case outcome == nil || outcome.Err != nil:
		return theme.StatusFailed
	case outcome.Result.Refined():
		return theme.StatusRefined
	default:
		return theme.StatusSkipped
	}
}

// SortOutcomes orders outcomes by video path.
func SortOutcomes(outcomes map[string]*refiner.Outcome) []*refiner.Outcome {
	sorted := make([]*refiner.Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		sorted = append(sorted, o)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Video.Name < sorted[j].Video.Name
	})
	return sorted
}

// RenderResults draws a table with one row per refined video. Long file and
// scene names are truncated so the table fits width.
func RenderResults(outcomes []*refiner.Outcome, th theme.Theme, width int) string {
	videoWidth, sceneWidth := columnWidths(width)

	statuses := make([]theme.Status, len(outcomes))
	rows := make([][]string, 0, len(outcomes))
	for i, o := range outcomes {
		statuses[i] = StatusOf(o)
		rows = append(rows, []string{
			statusIcon(th, statuses[i]),
			runewidth.Truncate(filepath.Base(o.Video.Name), videoWidth, "…"),
			runewidth.Truncate(sceneColumn(o), sceneWidth, "…"),
			o.Video.ReleaseGroup,
			o.Video.Format,
		})
	}

	t := table.New().
		Border(th.Borders().Table).
		BorderStyle(lipgloss.NewStyle().Foreground(th.Colors().Muted)).
		Headers("", "Video", "Original name", "Group", "Format").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return th.TableHeaderStyle()
			}
			if row < 0 || row >= len(statuses) {
				return th.TableCellStyle(theme.StatusRefined)
			}
			return th.TableCellStyle(statuses[row])
		})

	return t.Render()
}

func sceneColumn(o *refiner.Outcome) string {
	switch {
	case o.Err != nil:
		return o.Err.Error()
	case o.Video.OriginalName != "":
		return o.Video.OriginalName
	case o.Result != nil && o.Result.SceneName != "":
		return o.Result.SceneName
	default:
		return "-"
	}
}

func statusIcon(th theme.Theme, status theme.Status) string {
	switch status {
	case theme.StatusFailed:
		return th.Icon("error")
	case theme.StatusSkipped:
		return th.Icon("skipped")
	default:
		return th.Icon("refined")
	}
}

// columnWidths splits the space left after the fixed columns between the
// video and scene name columns.
func columnWidths(width int) (int, int) {
	if width <= 0 {
		width = 120
	}
	// icon, group, format and borders/padding
	flexible := width - 40
	video := max(flexible*2/5, minVideoWidth)
	scene := max(flexible-video, minSceneWidth)
	return video, scene
}
