package progress

import (
	"context"
	"fmt"
	"strings"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/scenename/internal/refiner"
	"github.com/Digital-Shane/scenename/internal/tui/theme"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type refineEventMsg struct {
	event refiner.Event
	done  bool
}

// lines used by everything but the error block
const refineErrorBaseLines = 9

// RefineProgressModel follows a refiner.Engine while it works through a
// batch and quits once the batch is finished or canceled.
type RefineProgressModel struct {
	engine  *refiner.Engine
	events  <-chan refiner.Event
	summary refiner.Summary
	errors  []error

	width  int
	height int

	progress progress.Model
	theme    theme.Theme

	ctx    context.Context
	cancel context.CancelFunc

	done bool
}

// NewRefineProgressModel creates a model that runs engine when started.
// A nil ctx means context.Background.
func NewRefineProgressModel(ctx context.Context, engine *refiner.Engine, th theme.Theme) *RefineProgressModel {
	if ctx == nil {
		ctx = context.Background()
	}
	gradient := th.ProgressGradient()
	prog := progress.New(progress.WithGradient(gradient[0], gradient[1]))
	prog.Width = 50

	m := &RefineProgressModel{
		engine:   engine,
		width:    80,
		height:   14,
		progress: prog,
		theme:    th,
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	if engine != nil {
		m.summary = engine.SummarySnapshot()
	}
	return m
}

// Init starts the engine.
func (m *RefineProgressModel) Init() tea.Cmd {
	if m.engine == nil {
		m.done = true
		return tea.Quit
	}
	m.events = m.engine.Start(m.ctx)
	return m.waitForEvent()
}

func (m *RefineProgressModel) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		evt, ok := <-events
		if !ok {
			return refineEventMsg{done: true}
		}
		return refineEventMsg{event: evt}
	}
}

// Update processes Bubble Tea messages.
func (m *RefineProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancel()
			// keep draining so the engine can wind down and close the stream
			return m, m.waitForEvent()
		}
	case refineEventMsg:
		return m.handleEvent(msg)
	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *RefineProgressModel) handleEvent(msg refineEventMsg) (tea.Model, tea.Cmd) {
	if msg.done {
		m.summary = m.engine.SummarySnapshot()
		m.errors = m.engine.Errors()
		m.done = true
		m.cancel()
		return m, tea.Quit
	}

	m.summary = msg.event.Summary
	m.errors = m.engine.Errors()

	ratio := 0.0
	if m.summary.TotalItems > 0 {
		ratio = float64(m.summary.ProcessedItems) / float64(m.summary.TotalItems)
	}
	return m, tea.Batch(m.progress.SetPercent(ratio), m.waitForEvent())
}

// View renders the progress UI.
func (m *RefineProgressModel) View() string {
	if m.summary.TotalItems == 0 {
		return "No videos to refine.\n"
	}

	percent := 100 * m.summary.ProcessedItems / m.summary.TotalItems
	stats := []string{
		fmt.Sprintf("%s Processed: %d/%d (%d%%)", m.theme.Icon("stats"), m.summary.ProcessedItems, m.summary.TotalItems, percent),
		fmt.Sprintf("%s Refined: %d", m.theme.Icon("refined"), m.summary.RefinedItems),
		fmt.Sprintf("%s Nothing to add: %d", m.theme.Icon("skipped"), m.summary.SkippedItems),
		fmt.Sprintf("%s Failed: %d", m.theme.Icon("error"), m.summary.ErrorCount),
		fmt.Sprintf("%s Workers: %d active of %d", m.theme.Icon("worker"), m.summary.ActiveWorkers, m.summary.WorkerLimit),
	}

	status := "Looking up scene names... esc to cancel"
	switch {
	case m.summary.Canceled:
		status = "Canceled"
	case m.summary.Done:
		status = "Done"
	case m.summary.LastItem != "":
		status = m.summary.LastItem
	}

	panel := m.theme.PanelStyle()
	panelWidth := max(m.width-panel.GetHorizontalFrameSize(), 0)
	body := strings.Join(stats, "\n")
	if block := m.renderErrorBlock(); block != "" {
		body += "\n" + block
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.HeaderStyle().Width(m.width).Render("Refining Scene Names"),
		m.progress.View(),
		panel.Width(panelWidth).Render(body),
		m.theme.StatusBarStyle().Width(m.width).Render(runewidth.Truncate(status, max(m.width-2, 10), "…")),
	)
}

// renderErrorBlock shows the newest errors that fit the window.
func (m *RefineProgressModel) renderErrorBlock() string {
	if len(m.errors) == 0 {
		return ""
	}

	maxLines := max(m.height-refineErrorBaseLines, 1)
	shown := min(len(m.errors), maxLines)
	lineWidth := max(m.width-6, 10)

	lines := make([]string, 0, shown+2)
	lines = append(lines, fmt.Sprintf("Errors: %d", len(m.errors)))
	for _, err := range m.errors[len(m.errors)-shown:] {
		lines = append(lines, "• "+runewidth.Truncate(err.Error(), lineWidth, "..."))
	}
	if hidden := len(m.errors) - shown; hidden > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more", hidden))
	}

	return lipgloss.NewStyle().Foreground(m.theme.Colors().Error).Render(strings.Join(lines, "\n"))
}

// Summary returns the last progress snapshot.
func (m *RefineProgressModel) Summary() refiner.Summary { return m.summary }

// Done reports whether the engine stream was fully consumed.
func (m *RefineProgressModel) Done() bool { return m.done }

// Err returns the first authentication or availability failure, which
// usually means every other lookup in the batch failed for the same reason.
func (m *RefineProgressModel) Err() error {
	for _, err := range m.errors {
		if provider.IsCode(err, provider.CodeAuthFailed) || provider.IsCode(err, provider.CodeUnavailable) {
			return err
		}
	}
	return nil
}
