package progress

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Digital-Shane/scenename/internal/provider/local"
	"github.com/Digital-Shane/scenename/internal/tui/theme"
	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// IndexProgressModel shows a full screen progress UI while a library
// directory is scanned into a tree. Once it quits the caller reads the tree
// with Tree and hands it to refiner.CollectVideos.
type IndexProgressModel struct {
	path       string
	cfg        IndexConfig
	totalRoots int

	// counters are written by the scan goroutine and read on render
	processedRoots int
	videosFound    int
	filesScanned   int
	indexingDone   bool

	width  int
	height int

	tree *treeview.Tree[treeview.FileInfo]
	err  error

	progress progress.Model
	msgCh    chan tea.Msg
	rootPath string
	seen     map[string]struct{}
	cancel   context.CancelFunc

	theme theme.Theme
}

type indexProgressMsg struct{}

type indexCompleteMsg struct{}

// IndexConfig controls how deep the scan goes and which entries it keeps.
type IndexConfig struct {
	MaxDepth int
	Filter   func(treeview.FileInfo) bool
}

type treeBuilderFunc func(context.Context, string, bool, ...treeview.Option[treeview.FileInfo]) (*treeview.Tree[treeview.FileInfo], error)

var indexProgressTreeBuilder treeBuilderFunc = treeview.NewTreeFromFileSystem

// NewIndexProgressModel creates a model for scanning path. The number of
// top level entries is counted up front so progress can be shown as a ratio.
func NewIndexProgressModel(path string, cfg IndexConfig, th theme.Theme) *IndexProgressModel {
	entries, _ := os.ReadDir(path)
	gradient := th.ProgressGradient()
	p := progress.New(progress.WithGradient(gradient[0], gradient[1]))
	p.Width = 50
	rootPath, _ := filepath.Abs(path)
	return &IndexProgressModel{
		path:       path,
		cfg:        cfg,
		totalRoots: max(len(entries), 1),
		width:      80,
		height:     12,
		progress:   p,
		msgCh:      make(chan tea.Msg, 64),
		rootPath:   rootPath,
		seen:       make(map[string]struct{}),
		theme:      th,
	}
}

// Init starts the scan in the background.
func (m *IndexProgressModel) Init() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.buildTree(ctx)
	return m.waitForMsg()
}

func (m *IndexProgressModel) waitForMsg() tea.Cmd { return func() tea.Msg { return <-m.msgCh } }

// keep drops macOS artifacts and anything that is neither a directory nor a
// regular file unless a custom filter is configured.
func (m *IndexProgressModel) keep(fi treeview.FileInfo) bool {
	if m.cfg.Filter != nil {
		return m.cfg.Filter(fi)
	}
	if fi.Name() == ".DS_Store" || strings.HasPrefix(fi.Name(), "._") {
		return false
	}
	return fi.IsDir() || fi.FileInfo.Mode().IsRegular()
}

func (m *IndexProgressModel) buildTree(ctx context.Context) {
	t, err := indexProgressTreeBuilder(ctx, m.path, false,
		treeview.WithMaxDepth[treeview.FileInfo](m.cfg.MaxDepth),
		treeview.WithTraversalCap[treeview.FileInfo](2000000),
		treeview.WithFilterFunc(m.keep),
		treeview.WithProgressCallback[treeview.FileInfo](func(_ int, n *treeview.Node[treeview.FileInfo]) {
			if filepath.Dir(n.Data().Path) == m.rootPath {
				name := n.Data().Name()
				if _, ok := m.seen[name]; !ok {
					m.seen[name] = struct{}{}
					m.processedRoots++
				}
			}
			if !n.Data().IsDir() {
				m.filesScanned++
				if name := n.Data().Name(); local.IsVideo(name) && !local.IsSample(name) {
					m.videosFound++
				}
			}
			select {
			case m.msgCh <- indexProgressMsg{}:
			default:
			}
		}),
	)
	m.tree = t
	m.err = err
	m.indexingDone = true
	m.msgCh <- indexCompleteMsg{}
}

// Update processes Bubble Tea messages.
func (m *IndexProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.progress.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case indexProgressMsg:
		ratio := math.Min(float64(m.processedRoots)/float64(m.totalRoots), 1)
		return m, tea.Batch(m.progress.SetPercent(ratio), m.waitForMsg())
	case indexCompleteMsg:
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View renders the progress UI.
func (m *IndexProgressModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}
	percent := 100 * m.processedRoots / m.totalRoots

	stats := strings.Join([]string{
		fmt.Sprintf("%s Library: %s", m.theme.Icon("folder"), m.path),
		fmt.Sprintf("Entries scanned: %d/%d", m.processedRoots, m.totalRoots),
		fmt.Sprintf("Videos found: %d of %d files", m.videosFound, m.filesScanned),
		fmt.Sprintf("Progress: %d%%", percent),
	}, "\n")

	panel := m.theme.PanelStyle()
	panelWidth := max(m.width-panel.GetHorizontalFrameSize(), 0)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.HeaderStyle().Width(m.width).Render("Scanning Library"),
		m.progress.View(),
		panel.Width(panelWidth).Render(stats),
		m.theme.StatusBarStyle().Width(m.width).Render("Scanning... esc to cancel"),
	)
}

// Tree returns the scanned tree.
func (m *IndexProgressModel) Tree() *treeview.Tree[treeview.FileInfo] { return m.tree }

// Err returns any scan error.
func (m *IndexProgressModel) Err() error { return m.err }

// VideosFound reports how many non-sample video files the scan saw.
func (m *IndexProgressModel) VideosFound() int { return m.videosFound }
