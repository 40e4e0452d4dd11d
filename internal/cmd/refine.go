package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Digital-Shane/scenename/internal/config"
	"github.com/Digital-Shane/scenename/internal/log"
	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/Digital-Shane/scenename/internal/provider/builtin"
	"github.com/Digital-Shane/scenename/internal/provider/local"
	"github.com/Digital-Shane/scenename/internal/refiner"
	"github.com/Digital-Shane/scenename/internal/tui"
	"github.com/Digital-Shane/scenename/internal/tui/theme"
	"github.com/Digital-Shane/treeview"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var refineCmd = &cobra.Command{
	Use:   "refine [paths...]",
	Short: "Recover scene names for the videos under each path",
	Long: `Scan each path (the current directory by default) for video files and ask
Sonarr or Radarr for the scene name each one was imported under.

Episodes are looked up in Sonarr and movies in Radarr. Videos the backend
knows nothing about are reported as "nothing to add", and a backend that
cannot be reached fails only the videos that needed it.`,
	RunE: runRefine,
}

var (
	instant    bool
	jsonOutput bool
	probe      bool
	workers    int
	maxDepth   int
)

// Overridable in tests.
var (
	scanTree        = treeview.NewTreeFromFileSystem
	newSessionStore = log.DefaultStore
)

func init() {
	refineCmd.Flags().BoolVarP(&instant, "instant", "i", false, "Refine without the interactive progress view")
	refineCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON (implies --instant)")
	refineCmd.Flags().BoolVar(&probe, "probe", false, "Read stream details with ffprobe before the lookup")
	refineCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of concurrent lookups (default from config)")
	refineCmd.Flags().IntVar(&maxDepth, "depth", 0, "Maximum directory depth to scan (0 for unlimited)")
	rootCmd.AddCommand(refineCmd)
}

func runRefine(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.WorkerCount = workers
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	interactive := !instant && !jsonOutput
	var console io.Writer
	if !interactive {
		console = cmd.ErrOrStderr()
	}
	logger := newLogger(cfg, console)
	defer logger.Sync() //nolint:errcheck

	set, err := builtin.Load(cfg, builtin.Options{Logger: logger, Probe: probe})
	if err != nil {
		return err
	}
	if len(set.Registry.Enabled()) == 0 {
		return fmt.Errorf("no backend enabled, enable sonarr or radarr in the config")
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	videos, err := collect(ctx, paths, interactive, logger)
	if err != nil {
		return err
	}

	r := refiner.New(set.Registry,
		refiner.WithLogger(logger.Named("refiner")),
		refiner.WithResolvers(set.Resolvers...),
		refiner.WithProbers(set.Probers...),
	)
	engine := refiner.NewEngine(refiner.EngineConfig{
		Refiner:     r,
		Videos:      videos,
		WorkerCount: cfg.WorkerCount,
		Logger:      logger.Named("engine"),
	})

	var summary refiner.Summary
	if interactive {
		model := tui.NewRefineProgressModel(ctx, engine, theme.Default())
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return err
		}
		summary = model.Summary()
	} else {
		summary = engine.Run(ctx)
	}

	outcomes := tui.SortOutcomes(engine.Outcomes())
	recordSession(cfg, outcomes, args, logger)

	if err := set.SaveCache(); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if err := writeJSON(out, outcomes); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, tui.RenderResults(outcomes, theme.Default(), 0))
		fmt.Fprintf(out, "\n%d refined, %d with nothing to add, %d failed\n",
			summary.RefinedItems, summary.SkippedItems, summary.ErrorCount)
	}

	if summary.Canceled {
		return context.Canceled
	}
	if summary.ErrorCount > 0 {
		return fmt.Errorf("%d of %d videos could not be refined", summary.ErrorCount, summary.TotalItems)
	}
	return nil
}

// collect scans every path and parses the video files found. Files the
// local parser cannot identify are skipped.
func collect(ctx context.Context, paths []string, interactive bool, logger *zap.Logger) ([]*provider.Video, error) {
	parser := local.NewParserEngine()
	var videos []*provider.Video
	for _, path := range paths {
		t, err := scan(ctx, path, interactive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		found, errs := refiner.CollectVideos(t, parser)
		for _, err := range errs {
			logger.Debug("Skipping unrecognized file", zap.Error(err))
		}
		videos = append(videos, found...)
	}
	logger.Info("Scan complete", zap.Int("videos", len(videos)), zap.Strings("paths", paths))
	return videos, nil
}

func scan(ctx context.Context, path string, interactive bool) (*treeview.Tree[treeview.FileInfo], error) {
	if !interactive {
		return scanTree(ctx, path, false,
			treeview.WithMaxDepth[treeview.FileInfo](maxDepth),
			treeview.WithFilterFunc(mediaFilter),
		)
	}

	idxModel := tui.NewIndexProgressModel(path, tui.IndexConfig{
		MaxDepth: maxDepth,
		Filter:   mediaFilter,
	}, theme.Default())

	finalModel, err := tea.NewProgram(idxModel, tea.WithAltScreen()).Run()
	if err != nil {
		return nil, err
	}
	im, ok := finalModel.(*tui.IndexProgressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T after indexing", finalModel)
	}
	if err := im.Err(); err != nil {
		return nil, err
	}
	if im.Tree() == nil {
		return nil, fmt.Errorf("indexing produced no tree")
	}
	return im.Tree(), nil
}

// mediaFilter keeps directories and video files, skipping hidden entries.
func mediaFilter(info treeview.FileInfo) bool {
	if strings.HasPrefix(info.Name(), ".") {
		return false
	}
	return info.IsDir() || local.IsVideo(info.Name())
}

// recordSession writes the audit log of this run when sessions are enabled.
// Failures are logged, they never fail the run.
func recordSession(cfg *config.Config, outcomes []*refiner.Outcome, args []string, logger *zap.Logger) {
	if !cfg.Session.Enabled {
		return
	}
	store, err := newSessionStore()
	if err != nil {
		logger.Warn("Session log unavailable", zap.Error(err))
		return
	}

	session := store.StartSession("refine", args)
	for _, o := range outcomes {
		session.Record(sessionEntry(o))
	}
	if err := store.WriteSession(session); err != nil {
		logger.Warn("Failed to write session log", zap.Error(err))
		return
	}
	if removed, err := store.Cleanup(cfg.Session.RetentionDays); err != nil {
		logger.Warn("Failed to clean up old session logs", zap.Error(err))
	} else if removed > 0 {
		logger.Debug("Removed old session logs", zap.Int("count", removed))
	}
}

func sessionEntry(o *refiner.Outcome) log.RefineEntry {
	entry := log.RefineEntry{
		Path:      o.Video.Name,
		MediaType: string(o.Video.MediaType),
		Success:   o.Err == nil,
	}
	if o.Result != nil {
		entry.Provider = o.Result.Provider
		entry.SceneName = o.Result.SceneName
		entry.Filled = o.Result.Filled
	}
	if o.Err != nil {
		entry.Error = o.Err.Error()
	}
	return entry
}

type jsonResult struct {
	Path         string   `json:"path"`
	MediaType    string   `json:"media_type"`
	Provider     string   `json:"provider,omitempty"`
	SceneName    string   `json:"scene_name,omitempty"`
	OriginalName string   `json:"original_name,omitempty"`
	ReleaseGroup string   `json:"release_group,omitempty"`
	Format       string   `json:"format,omitempty"`
	Filled       []string `json:"filled,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func writeJSON(w io.Writer, outcomes []*refiner.Outcome) error {
	results := make([]jsonResult, 0, len(outcomes))
	for _, o := range outcomes {
		res := jsonResult{
			Path:         o.Video.Name,
			MediaType:    string(o.Video.MediaType),
			OriginalName: o.Video.OriginalName,
			ReleaseGroup: o.Video.ReleaseGroup,
			Format:       o.Video.Format,
		}
		if o.Result != nil {
			res.Provider = o.Result.Provider
			res.SceneName = o.Result.SceneName
			res.Filled = o.Result.Filled
		}
		if o.Err != nil {
			res.Error = o.Err.Error()
		}
		results = append(results, res)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
