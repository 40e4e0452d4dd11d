package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Digital-Shane/scenename/internal/config"
	"github.com/Digital-Shane/scenename/internal/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scenename",
	Short: "Recover original release names from Sonarr and Radarr",
	Long: `scenename looks up each video in your library in Sonarr (episodes) or
Radarr (movies) and recovers the scene name the file was released under.

The release group and source format are read from that name and reported
alongside it, as a table, as JSON, or in an interactive progress view.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.scenename/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details of every lookup")
}

// loadConfig reads the --config file or the default one.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger for a command. A nil console keeps the
// terminal clean, which the full screen UI needs.
func newLogger(cfg *config.Config, console io.Writer) *zap.Logger {
	logger, err := log.NewLogger(cfg.Log, verbose, console)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, logging disabled\n", err)
		return zap.NewNop()
	}
	return logger
}
