package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/MabelHsu/ig-fb-view-analyzer/internal/config"
	"github.com/MabelHsu/ig-fb-view-analyzer/internal/logging"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagLogLevel  string
	flagLogFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// logger is the process logger, set up after configuration loads.
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "reelstats",
	Short: "reelstats: Reel and Video view reports from Facebook/Instagram exports",
	Long: `reelstats reads a Facebook or Instagram post export (CSV or XLSX), keeps the
posts published inside a date window, labels each one Reel, Video or Outro and
reports post counts, total views and average views per category.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.reelstats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	level, format := cfg.LogLevel, cfg.LogFormat
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	if flagLogFormat != "" {
		format = flagLogFormat
	}
	if debug {
		level = "debug"
	}
	l, err := logging.Setup(logging.Config{Level: level, Format: format, Output: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using defaults\n", err)
		l, _ = logging.Setup(logging.Config{Output: os.Stderr})
	}
	logger = l
}

// currentConfig returns the loaded configuration, or defaults when the command
// runs without OnInitialize (tests).
func currentConfig() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}
