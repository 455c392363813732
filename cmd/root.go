package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/matheuskafuri/blogreader/internal/config"
	"github.com/matheuskafuri/blogreader/internal/update"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagSource  string
	flagVerbose bool
	flagLogFile string
)

var (
	appCfg *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "blogreader",
	Short: "Terminal reader for blog posts and their comments",
	Long: `blogreader browses the posts of a JSONPlaceholder-style API (or an RSS feed)
with title search, pagination and per-post comments.

Run without arguments to start the interactive reader.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: runTUI,
}

func init() {
	// Assigned here rather than in the literal: setup refers to rootCmd,
	// which would otherwise be an initialization cycle.
	rootCmd.PersistentPreRunE = setup

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagSource, "source", "", "name of the configured source to read from")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "write JSON logs to this file")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")
	versionCmd.Flags().StringVar(&flagReleasesURL, "releases-url", update.DefaultReleasesURL, "release endpoint to check against")
	_ = versionCmd.Flags().MarkHidden("releases-url")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

var (
	flagCheck       bool
	flagReleasesURL string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Overrides setup: printing the version needs no config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "blogreader %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return nil
		}

		res, err := update.NewChecker(flagReleasesURL, nil).Check(cmd.Context(), version)
		if err != nil {
			return err
		}
		if res.Newer {
			fmt.Fprintf(out, "A newer version is available: %s\n", res.LatestVersion)
		} else {
			fmt.Fprintln(out, "You are running the latest version.")
		}
		return nil
	},
}

// setup loads the config and builds the logger shared by every command.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appCfg = cfg

	logFile := flagLogFile
	if logFile == "" {
		logFile = cfg.LogFile
	}
	l, err := newLogger(logFile, flagVerbose, cmd == rootCmd)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l
	return nil
}

// newLogger writes JSON to logFile when one is set. Otherwise verbose
// commands log to stderr, except the interactive reader, which owns the
// terminal and gets a no-op logger.
func newLogger(logFile string, verbose, interactive bool) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	switch {
	case logFile != "":
		config := zap.NewProductionConfig()
		config.Level = level
		config.OutputPaths = []string{logFile}
		config.ErrorOutputPaths = []string{logFile}
		return config.Build()
	case verbose && !interactive:
		config := zap.NewDevelopmentConfig()
		config.Level = level
		return config.Build()
	default:
		return zap.NewNop(), nil
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
