package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"goskim/internal/cache"
	"goskim/internal/config"
	"goskim/internal/runner"
	"goskim/internal/skim"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Skim flags
	modeFlag     string
	languageFlag string
	noHeader     bool
	jobs         int
	noCache      bool
	showStats    bool

	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "goskim [path|glob|-]",
	Short: "goskim - skim source files down to their structure",
	Long: `goskim strips function bodies from source code, leaving signatures,
types, and structure. Point it at a file, a directory, a glob pattern
(quote it so your shell does not expand it), or pass - to read stdin.

Modes:
  structure   signatures with bodies replaced by { /* ... */ } (default)
  signatures  signature lines only
  types       type definitions only
  full        unmodified passthrough

JSON and YAML inputs reduce to their key structure; Markdown reduces to
its headers.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build(zap.Fields(zap.String("run_id", uuid.NewString())))
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	Args: cobra.ExactArgs(1),
	RunE: runSkim,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: user config dir)")

	rootCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Transformation mode: structure|signatures|types|full")
	rootCmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Language override (required for stdin)")
	rootCmd.Flags().BoolVar(&noHeader, "no-header", false, "Suppress per-file headers in multi-file output")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, fmt.Sprintf("Worker parallelism, 1-%d (default: CPU count)", runner.MaxJobs))
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the result cache")
	rootCmd.Flags().BoolVar(&showStats, "show-stats", false, "Report token reduction on stderr")

	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(languagesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSkim(cmd *cobra.Command, args []string) error {
	opts, c, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	if c != nil {
		defer c.Close()
	}

	arg := args[0]
	r := runner.New(opts)

	if arg == "-" {
		return r.ProcessReader(cmd.Context(), os.Stdin, os.Stdout, os.Stderr)
	}

	paths, err := resolveInput(arg)
	if err != nil {
		return err
	}
	return r.ProcessAll(cmd.Context(), paths, os.Stdout, os.Stderr)
}

// buildOptions merges flags over the loaded config. Flags win when set.
func buildOptions(cmd *cobra.Command) (runner.Options, *cache.Cache, error) {
	modeName := cfg.Mode
	if cmd.Flags().Changed("mode") {
		modeName = modeFlag
	}
	mode, ok := skim.ParseMode(modeName)
	if !ok {
		return runner.Options{}, nil, fmt.Errorf("unknown mode %q (want structure, signatures, types, or full)", modeName)
	}

	var lang skim.Language
	if languageFlag != "" {
		lang, ok = skim.ParseLanguage(languageFlag)
		if !ok {
			return runner.Options{}, nil, fmt.Errorf("unknown language %q (see 'goskim languages')", languageFlag)
		}
	}

	jobCount := cfg.Jobs
	if cmd.Flags().Changed("jobs") {
		jobCount = jobs
	}
	if err := validateJobs(jobCount); err != nil {
		return runner.Options{}, nil, err
	}

	var c *cache.Cache
	if cfg.Cache.Enabled && !noCache {
		path := cfg.Cache.Path
		if path == "" {
			var err error
			path, err = cache.DefaultPath()
			if err != nil {
				return runner.Options{}, nil, err
			}
		}
		var err error
		c, err = cache.Open(path)
		if err != nil {
			// A broken cache should not block skimming.
			logger.Warn("cache unavailable", zap.String("path", path), zap.Error(err))
			c = nil
		}
	}

	return runner.Options{
		Mode:      mode,
		Language:  lang,
		NoHeader:  noHeader || cfg.Output.NoHeader,
		Jobs:      jobCount,
		ShowStats: showStats || cfg.Output.ShowStats,
		Cache:     c,
		Logger:    logger,
	}, c, nil
}

// validateJobs accepts 0 (meaning CPU count) or 1..MaxJobs.
func validateJobs(n int) error {
	if n < 0 || n > runner.MaxJobs {
		return fmt.Errorf("jobs must be between 1 and %d, got %d", runner.MaxJobs, n)
	}
	return nil
}

// resolveInput turns the positional argument into a list of files.
func resolveInput(arg string) ([]string, error) {
	if runner.HasGlobPattern(arg) {
		files, err := runner.ExpandGlob(arg)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no files match pattern %q", arg)
		}
		return files, nil
	}

	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		files, err := runner.CollectDir(arg)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no supported files under %s", arg)
		}
		return files, nil
	}
	return []string{arg}, nil
}
