package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"goskim/internal/runner"
	"goskim/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and re-skim files as they change",
	Long: `Watches a directory tree and prints fresh skimmed output whenever a
supported source file is created or modified. Changes are debounced so a
rapid series of saves produces one skim. Press Ctrl-C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Transformation mode: structure|signatures|types|full")
	watchCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the result cache")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target must be a directory: %s", dir)
	}

	opts, c, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	if c != nil {
		defer c.Close()
	}

	r := runner.New(opts)
	w, err := watch.New(dir, r, printResult, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "watching %s (Ctrl-C to stop)\n", dir)

	<-ctx.Done()
	w.Stop()

	stats := w.GetStats()
	logger.Info("watch finished",
		zap.Int("skims", stats.SkimsTriggered),
		zap.Int("errors", stats.Errors))
	return nil
}

func printResult(path string, result *runner.FileResult) {
	fmt.Printf("// === %s ===\n%s\n", path, result.Output)
	if result.Stats != nil {
		fmt.Fprintf(os.Stderr, "[goskim] %s\n", result.Stats.Format())
	}
}
