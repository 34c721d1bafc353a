package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/gravview/config"
	"github.com/pthm-cable/gravview/game"
	"github.com/pthm-cable/gravview/host/headless"
	"github.com/pthm-cable/gravview/host/terminal"
	"github.com/pthm-cable/gravview/host/window"
	"github.com/pthm-cable/gravview/scenario"
	"github.com/pthm-cable/gravview/scheduler"
)

var (
	configPath   string
	scenarioPath string
	outputDir    string
	logStats     bool
	maxFrames    int

	logFile       string
	snapshotPath  string
	paced         bool
	deterministic bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "gravview",
		Short:        "real-time viewer for a gravitational n-body engine",
		SilenceUsage: true,
		RunE:         runWindow,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (empty = use defaults)")
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "initial particles (.yaml, .yml or .csv); overrides config")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "directory for frames.csv and config snapshot")
	rootCmd.PersistentFlags().BoolVar(&logStats, "log-stats", false, "log fps and engine stats periodically")
	rootCmd.PersistentFlags().IntVar(&maxFrames, "max-frames", 0, "stop after N frames (0 = unlimited)")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "open a raylib window (default)",
		RunE:  runWindow,
	}

	terminalCmd := &cobra.Command{
		Use:   "terminal",
		Short: "draw into the terminal",
		RunE:  runTerminal,
	}
	terminalCmd.Flags().StringVar(&logFile, "log-file", "", "write logs here (stdout is the screen)")

	headlessCmd := &cobra.Command{
		Use:   "headless",
		Short: "render off-screen and print a run report",
		RunE:  runHeadless,
	}
	headlessCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "write the final frame as PNG")
	headlessCmd.Flags().BoolVar(&paced, "paced", false, "tick at the target fps instead of back to back")
	headlessCmd.Flags().BoolVar(&deterministic, "deterministic", false, "use a manual clock advanced one target interval per frame")

	rootCmd.AddCommand(windowCmd, terminalCmd, headlessCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and the scenario override, installs the default
// logger and returns options shared by every host.
func setup(logOut io.Writer) (game.Options, error) {
	// Set up slog (JSON for structured logging)
	logger := slog.New(slog.NewJSONHandler(logOut, nil))
	slog.SetDefault(logger)

	if err := config.Init(configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		return game.Options{}, err
	}
	cfg := config.Cfg()

	opts := game.Options{
		Config:    cfg,
		LogStats:  logStats,
		OutputDir: outputDir,
		Logger:    logger,
	}
	if scenarioPath != "" {
		ps, err := scenario.Load(scenarioPath)
		if err != nil {
			slog.Error("failed to load scenario", "path", scenarioPath, "error", err)
			return game.Options{}, err
		}
		opts.Particles = ps
	}

	slog.Info("starting",
		"config", configPath,
		"scenario", scenarioPath,
		"output_dir", outputDir,
		"max_frames", maxFrames,
	)
	return opts, nil
}

// runContext is cancelled on SIGINT/SIGTERM, or after maxFrames frames.
func runContext(opts *game.Options) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if maxFrames > 0 {
		limit := uint64(maxFrames)
		opts.OnFrame = func(r scheduler.Report) {
			if r.Frame >= limit {
				stop()
			}
		}
	}
	return ctx, stop
}

func runWindow(cmd *cobra.Command, args []string) error {
	opts, err := setup(os.Stdout)
	if err != nil {
		return err
	}
	ctx, stop := runContext(&opts)
	defer stop()

	if err := window.Run(ctx, opts); err != nil && ctx.Err() == nil {
		slog.Error("window run failed", "error", err)
		return err
	}
	return nil
}

func runTerminal(cmd *cobra.Command, args []string) error {
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			return fmt.Errorf("creating log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	opts, err := setup(logOut)
	if err != nil {
		return err
	}
	ctx, stop := runContext(&opts)
	defer stop()

	if err := terminal.Run(ctx, opts); err != nil && ctx.Err() == nil {
		slog.Error("terminal run failed", "error", err)
		return err
	}
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	opts, err := setup(os.Stderr)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := headless.Run(ctx, opts, headless.Options{
		Frames:        maxFrames,
		Paced:         paced,
		Deterministic: deterministic,
		Snapshot:      snapshotPath,
		Report:        os.Stdout,
	})
	if err != nil {
		slog.Error("headless run failed", "error", err)
		return err
	}
	slog.Info("headless run complete",
		"frames", res.Frames,
		"particles", res.Particles,
		"summary", res.Summary,
	)
	return nil
}
