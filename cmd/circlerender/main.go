package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/circlerender/internal/config"
	"github.com/san-kum/circlerender/internal/renderer"
	"github.com/san-kum/circlerender/internal/scene"
)

var (
	dataDir    string
	configFile string
	logLevel   string

	width      int
	height     int
	frames     int
	workers    int
	backend    string
	compositor string
	tileSize   int
	preset     string

	frameRate   int
	showPreview bool
	saveRun     bool
	outFile     string
)

var logger = slog.New(slog.DiscardHandler)

// main registers the commands and runs the root command, exiting 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "circlerender",
		Short:         "parallel order-preserving circle renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, nil)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDir, "data directory for bench runs")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	renderCmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "render frames and print a summary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}
	renderFlags(renderCmd)
	renderCmd.Flags().BoolVar(&showPreview, "preview", false, "print a colour preview of the last frame")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "render with a live terminal preview",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	renderFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "time the clear/advance/render loop",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	renderFlags(benchCmd)
	benchCmd.Flags().BoolVar(&saveRun, "save", false, "store the run's timings")

	checkCmd := &cobra.Command{
		Use:   "check [scene...]",
		Short: "compare the tiled compositor with the reference painter",
		RunE:  runCheck,
	}
	renderFlags(checkCmd)

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list scene variants",
		RunE:  listScenes,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored bench runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot frame times of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(renderCmd, liveCmd, benchCmd, checkCmd, scenesCmd, presetsCmd, runsCmd, plotCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func renderFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to render")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	cmd.Flags().StringVar(&backend, "backend", "cpu", "compute backend (cpu, serial, shuffled)")
	cmd.Flags().StringVar(&compositor, "compositor", "tiled", "compositor (tiled, reference)")
	cmd.Flags().IntVar(&tileSize, "tile", 32, "tile size in pixels")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func setupLogging(cmd *cobra.Command) error {
	level := logLevel
	if !cmd.Flags().Changed("log-level") && configFile != "" {
		if cfg, err := config.Load(configFile); err == nil {
			level = cfg.LogLevel
		}
	}
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	renderer.SetLogger(logger)
	return nil
}

// resolveConfig layers defaults, the config file, the scene argument, a
// preset and explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if len(args) > 0 {
		name, err := scene.ParseName(args[0])
		if err != nil {
			return nil, err
		}
		cfg.Scene = string(name)
	}

	if preset != "" {
		p := config.GetPreset(string(cfg.SceneName()), preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for scene %s (available: %v)",
				preset, cfg.SceneName(), config.ListPresets(string(cfg.SceneName())))
		}
		cfg = config.Apply(cfg, p)
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("backend") {
		cfg.Backend = backend
	}
	if flags.Changed("compositor") {
		cfg.Compositor = compositor
	}
	if flags.Changed("tile") {
		cfg.TileSize = tileSize
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("config resolved", "scene", cfg.Scene, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"frames", cfg.Frames, "backend", cfg.Backend, "compositor", cfg.Compositor, "tile", cfg.TileSize)
	return cfg, nil
}
