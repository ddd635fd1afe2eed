package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/circlerender/internal/compute"
	"github.com/san-kum/circlerender/internal/config"
	"github.com/san-kum/circlerender/internal/experiment"
	"github.com/san-kum/circlerender/internal/metrics"
	"github.com/san-kum/circlerender/internal/render"
	"github.com/san-kum/circlerender/internal/renderer"
	"github.com/san-kum/circlerender/internal/scene"
	"github.com/san-kum/circlerender/internal/storage"
	"github.com/san-kum/circlerender/internal/viz"
)

const (
	previewCols = 64
	previewRows = 24
)

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exp := experiment.New(experiment.FromConfig(cfg))
	if err := exp.Setup(metrics.Standard()); err != nil {
		return err
	}
	defer exp.Close()

	start := time.Now()
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("scene: %s (%s)\n", cfg.Scene, cfg.SceneName().Describe())
	fmt.Printf("image: %dx%d, %d frames in %v (%.1f fps)\n",
		cfg.Width, cfg.Height, len(res.Samples), elapsed.Round(time.Millisecond),
		float64(len(res.Samples))/elapsed.Seconds())
	fmt.Printf("backend: %s/%d workers, compositor: %s, tile: %d\n",
		cfg.Backend, exp.Renderer().Workers(), cfg.Compositor, cfg.TileSize)
	if n := len(res.Samples); n > 0 {
		last := res.Samples[n-1].Stats
		fmt.Printf("last frame: %d visible of %d, %d tile pairs, %d blends\n",
			last.Visible, last.Circles, last.Pairs, last.Blends)
	}
	fmt.Printf("checksum: %016x\n", res.Checksum)

	if showPreview {
		fmt.Println()
		fmt.Print(viz.HalfBlocks(res.Final, previewCols, previewRows))
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	r := renderer.New(
		renderer.WithBackend(cfg.Backend, cfg.Workers),
		renderer.WithCompositor(cfg.Compositor),
		renderer.WithTileSize(cfg.TileSize),
	)
	defer r.Close()
	if err := r.Setup(); err != nil {
		return err
	}
	if err := r.LoadScene(cfg.SceneName()); err != nil {
		return err
	}
	if err := r.AllocOutputImage(cfg.Width, cfg.Height); err != nil {
		return err
	}
	return viz.Run(r, cfg.SceneName(), frameRate)
}

type phaseSummary struct {
	name           string
	mean, min, max float64
}

func summarize(name string, values []float64) phaseSummary {
	s := phaseSummary{name: name}
	if len(values) == 0 {
		return s
	}
	s.min, s.max = values[0], values[0]
	for _, v := range values {
		s.mean += v
		s.min = min(s.min, v)
		s.max = max(s.max, v)
	}
	s.mean /= float64(len(values))
	return s
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ms := metrics.Standard()
	exp := experiment.New(experiment.FromConfig(cfg))
	if err := exp.Setup(ms); err != nil {
		return err
	}
	defer exp.Close()

	fmt.Printf("benchmarking %s at %dx%d, %d frames\n\n", cfg.Scene, cfg.Width, cfg.Height, cfg.Frames)
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	records := make([]storage.FrameRecord, len(res.Samples))
	cleared := make([]float64, len(records))
	advance := make([]float64, len(records))
	rendered := make([]float64, len(records))
	for i, s := range res.Samples {
		records[i] = storage.RecordOf(s)
		cleared[i] = records[i].ClearMS
		advance[i] = records[i].AdvanceMS
		rendered[i] = records[i].RenderMS
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tMEAN\tMIN\tMAX")
	for _, p := range []phaseSummary{
		summarize("clear", cleared),
		summarize("advance", advance),
		summarize("render", rendered),
		summarize("total", res.FrameTimes()),
	} {
		fmt.Fprintf(w, "%s\t%.3fms\t%.3fms\t%.3fms\n", p.name, p.mean, p.min, p.max)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	if len(res.Samples) > 1 {
		fmt.Println(asciigraph.Plot(res.FrameTimes(),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("frame ms"),
		))
		fmt.Println()
	}

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-18s %.3f\n", name, res.Metrics[name])
	}
	fmt.Printf("%-18s %016x\n", "checksum", res.Checksum)

	if !saveRun {
		return nil
	}
	st := storage.New(cfg.DataDir)
	id, err := st.Save(storage.RunMetadata{
		Scene:      cfg.Scene,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Frames:     len(records),
		Backend:    cfg.Backend,
		Workers:    exp.Renderer().Workers(),
		Compositor: cfg.Compositor,
		TileSize:   cfg.TileSize,
		Checksum:   fmt.Sprintf("%016x", res.Checksum),
		Metrics:    res.Metrics,
	}, records)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved run: %s\n", id)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	targets := [][]string{nil}
	if len(args) > 0 {
		targets = targets[:0]
		for _, a := range args {
			targets = append(targets, []string{a})
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tFRAME\tRESULT\tPIXELS\tMAX DELTA")
	for _, target := range targets {
		cfg, err := resolveConfig(cmd, target)
		if err != nil {
			return err
		}

		tiled := experiment.FromConfig(cfg)
		tiled.Compositor = render.KindTiled
		ref := experiment.FromConfig(cfg)
		ref.Backend = compute.KindSerial
		ref.Workers = 1
		ref.Compositor = render.KindReference

		diffs, err := experiment.Compare(ctx, tiled, ref)
		if err != nil {
			return err
		}
		for _, d := range diffs {
			result := "ok"
			if !d.Equal {
				result = "MISMATCH"
				failed++
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%g\n", cfg.Scene, d.Frame, result, d.Pixels, d.MaxDelta)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d frames differ from the reference painter", failed)
	}
	return nil
}

func shadingName(s scene.Shading) string {
	if s == scene.ShadeSnow {
		return "snow"
	}
	return "flat"
}

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tSHADING\tPRESETS\tDESCRIPTION")
	for _, n := range scene.Names() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			n,
			shadingName(n.Shading()),
			strings.Join(config.ListPresets(string(n)), ","),
			n.Describe(),
		)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	name, err := scene.ParseName(args[0])
	if err != nil {
		return err
	}
	presets := config.ListPresets(string(name))
	if len(presets) == 0 {
		fmt.Printf("no presets for %s\n", name)
		return nil
	}

	fmt.Printf("presets for %s:\n", name)
	for _, p := range presets {
		c := config.GetPreset(string(name), p)
		fmt.Printf("  %-10s %dx%d, %d frames", p, c.Width, c.Height, c.Frames)
		if c.Compositor != "" {
			fmt.Printf(", %s", c.Compositor)
		}
		fmt.Println()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tSIZE\tFRAMES\tBACKEND\tCOMPOSITOR\tFRAME MS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%s/%d\t%s\t%.3f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Frames,
			run.Backend, run.Workers,
			run.Compositor,
			run.Metrics["frame_ms"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(records) < 2 {
		return fmt.Errorf("not enough frames to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s at %dx%d\n", meta.Scene, meta.Width, meta.Height)
	fmt.Printf("frames: %d\n\n", len(records))

	series := []struct {
		caption string
		value   func(storage.FrameRecord) float64
	}{
		{"frame ms", storage.FrameRecord.TotalMS},
		{"render ms", func(r storage.FrameRecord) float64 { return r.RenderMS }},
		{"visible circles", func(r storage.FrameRecord) float64 { return float64(r.Visible) }},
	}
	for _, s := range series {
		data := make([]float64, len(records))
		for i, r := range records {
			data[i] = s.value(r)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		))
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	if outFile != "" {
		if err := st.ExportFile(outFile, runID); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", runID, outFile)
		return nil
	}

	return st.Export(os.Stdout, runID)
}
