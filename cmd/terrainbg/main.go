package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/terrainbg/internal/analysis"
	"github.com/san-kum/terrainbg/internal/compute"
	"github.com/san-kum/terrainbg/internal/config"
	"github.com/san-kum/terrainbg/internal/export"
	"github.com/san-kum/terrainbg/internal/gui"
	"github.com/san-kum/terrainbg/internal/logging"
	"github.com/san-kum/terrainbg/internal/quality"
	"github.com/san-kum/terrainbg/internal/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile    string
	tierName      string
	backendName   string
	logLevel      string
	reducedMotion bool
	width         int
	height        int

	// snapshot
	output   string
	format   string
	atMillis float64
	flatten  bool

	// bench
	duration float64
	refresh  float64
	hidden   float64

	// analyze
	sampleX    float64
	sampleY    float64
	samples    int
	stepMillis float64

	savePath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "terrainbg",
		Short:             "procedural contour terrain background",
		PersistentPreRunE: setup,
		RunE:              runWindow,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&tierName, "tier", "", "quality tier: minimal, low or high (default: detect)")
	pf.StringVar(&backendName, "backend", "", "render backend: auto, cpu or raylib")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&reducedMotion, "reduced-motion", false, "request reduced motion")
	pf.IntVar(&width, "width", 0, "container width in pixels")
	pf.IntVar(&height, "height", 0, "container height in pixels")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "open the background in a window",
		RunE:  runWindow,
	}

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "render the background in the terminal",
		RunE:  runPreview,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one frame to PNG or contour SVG",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().StringVarP(&output, "out", "o", "", "output file (default: terrain.<format>)")
	snapshotCmd.Flags().StringVar(&format, "format", "png", "png or svg")
	snapshotCmd.Flags().Float64Var(&atMillis, "at", 0, "animation time in ms since start")
	snapshotCmd.Flags().BoolVar(&flatten, "flatten", false, "composite PNG over the background colour")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "drive the render loop on a simulated host and report frame pacing",
		RunE:  runBench,
	}
	benchCmd.Flags().Float64Var(&duration, "time", 3000, "simulated duration in ms")
	benchCmd.Flags().Float64Var(&refresh, "hz", 60, "simulated display refresh rate")
	benchCmd.Flags().Float64Var(&hidden, "hidden", 0, "ms to keep the page hidden halfway through")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "elevation trace and spectrum at one terrain point",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().Float64Var(&sampleX, "x", 0, "terrain x")
	analyzeCmd.Flags().Float64Var(&sampleY, "y", 0, "terrain y")
	analyzeCmd.Flags().IntVar(&samples, "samples", 1024, "number of samples")
	analyzeCmd.Flags().Float64Var(&stepMillis, "step", 100, "ms between samples")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved render configuration",
		RunE:  showConfig,
	}
	configCmd.Flags().StringVar(&savePath, "save", "", "also write the application config to this path")

	tiersCmd := &cobra.Command{
		Use:   "tiers",
		Short: "list quality tiers",
		RunE:  listTiers,
	}

	rootCmd.AddCommand(runCmd, previewCmd, snapshotCmd, benchCmd, analyzeCmd, configCmd, tiersCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	appCfg *config.Config
	render config.Render
)

// setup loads the config file, applies flag overrides, installs the logger
// and resolves the tier.
func setup(cmd *cobra.Command, args []string) error {
	appCfg = config.DefaultConfig()
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appCfg = cfg
	}

	flags := cmd.Flags()
	if flags.Changed("tier") {
		appCfg.Tier = tierName
	}
	if flags.Changed("backend") {
		appCfg.Backend = backendName
	}
	if flags.Changed("log-level") {
		appCfg.LogLevel = logLevel
	}
	if flags.Changed("width") {
		appCfg.Width = width
	}
	if flags.Changed("height") {
		appCfg.Height = height
	}

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(appCfg.LogLevel),
	})))

	signals := quality.Detect()
	if reducedMotion {
		signals.ReducedMotion = true
	}
	tier, err := appCfg.ResolveTier(signals)
	if err != nil {
		return err
	}
	render = config.Resolve(tier)

	logging.Logger().Debug("resolved tier",
		"tier", tier,
		"mobile", signals.Mobile(),
		"memory_gb", signals.DeviceMemory,
		"reduced_motion", signals.ReducedMotion)
	return nil
}

func runWindow(cmd *cobra.Command, args []string) error {
	factory, err := compute.NewBackend(appCfg.Backend)
	if err != nil {
		return err
	}
	return gui.Run(*appCfg, render, factory)
}

func runPreview(cmd *cobra.Command, args []string) error {
	return tui.Run(*appCfg, render)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	format = strings.ToLower(format)
	if format != "png" && format != "svg" {
		return fmt.Errorf("unknown format: %s (want png or svg)", format)
	}
	if output == "" {
		output = appCfg.Output
	}
	if output == "" {
		output = "terrain." + format
	}

	cpu := compute.NewCPUBackend()
	if err := cpu.Init(render, appCfg.Width, appCfg.Height, 1); err != nil {
		return err
	}
	defer cpu.Cleanup()

	cpu.SetTime(float32(atMillis * render.NoiseSpeed))
	if err := cpu.Render(); err != nil {
		return err
	}

	switch format {
	case "svg":
		field, w, h := cpu.Field()
		svg := export.ContourSVG(field, w, h, render)
		if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
			return err
		}
	default:
		img := cpu.Image()
		if flatten {
			if err := export.WritePNG(output, compute.Flatten(img, render.BackgroundColor)); err != nil {
				return err
			}
		} else if err := export.WritePNG(output, img); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %s (%dx%d, tier %s, t=%.0fms)\n", output, appCfg.Width, appCfg.Height, render.Tier, atMillis)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	if refresh <= 0 {
		return fmt.Errorf("refresh rate must be positive")
	}

	fmt.Printf("simulating %.0fms at %.0fHz, tier %s (target %d fps)\n", duration, refresh, render.Tier, render.TargetFPS)

	m := simulate(appCfg, render, duration, refresh, hidden)
	defer m.Shutdown()

	stats := m.Stats()
	fmt.Printf("state: %s\n", m.State())
	fmt.Printf("rendered: %d\n", stats.Rendered())
	fmt.Printf("skipped: %d\n", stats.Skipped())
	fmt.Printf("fps: %.1f\n", stats.FPS())
	if l := m.Loop(); l != nil {
		fmt.Printf("noise time: %.6f\n", l.Clock().Time)
	}

	if iv := stats.Intervals(); len(iv) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(iv,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("frame interval (ms)")))
	}
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if samples < 2 || stepMillis <= 0 {
		return fmt.Errorf("need at least 2 samples and a positive step")
	}

	trace := analysis.ElevationTrace(render, sampleX, sampleY, samples, stepMillis)

	fmt.Printf("elevation at (%.1f, %.1f), tier %s\n", sampleX, sampleY, render.Tier)
	fmt.Println(asciigraph.Plot(trace,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption("elevation")))

	spectrum := analysis.PowerSpectrum(trace)
	if len(spectrum) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spectrum[1:],
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption("power spectrum")))
	}

	fmt.Printf("\ndominant frequency: %.4f Hz\n", analysis.DominantFrequency(trace, stepMillis))
	fmt.Printf("max step: %.6f\n", analysis.MaxStep(trace))
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	out, err := yaml.Marshal(render)
	if err != nil {
		return err
	}
	fmt.Print(string(out))

	if savePath != "" {
		if err := config.Save(savePath, appCfg); err != nil {
			return err
		}
		fmt.Printf("\nsaved config to %s\n", savePath)
	}
	return nil
}

func listTiers(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIER\tSEGMENTS\tFPS\tANIMATE\tANTIALIAS\tSPEED")
	for _, t := range quality.Tiers {
		r := config.Resolve(t)
		marker := ""
		if t == render.Tier {
			marker = " *"
		}
		fmt.Fprintf(w, "%s%s\t%d\t%d\t%v\t%v\t%g\n", t, marker, r.Segments, r.TargetFPS, r.Animate, r.Antialias, r.NoiseSpeed)
	}
	return w.Flush()
}
