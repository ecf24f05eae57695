// alacharts renders the performance report for the most recent pair of
// exported telemetry logs: a GPU metrics grid, a CPU/memory metrics grid, a
// game-performance grid and a cross-metric correlation heatmap, saved as
// PNGs into a fresh per-run output directory and optionally displayed in a
// window.
//
// Data discovery, panel layout, the correlation whitelist and the join
// tolerance are compile-time configuration (config.go); flags only relocate
// the data/output directories and control display and verbosity.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/PuddingTower/adrenalin-log-analyzer/src/analysis"
	"github.com/PuddingTower/adrenalin-log-analyzer/src/charts"
	"github.com/PuddingTower/adrenalin-log-analyzer/src/telemetry"
)

var (
	flagDir      = flag.String("dir", "", "directory holding the exported CSV logs (default: the executable's directory)")
	flagOut      = flag.String("out", "", "parent directory for the report directory (default: same as -dir)")
	flagShow     = flag.Bool("show", false, "display the generated charts in a window after saving")
	flagLogLevel = flag.String("loglevel", "info", "log level: debug, info, warn, error")
)

// figure is one saved report artifact, kept in memory for the viewer.
type figure struct {
	Name  string
	Image image.Image
}

func main() {
	flag.Parse()
	telemetry.SetLogLevel(*flagLogLevel)
	figures, err := run(*flagDir, *flagOut)
	if err != nil {
		telemetry.Errorf("%v", err)
		os.Exit(1)
	}
	if *flagShow && len(figures) > 0 {
		showFigures(figures)
	}
}

// run executes the whole pipeline once and returns the figures it saved.
func run(dataDir, outParent string) ([]figure, error) {
	if dataDir == "" {
		dataDir = executableDir()
	}
	if outParent == "" {
		outParent = dataDir
	}

	hwPath, _ := telemetry.FindLatestFile(dataDir, hardwarePattern)
	fpsPath, _ := telemetry.FindLatestFile(dataDir, fpsPattern)
	hw := telemetry.LoadAndClean(hwPath, "Hardware")
	fps := telemetry.LoadAndClean(fpsPath, "FPS.Latency")
	if hw.Empty() && fps.Empty() {
		return nil, fmt.Errorf("no usable data in %s for %q or %q", dataDir, hardwarePattern, fpsPattern)
	}

	outDir := filepath.Join(outParent, "analysis_report_"+time.Now().Format("20060102_150405"))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}
	telemetry.Infof("report directory: %s", outDir)

	var figures []figure
	save := func(name string, img image.Image) {
		if err := savePNG(outDir, name, img); err != nil {
			// A failed save never blocks the remaining charts.
			telemetry.Errorf("save %s: %v", name, err)
			return
		}
		figures = append(figures, figure{Name: name, Image: img})
	}

	if !hw.Empty() {
		telemetry.Infof("generating hardware charts")
		save("gpu_metrics.png", charts.RenderGrid(hw, gpuPanels, 2, "GPU Metrics Over Time", panelW, panelH))
		save("cpu_memory_metrics.png", charts.RenderGrid(hw, cpuMemPanels, 2, "CPU and Memory Metrics Over Time", panelW, panelH))
	}
	if !fps.Empty() {
		telemetry.Infof("generating game-performance charts")
		save("game_performance.png", charts.RenderGrid(fps, fpsPanels, 2, "Game Performance Metrics Over Time", panelW, panelH))
	}
	if !hw.Empty() && !fps.Empty() {
		telemetry.Infof("merging data for correlation analysis")
		merged, unmatched := analysis.MergeNearest(fps, hw, mergeTolerance)
		if unmatched > 0 {
			telemetry.Infof("correlation merge: %d of %d rows without a hardware sample within %s", unmatched, merged.Len(), mergeTolerance)
		}
		if matrix, ok := analysis.Correlation(merged, correlationColumns); ok {
			img, err := charts.RenderHeatmap(matrix, "Key Performance Metric Correlations")
			if err != nil {
				telemetry.Errorf("render heatmap: %v", err)
			} else {
				save("correlation_heatmap.png", img)
			}
		}
	}

	telemetry.Infof("analysis complete: %d figures in %s", len(figures), outDir)
	return figures, nil
}

func savePNG(dir, name string, img image.Image) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	telemetry.Infof("saved %s", path)
	return nil
}

// executableDir mirrors the exporters' convention of dropping logs next to
// the analyzer binary; falls back to the working directory.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
