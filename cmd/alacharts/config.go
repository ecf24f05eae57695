package main

import (
	"time"

	"github.com/PuddingTower/adrenalin-log-analyzer/src/charts"
)

// File discovery patterns for the two exported log categories.
const (
	hardwarePattern = "Hardware.*.CSV"
	fpsPattern      = "FPS.Latency.*.CSV"
)

// mergeTolerance bounds the nearest-timestamp join between the FPS and
// hardware tables. The exporters sample independently at ~1s, so 2s pairs
// adjacent samples without bridging real gaps.
const mergeTolerance = 2 * time.Second

// Panel geometry and grid shapes mirror the report layout: GPU 3x2,
// CPU/memory 2x2, FPS 2x2.
const (
	panelW = 900
	panelH = 500
)

var gpuPanels = []charts.PlotSpec{
	{Column: "GPU 1 UTIL", Title: "GPU Utilization", YLabel: "Utilization (%)"},
	{Column: "GPU 1 SCLK", Title: "GPU Core Clock", YLabel: "Clock (MHz)"},
	{Column: "GPU 1 BRD PWR", Title: "GPU Board Power", YLabel: "Power (W)"},
	{Column: "GPU 1 TEMP", Title: "GPU Temperature", YLabel: "Temperature (°C)",
		ExtraColumn: "GPU 1 HOTSPOT TEMP", ExtraLabel: "Hotspot"},
	{Column: "GPU 1 FAN", Title: "GPU Fan Speed", YLabel: "Speed (RPM)"},
	{Column: "GPU MEM 1 UTIL", Title: "GPU Memory Used", YLabel: "Memory (MB)"},
}

var cpuMemPanels = []charts.PlotSpec{
	{Column: "CPU UTIL", Title: "CPU Utilization", YLabel: "Utilization (%)"},
	{Column: "CPU FREQUENCY", Title: "CPU Frequency", YLabel: "Frequency (GHz)"},
	{Column: "CPU TEMPERATURE", Title: "CPU Temperature", YLabel: "Temperature (°C)"},
	{Column: "SYSTEM MEM UTIL", Title: "System Memory Utilization", YLabel: "Utilization (%)"},
}

var fpsPanels = []charts.PlotSpec{
	{Column: "FPS", Title: "FPS", YLabel: "FPS"},
	{Column: "AVG FRAME TIME", Title: "Average Frame Time", YLabel: "Frame time (ms)"},
	{Column: "99th% FPS", Title: "99th Percentile FPS", YLabel: "FPS"},
	{Title: "Stutter", YLabel: "Rate / count", Lines: []charts.LineSpec{
		{Column: "MICRO STUTTER", Label: "Micro stutter", Dash: []float64{5.0, 5.0}},
		{Column: "HEAVY STUTTER RATE", Label: "Heavy stutter rate", Dash: []float64{2.0, 2.0}},
	}},
}

// correlationColumns is the fixed whitelist of metrics considered for the
// cross-metric heatmap; only the ones actually present in the merged table
// take part.
var correlationColumns = []string{
	"FPS", "99th% FPS", "AVG FRAME TIME",
	"GPU 1 UTIL", "GPU 1 SCLK", "GPU 1 BRD PWR", "GPU 1 TEMP",
	"CPU UTIL", "CPU FREQUENCY", "CPU TEMPERATURE", "SYSTEM MEM UTIL",
}
