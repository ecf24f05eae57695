package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/PuddingTower/adrenalin-log-analyzer/src/telemetry"
)

// lineStyle returns a stroked line style; dash is nil for a solid line.
func lineStyle(col drawing.Color, dash []float64) chart.Style {
	return chart.Style{
		StrokeWidth:     1.5,
		StrokeColor:     col,
		StrokeDashArray: dash,
	}
}

var gridStyle = chart.Style{
	StrokeColor:     chart.ColorAlternateGray.WithAlpha(140),
	StrokeWidth:     1.0,
	StrokeDashArray: []float64{2.0, 2.0},
}

// linePalette colors the lines of a composite panel in declaration order.
var linePalette = []drawing.Color{chart.ColorBlue, chart.ColorGreen, chart.ColorRed, chart.ColorAlternateGray}

// RenderPanel draws one time-series panel for spec over t. It never fails:
// when the panel's column(s) are absent or hold no values it returns a
// placeholder image carrying a "data missing" note, and an internal render
// error degrades to the same placeholder.
func RenderPanel(t *telemetry.Table, spec PlotSpec, w, h int) image.Image {
	var series []chart.Series
	if len(spec.Lines) > 0 {
		series = compositeSeries(t, spec)
	} else {
		series = singleSeries(t, spec)
	}
	if len(series) == 0 {
		return placeholder(spec.Title, w, h)
	}

	minY, maxY := seriesBounds(series)
	var yRange *chart.ContinuousRange
	var yTicks []chart.Tick
	if minY <= maxY {
		nMin, nMax := niceAxisBounds(minY, maxY)
		yRange = &chart.ContinuousRange{Min: nMin, Max: nMax}
		yTicks = niceTicks(nMin, nMax, 6)
	}

	ch := chart.Chart{
		Title:      spec.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 40}},
		XAxis:      timeXAxis(t.Times),
		YAxis: chart.YAxis{
			Name:           spec.YLabel,
			Range:          yRange,
			Ticks:          yTicks,
			GridMajorStyle: gridStyle,
		},
		Series: series,
	}
	ch.XAxis.GridMajorStyle = gridStyle
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		telemetry.Warnf("panel %q render error: %v; using placeholder", spec.Title, err)
		return placeholder(spec.Title, w, h)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		telemetry.Warnf("panel %q decode error: %v; using placeholder", spec.Title, err)
		return placeholder(spec.Title, w, h)
	}
	return img
}

// singleSeries builds the primary line plus the optional dashed overlay.
// Nil when the primary column is absent or entirely missing.
func singleSeries(t *telemetry.Table, spec PlotSpec) []chart.Series {
	if !t.ColumnHasData(spec.Column) {
		return nil
	}
	series := []chart.Series{timeSeries(spec.Column, t.Times, t.Column(spec.Column), lineStyle(chart.ColorBlue, nil))}
	if spec.ExtraColumn != "" && t.ColumnHasData(spec.ExtraColumn) {
		label := spec.ExtraLabel
		if label == "" {
			label = spec.ExtraColumn
		}
		series = append(series, timeSeries(label, t.Times, t.Column(spec.ExtraColumn), lineStyle(chart.ColorRed, []float64{5.0, 5.0})))
	}
	return series
}

// compositeSeries plots each named line that has any data, filling missing
// cells with zero (composite indicator panels chart rates and counters where
// an absent sample reads as "none observed").
func compositeSeries(t *telemetry.Table, spec PlotSpec) []chart.Series {
	var series []chart.Series
	for i, ln := range spec.Lines {
		if !t.ColumnHasData(ln.Column) {
			continue
		}
		ys := make([]float64, t.Len())
		for j, v := range t.Column(ln.Column) {
			if math.IsNaN(v) {
				ys[j] = 0
			} else {
				ys[j] = v
			}
		}
		label := ln.Label
		if label == "" {
			label = ln.Column
		}
		series = append(series, timeSeries(label, t.Times, ys, lineStyle(linePalette[i%len(linePalette)], ln.Dash)))
	}
	return series
}

// timeSeries pads single-row tables to two X values; go-chart cannot render
// a zero-width X range.
func timeSeries(name string, times []time.Time, ys []float64, st chart.Style) chart.Series {
	if len(times) == 1 {
		return chart.TimeSeries{
			Name:    name,
			XValues: []time.Time{times[0], times[0].Add(1 * time.Second)},
			YValues: []float64{ys[0], ys[0]},
			Style:   st,
		}
	}
	xs := make([]time.Time, len(times))
	copy(xs, times)
	vals := make([]float64, len(ys))
	copy(vals, ys)
	return chart.TimeSeries{Name: name, XValues: xs, YValues: vals, Style: st}
}

func seriesBounds(series []chart.Series) (float64, float64) {
	minY, maxY := math.MaxFloat64, -math.MaxFloat64
	for _, s := range series {
		ts, ok := s.(chart.TimeSeries)
		if !ok {
			continue
		}
		for _, v := range ts.YValues {
			if math.IsNaN(v) {
				continue
			}
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}
	return minY, maxY
}

// timeXAxis builds a time-formatted X axis with rounded ticks over the span.
func timeXAxis(times []time.Time) chart.XAxis {
	if len(times) == 0 {
		return chart.XAxis{Name: "Time"}
	}
	minT, maxT := times[0], times[0]
	for _, ts := range times[1:] {
		if ts.Before(minT) {
			minT = ts
		}
		if ts.After(maxT) {
			maxT = ts
		}
	}
	step, labFmt := pickTimeStep(maxT.Sub(minT))
	ticks := makeNiceTimeTicks(minT, maxT, step, labFmt)
	if len(times) == 1 && len(ticks) < 2 {
		ticks = append(ticks, chart.Tick{Value: float64(chart.TimeToFloat64(minT.Add(step))), Label: minT.Add(step).Local().Format(labFmt)})
	}
	minF := float64(chart.TimeToFloat64(minT))
	maxF := float64(chart.TimeToFloat64(maxT))
	if maxF <= minF {
		maxF = minF + float64(step/time.Second)
		if maxF <= minF {
			maxF = minF + 1
		}
	}
	return chart.XAxis{Name: "Time", Ticks: ticks, Range: &chart.ContinuousRange{Min: minF, Max: maxF}}
}

// pickTimeStep selects a readable tick step and label format for a span.
func pickTimeStep(span time.Duration) (time.Duration, string) {
	switch {
	case span <= 2*time.Minute:
		return 10 * time.Second, "15:04:05"
	case span <= 10*time.Minute:
		return 1 * time.Minute, "15:04:05"
	case span <= 30*time.Minute:
		return 5 * time.Minute, "15:04"
	case span <= 2*time.Hour:
		return 10 * time.Minute, "15:04"
	case span <= 6*time.Hour:
		return 30 * time.Minute, "Jan 2 15:04"
	case span <= 24*time.Hour:
		return 1 * time.Hour, "Jan 2 15:04"
	default:
		return 6 * time.Hour, "Jan 2 15:04"
	}
}

// makeNiceTimeTicks returns rounded ticks between min and max at the given step.
func makeNiceTimeTicks(minT, maxT time.Time, step time.Duration, labelFmt string) []chart.Tick {
	if step <= 0 {
		return nil
	}
	// Align the first tick down to a step boundary in UTC to avoid DST anomalies.
	s := minT.UTC().Unix()
	st := int64(step.Seconds())
	if st <= 0 {
		st = 1
	}
	aligned := time.Unix((s/st)*st, 0).UTC()
	ticks := []chart.Tick{}
	for t := aligned; !t.After(maxT.UTC().Add(step)); t = t.Add(step) {
		ticks = append(ticks, chart.Tick{Value: float64(chart.TimeToFloat64(t)), Label: t.Local().Format(labelFmt)})
		if len(ticks) > 20 { // keep it readable
			break
		}
	}
	return ticks
}

// niceAxisBounds expands [min,max] by a small margin and rounds to "nice" numbers.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	if pad <= 0 {
		pad = 1
	}
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates up to n tick marks between [min, max] using nice increments.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	candidates := []float64{1, 2, 2.5, 5, 10}
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range candidates {
		step := c * mag
		count := math.Ceil((max - min) / step)
		if count < 2 {
			count = 2
		}
		score := math.Abs(count - float64(n))
		if score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for v := start; v <= end+bestStep/2; v += bestStep {
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	if v == 0 {
		return "0"
	}
	switch av := math.Abs(v); {
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// placeholder renders the "data missing" panel: framed blank surface, the
// panel title with a missing-data suffix, and a centered note.
func placeholder(title string, w, h int) image.Image {
	img := blankPanel(w, h)
	drawLabelCentered(img, fmt.Sprintf("%s (data missing)", title), h/2-16)
	drawLabelCentered(img, "data missing", h/2+4)
	return img
}

func blankPanel(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	border := image.NewUniform(color.RGBA{R: 180, G: 180, B: 180, A: 255})
	for x := 0; x < w; x++ {
		img.Set(x, 0, border.C)
		img.Set(x, h-1, border.C)
	}
	for y := 0; y < h; y++ {
		img.Set(0, y, border.C)
		img.Set(w-1, y, border.C)
	}
	return img
}

// drawLabelCentered draws one line of text horizontally centered at baseline y.
func drawLabelCentered(img *image.RGBA, text string, y int) {
	face := basicfont.Face7x13
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 90, G: 90, B: 90, A: 255}),
		Face: face,
	}
	tw := dr.MeasureString(text).Ceil()
	x := (img.Bounds().Dx() - tw) / 2
	if x < 4 {
		x = 4
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(img.Bounds().Min.X + x), Y: fixed.I(y)}
	dr.DrawString(text)
}

// RenderGrid composes the panels for specs into a cols-wide grid under a
// centered title band. Panels render independently; a missing metric in one
// never blocks the others.
func RenderGrid(t *telemetry.Table, specs []PlotSpec, cols int, title string, panelW, panelH int) image.Image {
	if cols < 1 {
		cols = 1
	}
	rows := (len(specs) + cols - 1) / cols
	const titleBand = 32
	out := image.NewRGBA(image.Rect(0, 0, cols*panelW, rows*panelH+titleBand))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	drawLabelCentered(out, title, titleBand/2+5)
	for i, spec := range specs {
		panel := RenderPanel(t, spec, panelW, panelH)
		x := (i % cols) * panelW
		y := (i/cols)*panelH + titleBand
		r := image.Rect(x, y, x+panelW, y+panelH)
		draw.Draw(out, r, panel, panel.Bounds().Min, draw.Src)
	}
	return out
}
