package charts

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/PuddingTower/adrenalin-log-analyzer/src/analysis"
)

// corrGrid adapts a CorrelationMatrix to plotter.GridXYZ. NaN cells (too few
// complete pairs) are neutral zero for coloring; annotation marks them "-".
type corrGrid struct {
	m *analysis.CorrelationMatrix
}

func (g corrGrid) Dims() (c, r int) { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }

func (g corrGrid) Z(c, r int) float64 {
	v := g.m.Data[r][c]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// reversedPalette flips a brewer palette so blue maps to -1 and red to +1,
// matching the usual cool/warm reading of a correlation heatmap.
type reversedPalette struct {
	colors []color.Color
}

func (p reversedPalette) Colors() []color.Color { return p.colors }

func divergingPalette() (palette.Palette, error) {
	base, err := brewer.GetPalette(brewer.TypeDiverging, "RdBu", 11)
	if err != nil {
		return nil, err
	}
	src := base.Colors()
	rev := make([]color.Color, len(src))
	for i, c := range src {
		rev[len(src)-1-i] = c
	}
	return reversedPalette{colors: rev}, nil
}

// RenderHeatmap draws the annotated correlation heatmap for m. The color
// range is fixed at [-1, 1] so runs are visually comparable regardless of
// the correlations actually observed.
func RenderHeatmap(m *analysis.CorrelationMatrix, title string) (image.Image, error) {
	if m == nil || len(m.Columns) == 0 {
		return nil, fmt.Errorf("empty correlation matrix")
	}
	pal, err := divergingPalette()
	if err != nil {
		return nil, fmt.Errorf("heatmap palette: %w", err)
	}
	hm := plotter.NewHeatMap(corrGrid{m: m}, pal)
	hm.Min = -1
	hm.Max = 1

	p := plot.New()
	p.Title.Text = title
	p.Add(hm)

	ticks := make([]plot.Tick, len(m.Columns))
	for i, col := range m.Columns {
		ticks[i] = plot.Tick{Value: float64(i), Label: col}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YTop

	labels, err := cellLabels(m)
	if err != nil {
		return nil, fmt.Errorf("heatmap annotations: %w", err)
	}
	p.Add(labels)

	c := vgimg.New(9*vg.Inch, 8*vg.Inch)
	p.Draw(draw.New(c))
	return c.Image(), nil
}

// cellLabels annotates every cell with its coefficient, "-" when undefined.
func cellLabels(m *analysis.CorrelationMatrix) (*plotter.Labels, error) {
	n := len(m.Columns)
	xy := make(plotter.XYs, 0, n*n)
	strs := make([]string, 0, n*n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xy = append(xy, plotter.XY{X: float64(c), Y: float64(r)})
			v := m.Data[r][c]
			if math.IsNaN(v) {
				strs = append(strs, "-")
			} else {
				strs = append(strs, fmt.Sprintf("%.2f", v))
			}
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xy, Labels: strs})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = text.XCenter
		labels.TextStyle[i].YAlign = text.YCenter
		labels.TextStyle[i].Font.Size = vg.Points(9)
	}
	return labels, nil
}
