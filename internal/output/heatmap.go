package output

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/inodb/vibe-fold/internal/fold"
	"github.com/inodb/vibe-fold/internal/rna"
)

// matrixGrid adapts a score matrix to plotter.GridXYZ with row 0 drawn at
// the top.
type matrixGrid struct {
	m fold.Matrix
}

func (g matrixGrid) Dims() (c, r int) { return g.m.Len(), g.m.Len() }

func (g matrixGrid) Z(c, r int) float64 { return float64(g.m.At(g.m.Len()-1-r, c)) }

func (g matrixGrid) X(c int) float64 { return float64(c) }

func (g matrixGrid) Y(r int) float64 { return float64(r) }

// HeatmapWriter renders a score matrix as an image.
type HeatmapWriter struct {
	w      io.Writer
	format string
}

// NewHeatmapWriter creates a heatmap writer. format is any image format
// gonum/plot supports, such as "png" or "svg".
func NewHeatmapWriter(w io.Writer, format string) *HeatmapWriter {
	if format == "" {
		format = "png"
	}
	return &HeatmapWriter{w: w, format: format}
}

// Write draws m with residues of seq as tick labels.
func (hw *HeatmapWriter) Write(seq *rna.Sequence, m fold.Matrix) error {
	n := m.Len()
	if n == 0 {
		return errors.New("heatmap: empty matrix")
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(0)
	cm.SetMax(1)
	h := plotter.NewHeatMap(matrixGrid{m: m}, cm.Palette(64))
	if h.Max <= h.Min {
		h.Max = h.Min + 1
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%d bp)", seq.ID(), n)
	p.Add(h)

	xTicks := make(plot.ConstantTicks, n)
	yTicks := make(plot.ConstantTicks, n)
	for i := 0; i < n; i++ {
		base := string(seq.At(i))
		xTicks[i] = plot.Tick{Value: float64(i), Label: base}
		yTicks[i] = plot.Tick{Value: float64(n - 1 - i), Label: base}
	}
	p.X.Tick.Marker = xTicks
	p.Y.Tick.Marker = yTicks

	size := max(10*vg.Centimeter, vg.Length(n)*5*vg.Millimeter)
	wt, err := p.WriterTo(size, size, hw.format)
	if err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	if _, err := wt.WriteTo(hw.w); err != nil {
		return fmt.Errorf("write heatmap: %w", err)
	}
	return nil
}
