package grid

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/zeu5/tabular-rl/types"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ValueSource is anything that can estimate the value of every cell of the maze
type ValueSource interface {
	ComputeValueSurface(rows, cols int) *mat.Dense
}

// ValueSurface is a per-cell value estimate, plotted with row 0 at the top
type ValueSurface struct {
	Values [][]float64
	Height int
	Width  int
}

var _ plotter.GridXYZ = &ValueSurface{}

func NewValueSurface(m mat.Matrix) *ValueSurface {
	rows, cols := m.Dims()
	values := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		values[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			values[i][j] = m.At(i, j)
		}
	}
	return &ValueSurface{
		Values: values,
		Height: rows,
		Width:  cols,
	}
}

func (v *ValueSurface) Dims() (int, int) {
	return v.Width, v.Height
}

func (v *ValueSurface) Z(j, i int) float64 {
	return v.Values[v.Height-1-i][j]
}

func (v *ValueSurface) X(j int) float64 {
	return float64(j)
}

func (v *ValueSurface) Y(i int) float64 {
	return float64(i)
}

func (v *ValueSurface) Min() float64 {
	min := v.Values[0][0]
	for _, row := range v.Values {
		for _, val := range row {
			if val < min {
				min = val
			}
		}
	}
	return min
}

func (v *ValueSurface) Max() float64 {
	max := v.Values[0][0]
	for _, row := range v.Values {
		for _, val := range row {
			if val > max {
				max = val
			}
		}
	}
	return max
}

func (v *ValueSurface) Matrix() *mat.Dense {
	data := make([]float64, 0, v.Height*v.Width)
	for _, row := range v.Values {
		data = append(data, row...)
	}
	return mat.NewDense(v.Height, v.Width, data)
}

// ValueSurfaceAnalyzer keeps the value surface computed after the latest episode
type ValueSurfaceAnalyzer struct {
	source  ValueSource
	rows    int
	cols    int
	surface *ValueSurface
}

var _ types.Analyzer = &ValueSurfaceAnalyzer{}

func NewValueSurfaceAnalyzer(source ValueSource, rows, cols int) *ValueSurfaceAnalyzer {
	return &ValueSurfaceAnalyzer{
		source: source,
		rows:   rows,
		cols:   cols,
	}
}

func (a *ValueSurfaceAnalyzer) Analyze(_ int) {
	a.surface = NewValueSurface(a.source.ComputeValueSurface(a.rows, a.cols))
}

func (a *ValueSurfaceAnalyzer) DataSet() types.DataSet {
	return a.surface
}

func (a *ValueSurfaceAnalyzer) Reset() {
	a.surface = nil
}

// HeatmapComparator saves a heatmap of each experiment's value surface
func HeatmapComparator(savePath string) types.Comparator {
	return func(names []string, datasets []types.DataSet) error {
		if err := os.MkdirAll(savePath, os.ModePerm); err != nil {
			return err
		}
		for i, name := range names {
			surface, ok := datasets[i].(*ValueSurface)
			if !ok || surface == nil {
				continue
			}
			// the palette cannot be scaled over a flat surface
			if surface.Min() == surface.Max() {
				continue
			}

			p := plot.New()
			p.Title.Text = name
			p.Add(plotter.NewHeatMap(surface, palette.Heat(20, 1)))
			if err := p.Save(4*vg.Inch, 4*vg.Inch, path.Join(savePath, name+"_value_surface.png")); err != nil {
				return fmt.Errorf("saving heatmap for %s: %w", name, err)
			}
		}
		return nil
	}
}

// ConsoleComparator prints each experiment's value surface to w
func ConsoleComparator(w io.Writer, colors bool) types.Comparator {
	return func(names []string, datasets []types.DataSet) error {
		for i, name := range names {
			surface, ok := datasets[i].(*ValueSurface)
			if !ok || surface == nil {
				continue
			}
			fmt.Fprintf(w, "Value surface: %s\n", name)
			RenderValues(w, surface.Matrix(), colors)
		}
		return nil
	}
}

// PositionComparator draws the maze of each experiment with the agent where
// the last episode left it
func PositionComparator(w io.Writer, envs map[string]*Environment, colors bool) types.Comparator {
	return func(names []string, _ []types.DataSet) error {
		for _, name := range names {
			env, ok := envs[name]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "Final position: %s %s\n", name, env.Position().Hash())
			env.Render(w, colors)
		}
		return nil
	}
}
