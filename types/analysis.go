package types

import (
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/zeu5/tabular-rl/util"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series maps a label to one value per episode
type Series map[string][]float64

// Copy returns a deep copy of the series
func (s Series) Copy() Series {
	out := make(Series, len(s))
	for k, v := range s {
		vals := make([]float64, len(v))
		copy(vals, v)
		out[k] = vals
	}
	return out
}

// Labels returns the labels in sorted order
func (s Series) Labels() []string {
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// JSONComparator saves the datasets of all experiments to <savePath>/<analysis>.json
func JSONComparator(savePath, analysis string) Comparator {
	return func(names []string, datasets []DataSet) error {
		out := make(map[string]DataSet)
		for i, name := range names {
			out[name] = datasets[i]
		}
		return util.SaveJson(path.Join(savePath, analysis+".json"), out)
	}
}

// SeriesPlotComparator draws one line per label of every experiment's Series
// into <savePath>/<experiment>_<analysis>.png
func SeriesPlotComparator(savePath, analysis string) Comparator {
	return func(names []string, datasets []DataSet) error {
		if err := os.MkdirAll(savePath, os.ModePerm); err != nil {
			return err
		}
		for i, name := range names {
			series, ok := datasets[i].(Series)
			if !ok {
				continue
			}
			p := plot.New()
			p.Title.Text = name
			p.X.Label.Text = "Episode"
			p.Y.Label.Text = analysis
			for j, label := range series.Labels() {
				vals := series[label]
				points := make(plotter.XYs, len(vals))
				for k, v := range vals {
					points[k] = plotter.XY{
						X: float64(k),
						Y: v,
					}
				}
				line, err := plotter.NewLine(points)
				if err != nil {
					return fmt.Errorf("plotting %s: %w", label, err)
				}
				line.Color = plotutil.Color(j)
				p.Add(line)
				p.Legend.Add(label, line)
			}
			if err := p.Save(8*vg.Inch, 8*vg.Inch, path.Join(savePath, name+"_"+analysis+".png")); err != nil {
				return err
			}
		}
		return nil
	}
}
