package chain

import (
	"fmt"
	"io"

	"github.com/zeu5/tabular-rl/types"
	"gonum.org/v1/gonum/stat"
)

// ValueReader exposes the current value estimate of a chain state
type ValueReader interface {
	Value(State) float64
}

// ValueAnalyzer records the value of every state after each episode
type ValueAnalyzer struct {
	agent  ValueReader
	series types.Series
}

var _ types.Analyzer = &ValueAnalyzer{}

func NewValueAnalyzer(agent ValueReader) *ValueAnalyzer {
	a := &ValueAnalyzer{agent: agent}
	a.Reset()
	return a
}

func (a *ValueAnalyzer) Analyze(_ int) {
	for _, s := range AllStates {
		label := s.String()
		a.series[label] = append(a.series[label], a.agent.Value(s))
	}
}

func (a *ValueAnalyzer) DataSet() types.DataSet {
	return a.series.Copy()
}

func (a *ValueAnalyzer) Reset() {
	a.series = make(types.Series)
	for _, s := range AllStates {
		a.series[s.String()] = make([]float64, 0)
	}
}

// SummaryComparator prints, for each experiment, the final value of every
// state and its mean over the last window episodes
func SummaryComparator(w io.Writer, window int) types.Comparator {
	return func(names []string, datasets []types.DataSet) error {
		for i, name := range names {
			series, ok := datasets[i].(types.Series)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "Experiment: %s\n", name)
			for _, s := range AllStates {
				vals := series[s.String()]
				if len(vals) == 0 {
					continue
				}
				from := 0
				if window > 0 && len(vals) > window {
					from = len(vals) - window
				}
				fmt.Fprintf(w, "  %-8s final: %7.4f, mean(last %d): %7.4f\n", s, vals[len(vals)-1], len(vals)-from, stat.Mean(vals[from:], nil))
			}
		}
		return nil
	}
}

// LastEpisodeComparator prints the trajectory of the latest episode of each
// runner. Experiments without a runner are skipped.
func LastEpisodeComparator(w io.Writer, runners map[string]*Runner) types.Comparator {
	return func(names []string, _ []types.DataSet) error {
		for _, name := range names {
			r, ok := runners[name]
			if !ok || len(r.LastHistory) == 0 {
				continue
			}
			fmt.Fprintf(w, "%s last episode: %s\n", name, r.LastHistory)
		}
		return nil
	}
}
