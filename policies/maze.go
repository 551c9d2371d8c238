package policies

import (
	"github.com/zeu5/tabular-rl/grid"
	"github.com/zeu5/tabular-rl/types"
)

// MazeRunner trains a Q-learning agent for a fixed number of steps per
// episode, restarting the maze from its start cell each time
type MazeRunner struct {
	agent *QLearningAgent
	env   *grid.Environment
	steps int
}

var _ types.Episodic = &MazeRunner{}

func NewMazeRunner(agent *QLearningAgent, env *grid.Environment, steps int) *MazeRunner {
	return &MazeRunner{
		agent: agent,
		env:   env,
		steps: steps,
	}
}

func (m *MazeRunner) RunEpisode(_ int) {
	m.env.Reset()
	m.agent.Run(m.env, m.steps)
}

// QValueAnalyzer snapshots the Q-table after every episode. Each (cell,
// action) label starts with a single 0; pairs not yet in the table repeat
// their last value.
type QValueAnalyzer struct {
	agent  *QLearningAgent
	rows   int
	cols   int
	series types.Series
}

var _ types.Analyzer = &QValueAnalyzer{}

func NewQValueAnalyzer(agent *QLearningAgent, rows, cols int) *QValueAnalyzer {
	a := &QValueAnalyzer{
		agent: agent,
		rows:  rows,
		cols:  cols,
	}
	a.Reset()
	return a
}

func (a *QValueAnalyzer) Analyze(_ int) {
	seen := make(map[string]bool)
	for _, e := range a.agent.Table().Entries() {
		label := e.Label()
		a.series[label] = append(a.series[label], e.Value)
		seen[label] = true
	}
	for label, vals := range a.series {
		if !seen[label] {
			a.series[label] = append(vals, vals[len(vals)-1])
		}
	}
}

func (a *QValueAnalyzer) DataSet() types.DataSet {
	return a.series.Copy()
}

func (a *QValueAnalyzer) Reset() {
	a.series = make(types.Series)
	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			for _, action := range a.agent.Actions() {
				a.series[Label(grid.Position{I: i, J: j}, action)] = []float64{0}
			}
		}
	}
}
