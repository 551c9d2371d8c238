package policies

import (
	"bufio"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeu5/tabular-rl/grid"
	"github.com/zeu5/tabular-rl/types"
	"gonum.org/v1/gonum/mat"
)

func newTestAgent(epsilon float64) *QLearningAgent {
	return NewQLearningAgent(QLearningParams{
		Epsilon: epsilon,
		Alpha:   0.2,
		Gamma:   0.9,
		Seed:    11,
	})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestQTableColdStart(t *testing.T) {
	agent := newTestAgent(0.1)
	s := grid.Position{I: 1, J: 1}
	next := grid.Position{I: 1, J: 2}

	for _, a := range grid.AllActions {
		if v := agent.GetValue(s, a); v != 0 {
			t.Errorf("expected 0 for unseen pair, got %f", v)
		}
	}
	if agent.Table().Size() != 0 {
		t.Fatalf("reading values must not add entries")
	}

	agent.Table().Set(next, grid.Up, 2)
	agent.Update(s, grid.Right, 5, next)
	if v := agent.GetValue(s, grid.Right); v != 5 {
		t.Errorf("expected first update to store the reward 5, got %f", v)
	}
}

func TestQTableWarmUpdate(t *testing.T) {
	agent := newTestAgent(0.1)
	s := grid.Position{I: 0, J: 0}
	next := grid.Position{I: 0, J: 1}
	agent.Table().Set(next, grid.Up, 2)

	agent.Update(s, grid.Right, 5, next)
	agent.Update(s, grid.Right, 1, next)

	// target = 1 + 0.9*2, value = 5 + 0.2*(target - 5)
	expected := 5 + 0.2*((1+0.9*2)-5)
	if v := agent.GetValue(s, grid.Right); !almostEqual(v, expected) {
		t.Errorf("expected %f, got %f", expected, v)
	}
}

func TestChooseActionGreedy(t *testing.T) {
	agent := newTestAgent(0)
	s := grid.Position{I: 2, J: 2}
	agent.Table().Set(s, grid.Left, 1)
	agent.Table().Set(s, grid.Down, -1)

	for i := 0; i < 100; i++ {
		if a := agent.ChooseAction(s); a != grid.Left {
			t.Fatalf("expected left, got %s", a)
		}
	}
}

func TestChooseActionTieBreakIsUniform(t *testing.T) {
	agent := newTestAgent(0)
	s := grid.Position{I: 0, J: 0}
	trials := 8000
	counts := make(map[grid.Action]int)
	for i := 0; i < trials; i++ {
		counts[agent.ChooseAction(s)]++
	}
	for _, a := range grid.AllActions {
		if counts[a] < 1800 || counts[a] > 2200 {
			t.Errorf("action %s chosen %d times out of %d", a, counts[a], trials)
		}
	}
}

func TestChooseActionTieBreakAmongBest(t *testing.T) {
	agent := newTestAgent(0)
	s := grid.Position{I: 0, J: 0}
	agent.Table().Set(s, grid.Up, 3)
	agent.Table().Set(s, grid.Right, 3)
	agent.Table().Set(s, grid.Down, 1)

	counts := make(map[grid.Action]int)
	for i := 0; i < 2000; i++ {
		counts[agent.ChooseAction(s)]++
	}
	if counts[grid.Down] != 0 || counts[grid.Left] != 0 {
		t.Errorf("picked a non maximal action: %v", counts)
	}
	if counts[grid.Up] < 850 || counts[grid.Right] < 850 {
		t.Errorf("tie not broken uniformly: %v", counts)
	}
}

func TestChooseActionExplores(t *testing.T) {
	agent := newTestAgent(1)
	s := grid.Position{I: 0, J: 0}
	agent.Table().Set(s, grid.Up, 100)

	counts := make(map[grid.Action]int)
	for i := 0; i < 2000; i++ {
		counts[agent.ChooseAction(s)]++
	}
	for _, a := range grid.AllActions {
		if counts[a] == 0 {
			t.Errorf("action %s never explored", a)
		}
	}
}

type countingTask struct {
	pos   grid.Position
	steps int
}

func (c *countingTask) Position() grid.Position {
	return c.pos
}

func (c *countingTask) Step(_ grid.Action) (grid.Position, float64) {
	c.steps++
	return c.pos, -1
}

func TestRunStepsTask(t *testing.T) {
	agent := newTestAgent(0.1)
	task := &countingTask{pos: grid.Position{I: 0, J: 0}}
	agent.Run(task, 50)

	if task.steps != 50 {
		t.Errorf("expected 50 steps, got %d", task.steps)
	}
	for _, e := range agent.Table().Entries() {
		if e.Value >= 0 {
			t.Errorf("expected negative value for %s, got %f", e.Label(), e.Value)
		}
	}
}

func TestRunLearnsTowardsJackpot(t *testing.T) {
	env := grid.NewEnvironment(mat.NewDense(1, 3, []float64{
		0, 0, 10,
	}))
	agent := newTestAgent(0.1)
	agent.Run(env, 2000)

	right := agent.GetValue(grid.Position{I: 0, J: 1}, grid.Right)
	left := agent.GetValue(grid.Position{I: 0, J: 1}, grid.Left)
	if right <= left {
		t.Errorf("expected right (%f) to beat left (%f) next to the jackpot", right, left)
	}
}

func TestComputeValueSurface(t *testing.T) {
	agent := newTestAgent(0.1)
	agent.Table().Set(grid.Position{I: 0, J: 1}, grid.Up, -2)
	agent.Table().Set(grid.Position{I: 0, J: 1}, grid.Down, -1)
	agent.Table().Set(grid.Position{I: 1, J: 0}, grid.Left, 4)

	v := agent.ComputeValueSurface(2, 2)
	// unseen actions count as 0
	expected := mat.NewDense(2, 2, []float64{
		0, 0,
		4, 0,
	})
	if !mat.Equal(v, expected) {
		t.Errorf("unexpected surface %v", mat.Formatted(v))
	}

	agent = NewQLearningAgent(QLearningParams{Actions: []grid.Action{grid.Up, grid.Down}, Seed: 1})
	agent.Table().Set(grid.Position{I: 0, J: 0}, grid.Up, -2)
	agent.Table().Set(grid.Position{I: 0, J: 0}, grid.Down, -1)
	if v := agent.ComputeValueSurface(1, 1).At(0, 0); v != -1 {
		t.Errorf("expected -1, got %f", v)
	}
}

func TestQValueAnalyzer(t *testing.T) {
	agent := newTestAgent(0.1)
	a := NewQValueAnalyzer(agent, 1, 2)

	series := a.DataSet().(types.Series)
	if len(series) != 8 {
		t.Fatalf("expected 8 labels, got %d", len(series))
	}

	upLabel := Label(grid.Position{I: 0, J: 0}, grid.Up)
	if upLabel != "((0, 0), up)" {
		t.Errorf("unexpected label %s", upLabel)
	}

	agent.Table().Set(grid.Position{I: 0, J: 0}, grid.Up, 3)
	a.Analyze(0)
	a.Analyze(1)

	series = a.DataSet().(types.Series)
	if up := series[upLabel]; len(up) != 3 || up[0] != 0 || up[1] != 3 || up[2] != 3 {
		t.Errorf("unexpected up series %v", up)
	}
	right := series[Label(grid.Position{I: 0, J: 1}, grid.Right)]
	if len(right) != 3 || right[2] != 0 {
		t.Errorf("unexpected right series %v", right)
	}
}

func TestMazeRunnerResetsEnvironment(t *testing.T) {
	env := grid.NewEnvironment(mat.NewDense(2, 2, []float64{0, 0, 0, 0}))
	env.CurPos = grid.Position{I: 1, J: 1}
	agent := newTestAgent(0.1)

	NewMazeRunner(agent, env, 1).RunEpisode(0)

	entries := agent.Table().Entries()
	if len(entries) != 1 || !entries[0].State.Eq(grid.Position{I: 0, J: 0}) {
		t.Errorf("expected a single update from the start cell, got %v", entries)
	}
}

func TestQTableRecord(t *testing.T) {
	q := NewQTable()
	q.Set(grid.Position{I: 1, J: 0}, grid.Left, -1)
	q.Set(grid.Position{I: 0, J: 0}, grid.Up, 2)
	q.Set(grid.Position{I: 0, J: 0}, grid.Right, 3)

	p := filepath.Join(t.TempDir(), "qtable.jsonl")
	if err := q.Record(p); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("file not written: %s", err)
	}
	defer f.Close()

	type line struct {
		State   string             `json:"state"`
		Entries map[string]float64 `json:"entries"`
	}
	lines := make([]line, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		l := line{}
		if err := json.Unmarshal(scanner.Bytes(), &l); err != nil {
			t.Fatalf("invalid line: %s", err)
		}
		lines = append(lines, l)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].State != "(0, 0)" || lines[0].Entries["up"] != 2 || lines[0].Entries["right"] != 3 {
		t.Errorf("unexpected first line %+v", lines[0])
	}
	if lines[1].State != "(1, 0)" || lines[1].Entries["left"] != -1 {
		t.Errorf("unexpected second line %+v", lines[1])
	}
}

func TestQTableReadRecorded(t *testing.T) {
	q := NewQTable()
	q.Set(grid.Position{I: 2, J: 1}, grid.Down, -0.5)
	q.Set(grid.Position{I: 0, J: 3}, grid.Right, 7)

	p := filepath.Join(t.TempDir(), "qtable.jsonl")
	if err := q.Record(p); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	read := NewQTable()
	if err := read.Read(p); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if read.Size() != 2 {
		t.Fatalf("expected 2 entries, got %d", read.Size())
	}
	if v, ok := read.Lookup(grid.Position{I: 2, J: 1}, grid.Down); !ok || v != -0.5 {
		t.Errorf("unexpected value %f", v)
	}

	bad := filepath.Join(t.TempDir(), "bad.jsonl")
	os.WriteFile(bad, []byte(`{"state": "(0, 0)", "entries": {"jump": 1}}`+"\n"), 0644)
	if err := NewQTable().Read(bad); err == nil {
		t.Errorf("expected an error for an unknown action")
	}
}
