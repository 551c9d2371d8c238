package chain

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zeu5/tabular-rl/types"
)

type update struct {
	sNow   State
	sNext  State
	reward float64
}

type recordingLearner struct {
	updates []update
}

func (r *recordingLearner) Update(sNow, sNext State, reward float64) {
	r.updates = append(r.updates, update{sNow, sNext, reward})
}

func TestTransitionRewardIsCurrentState(t *testing.T) {
	env := NewEnvironment(1)
	cases := []struct {
		history History
		next    State
		reward  float64
	}{
		{History{Start, A}, Middle, 0},
		{History{Start, B}, Middle, 0},
		{History{Start, A, Middle, Win}, Terminal, 1.0},
		{History{Start, B, Middle, Loss}, Terminal, -1.0},
	}
	for _, c := range cases {
		next, reward := env.Transition(c.history)
		if next != c.next || reward != c.reward {
			t.Errorf("history %s: expected (%s, %f), got (%s, %f)", c.history, c.next, c.reward, next, reward)
		}
	}

	next, reward := env.Transition(NewHistory())
	if next != A && next != B {
		t.Errorf("expected A or B from start, got %s", next)
	}
	if reward != 0 {
		t.Errorf("expected reward 0 from start, got %f", reward)
	}
}

func TestTransitionNonMarkov(t *testing.T) {
	env := NewEnvironment(1)

	next, reward := env.Transition(History{Start, A, Middle})
	if next != Win || reward != 0 {
		t.Errorf("expected (win, 0), got (%s, %f)", next, reward)
	}
	next, reward = env.Transition(History{Start, B, Middle})
	if next != Loss || reward != 0 {
		t.Errorf("expected (loss, 0), got (%s, %f)", next, reward)
	}
}

func TestStartCoinIsFair(t *testing.T) {
	env := NewEnvironment(42)
	counts := map[State]int{}
	trials := 10000
	for i := 0; i < trials; i++ {
		next, _ := env.Transition(NewHistory())
		counts[next]++
	}
	if counts[A]+counts[B] != trials {
		t.Fatalf("unexpected states from start: %v", counts)
	}
	if counts[A] < 4500 || counts[A] > 5500 {
		t.Errorf("coin looks biased: %v", counts)
	}
}

func TestTransitionPreconditions(t *testing.T) {
	cases := map[string]History{
		"middle without predecessor": {Middle},
		"middle after start":         {Start, Middle},
		"terminal":                   {Start, A, Middle, Win, Terminal},
	}
	env := NewEnvironment(1)
	for name, history := range cases {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s: expected a panic", name)
				}
			}()
			env.Transition(history)
		}()
	}
}

func TestRunEpisodeTakesStepPastAbsorbingState(t *testing.T) {
	env := NewEnvironment(7)
	for i := 0; i < 20; i++ {
		learner := &recordingLearner{}
		history := RunEpisode(env, learner)

		if len(history) != 5 || history.Current() != Terminal {
			t.Fatalf("unexpected history %s", history)
		}
		if len(learner.updates) != 4 {
			t.Fatalf("expected 4 updates, got %d", len(learner.updates))
		}
		branch := history[1]
		absorbing, final := Win, 1.0
		if branch == B {
			absorbing, final = Loss, -1.0
		}
		expected := []update{
			{Start, branch, 0},
			{branch, Middle, 0},
			{Middle, absorbing, 0},
			{absorbing, Terminal, final},
		}
		for j, u := range expected {
			if learner.updates[j] != u {
				t.Errorf("update %d: expected %v, got %v", j, u, learner.updates[j])
			}
		}
	}
}

func TestRunDrivesEpisodes(t *testing.T) {
	learner := &recordingLearner{}
	Run(NewEnvironment(3), learner, 10)
	if len(learner.updates) != 40 {
		t.Errorf("expected 40 updates, got %d", len(learner.updates))
	}
}

type fixedValues map[State]float64

func (f fixedValues) Value(s State) float64 {
	return f[s]
}

func TestValueAnalyzer(t *testing.T) {
	values := fixedValues{Win: 0.5}
	a := NewValueAnalyzer(values)
	a.Analyze(0)
	values[Win] = 0.75
	a.Analyze(1)

	series := a.DataSet().(types.Series)
	if len(series) != NumStates {
		t.Fatalf("expected %d labels, got %d", NumStates, len(series))
	}
	win := series["win"]
	if len(win) != 2 || win[0] != 0.5 || win[1] != 0.75 {
		t.Errorf("unexpected win series %v", win)
	}
	if term := series["terminal"]; term[0] != 0 || term[1] != 0 {
		t.Errorf("unexpected terminal series %v", term)
	}

	a.Reset()
	if len(a.DataSet().(types.Series)["win"]) != 0 {
		t.Errorf("expected empty series after reset")
	}
}

func TestSummaryComparator(t *testing.T) {
	buf := new(bytes.Buffer)
	series := types.Series{"win": {0, 1, 1}}
	if err := SummaryComparator(buf, 2)([]string{"TD0"}, []types.DataSet{series}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Experiment: TD0") || !strings.Contains(out, "mean(last 2):  1.0000") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestLastEpisodeComparator(t *testing.T) {
	r := NewRunner(NewEnvironment(3), &recordingLearner{})
	r.RunEpisode(0)

	buf := new(bytes.Buffer)
	cmp := LastEpisodeComparator(buf, map[string]*Runner{"TD0": r, "Idle": NewRunner(NewEnvironment(3), &recordingLearner{})})
	if err := cmp([]string{"TD0", "Idle", "Missing"}, make([]types.DataSet, 3)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	out := buf.String()
	if strings.Count(out, "\n") != 1 || !strings.HasPrefix(out, "TD0 last episode: [start ") || !strings.HasSuffix(out, " terminal]\n") {
		t.Errorf("unexpected output %q", out)
	}
}
