package chain

import "github.com/zeu5/tabular-rl/types"

// Learner consumes one transition of the chain at a time
type Learner interface {
	Update(sNow, sNext State, reward float64)
}

// RunEpisode drives one episode from start and returns its history.
//
// The loop stops once the transition function reports Terminal as the next
// state, and then takes one more step so that the learner also sees the
// transition out of the absorbing state (carrying its reward).
func RunEpisode(env *Environment, learner Learner) History {
	history := NewHistory()

	for next, _ := env.Transition(history); next != Terminal; next, _ = env.Transition(history) {
		step(env, learner, &history)
	}
	step(env, learner, &history)

	return history
}

func step(env *Environment, learner Learner, history *History) {
	sNow := history.Current()
	sNext, reward := env.Transition(*history)
	*history = append(*history, sNext)
	learner.Update(sNow, sNext, reward)
}

// Run drives n episodes
func Run(env *Environment, learner Learner, n int) {
	for i := 0; i < n; i++ {
		RunEpisode(env, learner)
	}
}

// Runner binds a learner to a chain so it can be driven episode by episode
type Runner struct {
	env     *Environment
	learner Learner

	LastHistory History
}

var _ types.Episodic = &Runner{}

func NewRunner(env *Environment, learner Learner) *Runner {
	return &Runner{
		env:     env,
		learner: learner,
	}
}

func (r *Runner) RunEpisode(_ int) {
	r.LastHistory = RunEpisode(r.env, r.learner)
}
