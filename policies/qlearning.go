package policies

import (
	"time"

	"github.com/zeu5/tabular-rl/grid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Task is the part of the maze the agent interacts with
type Task interface {
	Position() grid.Position
	Step(grid.Action) (grid.Position, float64)
}

type QLearningParams struct {
	Epsilon float64
	Alpha   float64
	Gamma   float64
	// Actions defaults to grid.AllActions
	Actions []grid.Action
	// Seed of the exploration source, 0 seeds from the current time
	Seed uint64
}

func DefaultQLearningParams() QLearningParams {
	return QLearningParams{
		Epsilon: 0.1,
		Alpha:   0.2,
		Gamma:   0.9,
		Actions: grid.AllActions,
	}
}

// QLearningAgent learns action values with one-step Q-learning and acts
// epsilon-greedily. Epsilon, alpha and gamma never change.
type QLearningAgent struct {
	qTable  *QTable
	epsilon float64
	alpha   float64
	gamma   float64
	actions []grid.Action
	rand    *rand.Rand
}

func NewQLearningAgent(params QLearningParams) *QLearningAgent {
	actions := params.Actions
	if len(actions) == 0 {
		actions = grid.AllActions
	}
	seed := params.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &QLearningAgent{
		qTable:  NewQTable(),
		epsilon: params.Epsilon,
		alpha:   params.Alpha,
		gamma:   params.Gamma,
		actions: append([]grid.Action(nil), actions...),
		rand:    rand.New(rand.NewSource(seed)),
	}
}

// Table gives read access to the learned values
func (q *QLearningAgent) Table() *QTable {
	return q.qTable
}

func (q *QLearningAgent) Actions() []grid.Action {
	return q.actions
}

// GetValue returns the value of the pair, 0 if it was never updated
func (q *QLearningAgent) GetValue(state grid.Position, action grid.Action) float64 {
	return q.qTable.Get(state, action, 0)
}

// ChooseAction explores uniformly with probability epsilon, otherwise picks
// the best action at state breaking ties uniformly at random
func (q *QLearningAgent) ChooseAction(state grid.Position) grid.Action {
	if q.rand.Float64() < q.epsilon {
		return q.actions[q.rand.Intn(len(q.actions))]
	}

	vals := q.qTable.Values(state, q.actions, 0)
	maxVal := vals[0]
	best := make([]int, 0, len(vals))
	for i, v := range vals {
		if v > maxVal {
			maxVal = v
			best = best[:0]
		}
		if v == maxVal {
			best = append(best, i)
		}
	}
	if len(best) == 1 {
		return q.actions[best[0]]
	}
	return q.actions[best[q.rand.Intn(len(best))]]
}

// Update applies the one-step Q-learning rule. The first update of an unseen
// pair stores the reward itself rather than blending towards the target.
func (q *QLearningAgent) Update(state grid.Position, action grid.Action, reward float64, nextState grid.Position) {
	target := reward + q.gamma*q.qTable.Max(nextState, q.actions, 0)

	oldVal, ok := q.qTable.Lookup(state, action)
	if !ok {
		q.qTable.Set(state, action, reward)
		return
	}
	q.qTable.Set(state, action, oldVal+q.alpha*(target-oldVal))
}

// Run interacts with the task for n steps, learning after every step
func (q *QLearningAgent) Run(task Task, n int) {
	for i := 0; i < n; i++ {
		state := task.Position()
		action := q.ChooseAction(state)
		nextState, reward := task.Step(action)
		q.Update(state, action, reward, nextState)
	}
}

// ComputeValueSurface returns, for every cell, the best action value
func (q *QLearningAgent) ComputeValueSurface(rows, cols int) *mat.Dense {
	v := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v.Set(i, j, q.qTable.Max(grid.Position{I: i, J: j}, q.actions, 0))
		}
	}
	return v
}
