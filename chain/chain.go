// Package chain implements the non-Markov branching chain
//
//	         A          win  +1.0
//	       /   \      /
//	start        middle
//	       \   /      \
//	         B          loss -1.0
//
// Whether middle leads to win or loss depends on the state visited before
// middle, so the transition cannot be resolved from the current state alone.
package chain

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

// State of the chain
type State uint8

const (
	Start State = iota
	A
	B
	Middle
	Win
	Loss
	// Terminal is the marker returned after an absorbing state
	Terminal
)

// NumStates is the number of chain states, including Terminal
const NumStates = int(Terminal) + 1

// AllStates lists every chain state in declaration order
var AllStates = []State{Start, A, B, Middle, Win, Loss, Terminal}

func (s State) String() string {
	switch s {
	case Start:
		return "start"
	case A:
		return "A"
	case B:
		return "B"
	case Middle:
		return "middle"
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Terminal:
		return "terminal"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// IsAbsorbing is true for win and loss
func (s State) IsAbsorbing() bool {
	return s == Win || s == Loss
}

// RewardTable is the reward received when leaving each state
type RewardTable [NumStates]float64

func DefaultRewards() RewardTable {
	return RewardTable{
		Start:    0,
		A:        0,
		B:        0,
		Middle:   0,
		Win:      1.0,
		Loss:     -1.0,
		Terminal: 0.0,
	}
}

func (r RewardTable) Reward(s State) float64 {
	return r[s]
}

// History is the trajectory of one episode
type History []State

// NewHistory starts a trajectory at Start
func NewHistory() History {
	return History{Start}
}

// Current is the last state of the trajectory
func (h History) Current() State {
	return h[len(h)-1]
}

func (h History) String() string {
	return fmt.Sprint([]State(h))
}

// Environment is the transition function of the chain
type Environment struct {
	rewards RewardTable
	rand    *rand.Rand
}

// NewEnvironment creates a chain with the default rewards. A zero seed uses the current time.
func NewEnvironment(seed uint64) *Environment {
	return NewEnvironmentWithRewards(DefaultRewards(), seed)
}

func NewEnvironmentWithRewards(rewards RewardTable, seed uint64) *Environment {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Environment{
		rewards: rewards,
		rand:    rand.New(rand.NewSource(seed)),
	}
}

// Transition returns the next state and the reward of the current (last)
// state of the history. From start a fair coin chooses A or B.
//
// Panics if the history ends in Terminal, or if middle is not preceded by A or B.
func (e *Environment) Transition(history History) (State, float64) {
	current := history.Current()
	reward := e.rewards.Reward(current)
	if current.IsAbsorbing() {
		return Terminal, reward
	}

	switch current {
	case Start:
		if e.rand.Float64() <= 0.5 {
			return A, reward
		}
		return B, reward
	case A, B:
		return Middle, reward
	case Middle:
		if len(history) < 2 {
			panic("chain: middle reached without a predecessor")
		}
		switch previous := history[len(history)-2]; previous {
		case A:
			return Win, reward
		case B:
			return Loss, reward
		default:
			panic(fmt.Sprintf("chain: middle reached from %s", previous))
		}
	}
	panic(fmt.Sprintf("chain: no transition from %s", current))
}
