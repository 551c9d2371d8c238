package grid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Action is one of the four moves available in the maze
type Action uint8

const (
	Up Action = iota
	Down
	Left
	Right
)

// AllActions is the fixed action set, in the order used for tie-breaking and labels
var AllActions = []Action{Up, Down, Left, Right}

func (a Action) Hash() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

func (a Action) String() string {
	return a.Hash()
}

// Position of the agent in the maze as (row, column)
type Position struct {
	I int
	J int
}

func (p Position) Hash() string {
	return fmt.Sprintf("(%d, %d)", p.I, p.J)
}

func (p Position) Eq(other Position) bool {
	return p.I == other.I && p.J == other.J
}

// Rules are the fixed reward conventions of the maze
type Rules struct {
	// reward for a move that would leave the grid
	BumpPenalty float64
	// landing on a cell with this reward teleports the agent back to Start
	Jackpot float64
	Start   Position
}

func DefaultRules() Rules {
	return Rules{
		BumpPenalty: -1,
		Jackpot:     10,
		Start:       Position{0, 0},
	}
}

// Environment is a maze defined by a reward grid. The task is continuing:
// there is no episode boundary, reaching a jackpot cell simply sends the
// agent back to the start.
type Environment struct {
	rewards *mat.Dense
	rules   Rules
	CurPos  Position
}

// NewEnvironment creates a maze over the reward grid with the default rules
func NewEnvironment(rewards *mat.Dense) *Environment {
	return NewEnvironmentWithRules(rewards, DefaultRules())
}

func NewEnvironmentWithRules(rewards *mat.Dense, rules Rules) *Environment {
	return &Environment{
		rewards: rewards,
		rules:   rules,
		CurPos:  rules.Start,
	}
}

// Dims returns the number of rows and columns of the maze
func (e *Environment) Dims() (int, int) {
	return e.rewards.Dims()
}

func (e *Environment) Reward(p Position) float64 {
	return e.rewards.At(p.I, p.J)
}

// Clone returns a maze over the same rewards and rules with the agent at the start cell
func (e *Environment) Clone() *Environment {
	return NewEnvironmentWithRules(e.rewards, e.rules)
}

func (e *Environment) Position() Position {
	return e.CurPos
}

// Reset moves the agent back to the start cell
func (e *Environment) Reset() Position {
	e.CurPos = e.rules.Start
	return e.CurPos
}

// Step executes the action and returns the new position and the reward.
//
// An in-bounds move earns the reward of the destination cell. A move off the
// grid, or an unknown action, leaves the agent in place and earns
// BumpPenalty. After the move, if the reward equals Jackpot the agent is
// placed at Start.
func (e *Environment) Step(a Action) (Position, float64) {
	rows, cols := e.Dims()
	newPos := e.CurPos
	reward := e.rules.BumpPenalty

	moved := false
	switch a {
	case Up:
		if e.CurPos.I > 0 {
			newPos.I--
			moved = true
		}
	case Down:
		if e.CurPos.I < rows-1 {
			newPos.I++
			moved = true
		}
	case Left:
		if e.CurPos.J > 0 {
			newPos.J--
			moved = true
		}
	case Right:
		if e.CurPos.J < cols-1 {
			newPos.J++
			moved = true
		}
	}
	if moved {
		reward = e.Reward(newPos)
	}

	if reward == e.rules.Jackpot {
		newPos = e.rules.Start
	}

	e.CurPos = newPos
	return newPos, reward
}

// ParseAction is the inverse of Action.Hash
func ParseAction(s string) (Action, bool) {
	for _, a := range AllActions {
		if a.Hash() == s {
			return a, true
		}
	}
	return 0, false
}

// ParsePosition reads a position in the "(i, j)" form of Position.Hash
func ParsePosition(s string) (Position, error) {
	p := Position{}
	if _, err := fmt.Sscanf(s, "(%d, %d)", &p.I, &p.J); err != nil {
		return p, fmt.Errorf("invalid position %q: %w", s, err)
	}
	return p, nil
}
