package explorer

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeu5/tabular-rl/grid"
	"github.com/zeu5/tabular-rl/policies"
)

type Explorer struct {
	PolicyFile string

	QTable *policies.QTable
	Rows   int
	Cols   int
}

// Create an explorer of a recorded q table
func NewExplorer(policyFile string) (*Explorer, error) {
	e := &Explorer{
		PolicyFile: policyFile,
		QTable:     policies.NewQTable(),
	}
	if err := e.QTable.Read(policyFile); err != nil {
		return nil, err
	}
	for _, entry := range e.QTable.Entries() {
		if entry.State.I+1 > e.Rows {
			e.Rows = entry.State.I + 1
		}
		if entry.State.J+1 > e.Cols {
			e.Cols = entry.State.J + 1
		}
	}
	return e, nil
}

var arrows = map[grid.Action]string{
	grid.Up:    "^",
	grid.Down:  "v",
	grid.Left:  "<",
	grid.Right: ">",
}

// greedy returns the best recorded action at the cell, the first one in
// action order on ties
func (e *Explorer) greedy(p grid.Position) (grid.Action, bool) {
	var best grid.Action
	found := false
	bestVal := 0.0
	for _, a := range grid.AllActions {
		v, ok := e.QTable.Lookup(p, a)
		if !ok {
			continue
		}
		if !found || v > bestVal {
			best, bestVal, found = a, v, true
		}
	}
	return best, found
}

// Policy draws the greedy action of every cell, "." for cells never updated
func (e *Explorer) Policy() string {
	var b strings.Builder
	for i := 0; i < e.Rows; i++ {
		for j := 0; j < e.Cols; j++ {
			a, ok := e.greedy(grid.Position{I: i, J: j})
			if !ok {
				b.WriteString(" .")
				continue
			}
			b.WriteString(" " + arrows[a])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (e *Explorer) QValues(cell string) string {
	p, err := grid.ParsePosition(cell)
	if err != nil {
		return "Invalid cell, expected (row, col)\n"
	}
	out := ""
	for _, a := range grid.AllActions {
		if v, ok := e.QTable.Lookup(p, a); ok {
			out += fmt.Sprintf("%s: %f\n", a, v)
		}
	}
	if out == "" {
		return "No values in the q table for the cell\n"
	}
	return "Q values are:\n" + out
}

// Example invocation - ./tabular-rl explore results/QLearning-eps0.1_qtable.jsonl
func ExploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:  "explore [qtable_output]",
		Long: "Explore the greedy choices of a recorded q-table",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := NewExplorer(args[0])
			if err != nil {
				return err
			}

			exp.Interact(cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
	}
}
