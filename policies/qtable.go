package policies

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/zeu5/tabular-rl/grid"
	"github.com/zeu5/tabular-rl/util"
	"gonum.org/v1/gonum/floats"
)

type qKey struct {
	state  grid.Position
	action grid.Action
}

// QTable is a sparse action-value table. Entries are only ever added or
// updated, never removed.
type QTable struct {
	table map[qKey]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[qKey]float64),
	}
}

// Lookup returns the stored value and whether the pair has been seen
func (q *QTable) Lookup(state grid.Position, action grid.Action) (float64, bool) {
	val, ok := q.table[qKey{state, action}]
	return val, ok
}

// Get returns the stored value or def for an unseen pair. Unlike Set it
// never adds an entry.
func (q *QTable) Get(state grid.Position, action grid.Action, def float64) float64 {
	if val, ok := q.table[qKey{state, action}]; ok {
		return val
	}
	return def
}

func (q *QTable) Set(state grid.Position, action grid.Action, val float64) {
	q.table[qKey{state, action}] = val
}

// Values returns the value of each action at state, in the order of actions
func (q *QTable) Values(state grid.Position, actions []grid.Action, def float64) []float64 {
	vals := make([]float64, len(actions))
	for i, a := range actions {
		vals[i] = q.Get(state, a, def)
	}
	return vals
}

// Max is the largest value among actions at state
func (q *QTable) Max(state grid.Position, actions []grid.Action, def float64) float64 {
	return floats.Max(q.Values(state, actions, def))
}

func (q *QTable) Size() int {
	return len(q.table)
}

type QEntry struct {
	State  grid.Position
	Action grid.Action
	Value  float64
}

// Label is the string form of a (state, action) pair used by exported snapshots
func (e QEntry) Label() string {
	return Label(e.State, e.Action)
}

func Label(state grid.Position, action grid.Action) string {
	return fmt.Sprintf("(%s, %s)", state.Hash(), action.Hash())
}

// Entries returns every stored pair ordered by row, column and action
func (q *QTable) Entries() []QEntry {
	entries := make([]QEntry, 0, len(q.table))
	for k, v := range q.table {
		entries = append(entries, QEntry{State: k.state, Action: k.action, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.State.I != b.State.I {
			return a.State.I < b.State.I
		}
		if a.State.J != b.State.J {
			return a.State.J < b.State.J
		}
		return a.Action < b.Action
	})
	return entries
}

// Record writes the table as json lines, one line per state
func (q *QTable) Record(path string) error {
	lines := make([]string, 0)
	var current *grid.Position
	entries := make(map[string]float64)

	flush := func() error {
		if current == nil {
			return nil
		}
		bs, err := json.Marshal(recordedState{
			State:   current.Hash(),
			Entries: entries,
		})
		if err != nil {
			return err
		}
		lines = append(lines, string(bs))
		return nil
	}

	for _, e := range q.Entries() {
		if current == nil || !current.Eq(e.State) {
			if err := flush(); err != nil {
				return err
			}
			state := e.State
			current = &state
			entries = make(map[string]float64)
		}
		entries[e.Action.Hash()] = e.Value
	}
	if err := flush(); err != nil {
		return err
	}
	return util.WriteLines(path, lines...)
}

type recordedState struct {
	State   string             `json:"state"`
	Entries map[string]float64 `json:"entries"`
}

// Read loads a table written by Record into q
func (q *QTable) Read(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		r := recordedState{}
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		state, err := grid.ParsePosition(r.State)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		for name, val := range r.Entries {
			action, ok := grid.ParseAction(name)
			if !ok {
				return fmt.Errorf("line %d: unknown action %q", line, name)
			}
			q.Set(state, action, val)
		}
	}
	return scanner.Err()
}
