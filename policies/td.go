package policies

import (
	"fmt"
	"io"
	"os"

	"github.com/zeu5/tabular-rl/chain"
)

type TDParams struct {
	Alpha  float64
	Gamma  float64
	Lambda float64
}

func DefaultTDParams() TDParams {
	return TDParams{
		Alpha:  0.1,
		Gamma:  0.9,
		Lambda: 0.9,
	}
}

// TDAgent learns state values of the chain with TD(0)
type TDAgent struct {
	values [chain.NumStates]float64
	alpha  float64
	gamma  float64

	out io.Writer
}

var _ chain.Learner = &TDAgent{}
var _ chain.ValueReader = &TDAgent{}

// NewTDAgent creates an agent with every value, Terminal included, at 0.
// Updates are reported on stdout until SetOutput is called.
func NewTDAgent(params TDParams) *TDAgent {
	return &TDAgent{
		alpha: params.Alpha,
		gamma: params.Gamma,
		out:   os.Stdout,
	}
}

func (t *TDAgent) SetOutput(w io.Writer) {
	t.out = w
}

func (t *TDAgent) Value(s chain.State) float64 {
	return t.values[s]
}

func (t *TDAgent) Values() map[chain.State]float64 {
	out := make(map[chain.State]float64, chain.NumStates)
	for _, s := range chain.AllStates {
		out[s] = t.values[s]
	}
	return out
}

// rpe is the reward prediction error of the transition
func (t *TDAgent) rpe(sNow, sNext chain.State, reward float64) float64 {
	return reward + t.gamma*t.values[sNext] - t.values[sNow]
}

func (t *TDAgent) report(sNow chain.State, reward float64) {
	fmt.Fprintf(t.out, "state %s, reward %.2f\n", sNow, reward)
}

// Update moves the value of sNow towards the bootstrapped target
func (t *TDAgent) Update(sNow, sNext chain.State, reward float64) {
	t.report(sNow, reward)
	t.values[sNow] += t.alpha * t.rpe(sNow, sNext, reward)
}

// TDLambdaAgent learns state values with TD(lambda) using accumulating
// eligibility traces (backward view)
type TDLambdaAgent struct {
	*TDAgent
	traces [chain.NumStates]float64
	lambda float64
}

var _ chain.Learner = &TDLambdaAgent{}

func NewTDLambdaAgent(params TDParams) *TDLambdaAgent {
	return &TDLambdaAgent{
		TDAgent: NewTDAgent(params),
		lambda:  params.Lambda,
	}
}

// Trace is the eligibility of s
func (t *TDLambdaAgent) Trace(s chain.State) float64 {
	return t.traces[s]
}

// Update computes the prediction error with the current values, decays every
// trace by lambda*gamma, bumps the trace of sNow by one and then moves every
// state's value in proportion to its trace. The bump must follow the decay.
func (t *TDLambdaAgent) Update(sNow, sNext chain.State, reward float64) {
	t.report(sNow, reward)
	rpe := t.rpe(sNow, sNext, reward)

	for s := range t.traces {
		t.traces[s] *= t.lambda * t.gamma
	}
	t.traces[sNow] += 1

	for s := range t.values {
		t.values[s] += t.alpha * rpe * t.traces[s]
	}
}
