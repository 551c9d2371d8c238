package types

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// Episodic is a learner bound to its environment that can be trained one episode at a time
type Episodic interface {
	RunEpisode(episode int)
}

type DataSet interface{}

// Analyzer inspects the learner after every episode and accumulates a DataSet
type Analyzer interface {
	Analyze(episode int)
	DataSet() DataSet
	Reset()
}

// Comparator receives, for one analysis, the experiment names and the corresponding datasets
type Comparator func(names []string, datasets []DataSet) error

// Experiment encapsulates a learner and the analyzers observing it
type Experiment struct {
	Name      string
	runner    Episodic
	analyzers map[string]Analyzer
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, runner Episodic) *Experiment {
	return &Experiment{
		Name:      name,
		runner:    runner,
		analyzers: make(map[string]Analyzer),
	}
}

// AddAnalyzer attaches an analyzer under the analysis name
func (e *Experiment) AddAnalyzer(analysis string, a Analyzer) *Experiment {
	e.analyzers[analysis] = a
	return e
}

// Run the experiment for the specified number of episodes
func (e *Experiment) Run(ctx context.Context, episodes int, printer Printer) error {
	for _, a := range e.analyzers {
		a.Reset()
	}
	for i := 0; i < episodes; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		e.runner.RunEpisode(i)
		for _, a := range e.analyzers {
			a.Analyze(i)
		}
		printer.Print(fmt.Sprintf("Exp: %s, Episode: %d/%d", e.Name, i+1, episodes))
	}
	return nil
}

// Comparison runs a set of experiments one after the other and hands the
// datasets of each analysis to its comparators
type Comparison struct {
	Experiments []*Experiment
	comparators map[string][]Comparator
	out         io.Writer
}

func NewComparison() *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		comparators: make(map[string][]Comparator),
		out:         os.Stdout,
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// AddComparator registers a comparator for the analysis name
func (c *Comparison) AddComparator(analysis string, cmp Comparator) {
	c.comparators[analysis] = append(c.comparators[analysis], cmp)
}

// SetOutput changes where progress is printed
func (c *Comparison) SetOutput(w io.Writer) {
	c.out = w
}

func (c *Comparison) Run(ctx context.Context, episodes int) error {
	printer := NewTerminalPrinter(c.out)
	defer printer.Stop()

	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		if err := e.Run(ctx, episodes, printer); err != nil {
			return err
		}
		names[i] = e.Name
	}

	analyses := make([]string, 0, len(c.comparators))
	for name := range c.comparators {
		analyses = append(analyses, name)
	}
	sort.Strings(analyses)

	errs := make([]error, 0)
	for _, analysis := range analyses {
		datasets := make([]DataSet, len(c.Experiments))
		for i, e := range c.Experiments {
			if a, ok := e.analyzers[analysis]; ok {
				datasets[i] = a.DataSet()
			}
		}
		for _, cmp := range c.comparators[analysis] {
			if err := cmp(names, datasets); err != nil {
				errs = append(errs, fmt.Errorf("analysis %s: %w", analysis, err))
			}
		}
	}
	return errors.Join(errs...)
}
