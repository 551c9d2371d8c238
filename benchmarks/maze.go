package benchmarks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeu5/tabular-rl/grid"
	"github.com/zeu5/tabular-rl/policies"
	"github.com/zeu5/tabular-rl/types"
	"github.com/zeu5/tabular-rl/util"
)

type MazeConfig struct {
	GridFile string
	Epsilons []float64
	Params   policies.QLearningParams
	Steps    int
	SavePath string
	Seed     uint64
	Colors   bool
	// Out receives the console renderings, stdout when nil
	Out io.Writer
}

// PrepareMazeComparison sets up one Q-learning experiment per epsilon, all on
// the same reward grid
func PrepareMazeComparison(config MazeConfig) (*types.Comparison, error) {
	maze, err := grid.LoadEnvironment(config.GridFile)
	if err != nil {
		return nil, err
	}
	rows, cols := maze.Dims()

	out := config.Out
	if out == nil {
		out = os.Stdout
	}

	c := types.NewComparison()
	agents := make(map[string]*policies.QLearningAgent)
	envs := make(map[string]*grid.Environment)
	for _, eps := range config.Epsilons {
		params := config.Params
		params.Epsilon = eps
		params.Seed = config.Seed
		agent := policies.NewQLearningAgent(params)

		name := fmt.Sprintf("QLearning-eps%g", eps)
		env := maze.Clone()
		agents[name] = agent
		envs[name] = env
		exp := types.NewExperiment(name, policies.NewMazeRunner(agent, env, config.Steps))
		exp.AddAnalyzer("QValues", policies.NewQValueAnalyzer(agent, rows, cols))
		exp.AddAnalyzer("ValueSurface", grid.NewValueSurfaceAnalyzer(agent, rows, cols))
		c.AddExperiment(exp)
	}

	c.AddComparator("QValues", types.JSONComparator(config.SavePath, "QValues"))
	c.AddComparator("QValues", qTableComparator(config.SavePath, agents))
	c.AddComparator("ValueSurface", grid.HeatmapComparator(config.SavePath))
	c.AddComparator("ValueSurface", grid.ConsoleComparator(out, config.Colors))
	c.AddComparator("ValueSurface", grid.PositionComparator(out, envs, config.Colors))
	return c, nil
}

// qTableComparator records the final Q-table of every experiment
func qTableComparator(savePath string, agents map[string]*policies.QLearningAgent) types.Comparator {
	return func(names []string, _ []types.DataSet) error {
		for _, name := range names {
			agent, ok := agents[name]
			if !ok {
				continue
			}
			if err := agent.Table().Record(path.Join(savePath, name+"_qtable.jsonl")); err != nil {
				return err
			}
		}
		return nil
	}
}

func MazeCommand() *cobra.Command {
	var gridFile string
	params := policies.DefaultQLearningParams()
	epsilons := []float64{params.Epsilon}

	cmd := &cobra.Command{
		Use:   "maze",
		Short: "Train Q-learning agents on a reward grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := PrepareMazeComparison(MazeConfig{
				GridFile: gridFile,
				Epsilons: epsilons,
				Params:   params,
				Steps:    flags.Steps,
				SavePath: flags.SavePath,
				Seed:     flags.Seed,
				Colors:   !flags.Quiet,
			})
			if err != nil {
				return err
			}
			return runComparison("maze", c, "QValues")
		},
	}
	cmd.Flags().StringVar(&gridFile, "grid", "", "File with the whitespace separated reward grid")
	cmd.MarkFlagRequired("grid")
	cmd.Flags().Float64SliceVar(&epsilons, "epsilon", epsilons, "Exploration rates, one experiment each")
	cmd.Flags().Float64Var(&params.Alpha, "alpha", params.Alpha, "Learning rate")
	cmd.Flags().Float64Var(&params.Gamma, "gamma", params.Gamma, "Discount factor")
	return cmd
}

// runComparison runs c until done or interrupted, with profiling and the
// redis sink for the given analyses. Completed runs are appended to runs.log.
func runComparison(name string, c *types.Comparison, redisAnalyses ...string) error {
	ctx, done := interruptContext()
	defer done()

	stopProfiling, err := startProfiling(flags)
	if err != nil {
		return err
	}
	defer stopProfiling()

	closeSink := addRedisSink(ctx, c, redisAnalyses...)
	defer closeSink()

	if err := flags.Record(); err != nil {
		return err
	}
	err = c.Run(ctx, flags.Episodes)
	if errors.Is(err, context.Canceled) {
		fmt.Println("Interrupted")
		return nil
	}
	if err != nil {
		return err
	}

	names := make([]string, len(c.Experiments))
	for i, e := range c.Experiments {
		names[i] = e.Name
	}
	return util.AppendToFile(
		path.Join(flags.SavePath, "runs.log"),
		fmt.Sprintf("%s %s episodes=%d seed=%d experiments=%s", time.Now().Format(time.RFC3339), name, flags.Episodes, flags.Seed, strings.Join(names, ",")),
	)
}
