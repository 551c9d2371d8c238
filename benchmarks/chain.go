package benchmarks

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/tabular-rl/chain"
	"github.com/zeu5/tabular-rl/policies"
	"github.com/zeu5/tabular-rl/types"
)

type ChainConfig struct {
	Params   policies.TDParams
	SavePath string
	Seed     uint64
	// Log receives every learning update
	Log io.Writer
	// Summary receives the final values
	Summary io.Writer
}

// PrepareChainComparison sets up the TD(0) and TD(lambda) experiments on
// separate chains
func PrepareChainComparison(config ChainConfig) *types.Comparison {
	td0 := policies.NewTDAgent(config.Params)
	td0.SetOutput(config.Log)
	tdl := policies.NewTDLambdaAgent(config.Params)
	tdl.SetOutput(config.Log)

	// different seeds keep the two coins independent
	seedLambda := config.Seed
	if seedLambda != 0 {
		seedLambda++
	}

	runners := map[string]*chain.Runner{
		"TD0":      chain.NewRunner(chain.NewEnvironment(config.Seed), td0),
		"TDLambda": chain.NewRunner(chain.NewEnvironment(seedLambda), tdl),
	}

	c := types.NewComparison()
	c.AddExperiment(types.NewExperiment("TD0", runners["TD0"]).
		AddAnalyzer("Values", chain.NewValueAnalyzer(td0)))
	c.AddExperiment(types.NewExperiment("TDLambda", runners["TDLambda"]).
		AddAnalyzer("Values", chain.NewValueAnalyzer(tdl)))

	c.AddComparator("Values", types.JSONComparator(config.SavePath, "Values"))
	c.AddComparator("Values", types.SeriesPlotComparator(config.SavePath, "Values"))
	c.AddComparator("Values", chain.SummaryComparator(config.Summary, 10))
	c.AddComparator("Values", chain.LastEpisodeComparator(config.Summary, runners))
	return c
}

func ChainCommand() *cobra.Command {
	params := policies.DefaultTDParams()

	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Learn the state values of the non-Markov chain with TD(0) and TD(lambda)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var log io.Writer = os.Stdout
			if flags.Quiet {
				log = io.Discard
			}
			c := PrepareChainComparison(ChainConfig{
				Params:   params,
				SavePath: flags.SavePath,
				Seed:     flags.Seed,
				Log:      log,
				Summary:  os.Stdout,
			})
			return runComparison("chain", c, "Values")
		},
	}
	cmd.Flags().Float64Var(&params.Alpha, "alpha", params.Alpha, "Learning rate")
	cmd.Flags().Float64Var(&params.Gamma, "gamma", params.Gamma, "Discount factor")
	cmd.Flags().Float64Var(&params.Lambda, "lambda", params.Lambda, "Trace decay of TD(lambda)")
	return cmd
}
