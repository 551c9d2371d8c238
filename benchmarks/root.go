package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/tabular-rl/explorer"
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "tabular-rl",
		Short:        "Tabular reinforcement learning experiments",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().IntVarP(&flags.Episodes, "episodes", "e", flags.Episodes, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&flags.Steps, "steps", flags.Steps, "Steps of each maze episode")
	rootCommand.PersistentFlags().StringVarP(&flags.SavePath, "save", "s", flags.SavePath, "Save the result data in the specified folder")
	rootCommand.PersistentFlags().Uint64Var(&flags.Seed, "seed", 0, "Seed of the random sources, 0 seeds from the current time")
	rootCommand.PersistentFlags().BoolVar(&flags.Quiet, "quiet", false, "Do not log every learning update")
	rootCommand.PersistentFlags().StringVar(&flags.RedisAddr, "redis", "", "Redis address to push the series to")
	rootCommand.PersistentFlags().StringVar(&flags.CPUProfile, "cpuprofile", "", "Write a cpu profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&flags.MemProfile, "memprofile", "", "Write a memory profile to this file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(MazeCommand())
	rootCommand.AddCommand(ChainCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(explorer.ExploreCommand())
	return rootCommand
}
