package benchmarks

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/tabular-rl/report"
)

func ServeCommand() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the saved results over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, done := interruptContext()
			defer done()

			fmt.Printf("Serving %s on localhost:%d\n", flags.SavePath, port)
			return report.NewServer(ctx, flags.SavePath, port).Run()
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")
	return cmd
}
