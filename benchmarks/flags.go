package benchmarks

import (
	"context"
	"os"
	"os/signal"
	"path"

	"github.com/zeu5/tabular-rl/report"
	"github.com/zeu5/tabular-rl/types"
	"github.com/zeu5/tabular-rl/util"
)

type Flags struct {
	Episodes   int
	Steps      int
	SavePath   string
	Seed       uint64
	Quiet      bool
	RedisAddr  string
	CPUProfile string
	MemProfile string
}

func DefaultFlags() *Flags {
	return &Flags{
		Episodes: 100,
		Steps:    100,
		SavePath: "results",
	}
}

// Record saves the flags to config.json in the results folder
func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}

var flags = DefaultFlags()

// interruptContext is cancelled on SIGINT or when done is called
func interruptContext() (context.Context, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		cancel()
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		close(doneCh)
	}
}

// addRedisSink registers the redis comparator for each analysis when an
// address is configured. The returned func closes the client.
func addRedisSink(ctx context.Context, c *types.Comparison, analyses ...string) func() {
	if flags.RedisAddr == "" {
		return func() {}
	}
	sink := report.NewRedisSink(ctx, flags.RedisAddr, "tabular-rl")
	for _, a := range analyses {
		c.AddComparator(a, sink.Comparator(a))
	}
	return func() { sink.Close() }
}
