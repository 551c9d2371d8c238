package types

import (
	"fmt"
	"io"

	"github.com/gosuri/uilive"
)

// Printer displays the status line of the running experiment
type Printer interface {
	Print(string)
	Stop()
}

// TerminalPrinter rewrites a single status line in place
type TerminalPrinter struct {
	writer *uilive.Writer
}

var _ Printer = &TerminalPrinter{}

func NewTerminalPrinter(out io.Writer) *TerminalPrinter {
	writer := uilive.New()
	writer.Out = out
	return &TerminalPrinter{
		writer: writer,
	}
}

func (p *TerminalPrinter) Print(s string) {
	fmt.Fprintln(p.writer, s)
	p.writer.Flush()
}

// Stop flushes the last status line
func (p *TerminalPrinter) Stop() {
	p.writer.Flush()
}
