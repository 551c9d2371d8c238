package grid

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
	"gonum.org/v1/gonum/mat"
)

// Render draws the maze with the agent cell marked by '*'
func (e *Environment) Render(w io.Writer, colors bool) {
	au := aurora.NewAurora(colors)
	rows, cols := e.rewards.Dims()
	bar := strings.Repeat("-", 4*cols+1)
	for i := 0; i < rows; i++ {
		fmt.Fprintln(w, bar)
		fmt.Fprint(w, "|")
		for j := 0; j < cols; j++ {
			if e.CurPos.I == i && e.CurPos.J == j {
				fmt.Fprintf(w, " %s |", au.Green("*"))
			} else {
				fmt.Fprint(w, "   |")
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, bar)
}

// RenderValues prints a value surface as a table, positive values in blue
// and negative values in red
func RenderValues(w io.Writer, surface mat.Matrix, colors bool) {
	au := aurora.NewAurora(colors)
	rows, cols := surface.Dims()
	for i := 0; i < rows; i++ {
		fmt.Fprint(w, "|")
		for j := 0; j < cols; j++ {
			v := surface.At(i, j)
			cell := fmt.Sprintf("%7.2f", v)
			switch {
			case v > 0:
				fmt.Fprint(w, au.Blue(cell))
			case v < 0:
				fmt.Fprint(w, au.Red(cell))
			default:
				fmt.Fprint(w, cell)
			}
			fmt.Fprint(w, " |")
		}
		fmt.Fprintln(w)
	}
}
