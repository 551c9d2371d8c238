package explorer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Runs the main interactive loop until quit or the input ends
func (e *Explorer) Interact(in io.Reader, out io.Writer) {
	fmt.Fprintf(out, "%s", e.header())
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s", e.prompt())

		optionS, err := reader.ReadString('\n')
		if err != nil && optionS == "" {
			return
		}
		option, err := strconv.Atoi(strings.TrimSpace(optionS))
		if err != nil {
			fmt.Fprintln(out, "Invalid input! Try again")
			continue
		}
		fmt.Fprintln(out, "------------------------------------")
		switch option {
		case 1:
			fmt.Fprintf(out, "%s", e.Policy())
		case 2:
			fmt.Fprintf(out, "Enter the cell as (row, col): ")
			cell, err := reader.ReadString('\n')
			if err != nil && cell == "" {
				return
			}
			fmt.Fprintf(out, "%s", e.QValues(strings.TrimSpace(cell)))
		case 3:
			fmt.Fprintln(out, "Quitting! Thank you")
			return
		default:
			fmt.Fprintln(out, "Wrong choice! Try again!")
		}
	}
}

func (e *Explorer) header() string {
	return fmt.Sprintf(`
Welcome to the q table explorer!
%s: %d x %d cells, %d entries
	`, e.PolicyFile, e.Rows, e.Cols, e.QTable.Size())
}

func (e *Explorer) prompt() string {
	return `
------------------------------------
Select one of the following options:
1. Show greedy policy
2. Show QValues
3. Quit
Enter your choice: `
}
