package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var ErrMalformedGrid = errors.New("malformed grid")

// LoadRewardGrid reads a whitespace delimited matrix of rewards, one grid row
// per line. Text after '#' is a comment and blank lines are skipped.
func LoadRewardGrid(r io.Reader) (*mat.Dense, error) {
	data := make([]float64, 0)
	rows, cols := 0, 0

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("%w: line %d has %d columns, expected %d", ErrMalformedGrid, line, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q is not a number", ErrMalformedGrid, line, f)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading grid: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedGrid)
	}
	return mat.NewDense(rows, cols, data), nil
}

// LoadEnvironment builds a maze from the reward file at path
func LoadEnvironment(path string) (*Environment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening grid file: %w", err)
	}
	defer file.Close()

	rewards, err := LoadRewardGrid(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return NewEnvironment(rewards), nil
}
