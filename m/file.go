package m

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Line is one training example.
type Line struct {
	Inputs  []float64
	Targets []float64
}
type Lines []Line

// Split returns the parallel input and target sequences that Fit consumes.
func (lines Lines) Split() (inputs, targets [][]float64) {
	inputs = make([][]float64, len(lines))
	targets = make([][]float64, len(lines))
	for i, line := range lines {
		inputs[i] = line.Inputs
		targets[i] = line.Targets
	}
	return inputs, targets
}

// ReadLines parses comma separated examples, inputNum inputs followed by
// outputNum targets per line. Blank lines and lines starting with '#' are skipped.
func ReadLines(reader io.Reader, inputNum, outputNum int) (Lines, error) {
	scanner := bufio.NewScanner(reader)
	var lines Lines
	var lineNum int
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		splits := strings.Split(text, ",")
		if len(splits) != inputNum+outputNum {
			return lines, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(splits),
				expected: inputNum + outputNum,
			}
		}
		inputs := make([]float64, inputNum)
		targets := make([]float64, outputNum)

		for i, split := range splits {
			num, err := strconv.ParseFloat(strings.TrimSpace(split), 64)
			if err != nil {
				return lines, fmt.Errorf("line %d, column %d: %w", lineNum, i+1, err)
			}
			if i < inputNum {
				inputs[i] = num
			} else {
				targets[i-inputNum] = num
			}
		}
		lines = append(lines, Line{
			Inputs:  inputs,
			Targets: targets,
		})
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("reading lines: %w", err)
	}
	return lines, nil
}

type errInvalidLine struct {
	lineNum  int
	splits   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.splits)
}

// Is lets callers match a malformed line with errors.Is(err, ErrShapeMismatch).
func (e errInvalidLine) Is(target error) bool {
	return target == ErrShapeMismatch
}
