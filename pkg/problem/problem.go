// Package problem reads allocation problems in the plain text deck format:
// the lane capacity in centimetres on the first line, the number of lanes on
// the second, then one vehicle length per line. Blank lines are ignored.
package problem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kilianp07/ferry/core/allocation"
)

var (
	ErrEmptyInput       = errors.New("problem: missing capacity or lane count")
	ErrInvalidCapacity  = errors.New("problem: capacity must be a positive integer")
	ErrInvalidLaneCount = errors.New("problem: lane count must be a positive integer")
	ErrInvalidLength    = errors.New("problem: vehicle length must be a positive integer")
)

// LoadFile parses the problem stored at path.
func LoadFile(path string) (allocation.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return allocation.Input{}, fmt.Errorf("open problem: %w", err)
	}
	defer f.Close()
	in, err := Parse(f)
	if err != nil {
		return allocation.Input{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// Parse reads a problem from r.
func Parse(r io.Reader) (allocation.Input, error) {
	var (
		in     allocation.Input
		header int
		lineNo int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		n, err := strconv.Atoi(text)
		switch header {
		case 0:
			if err != nil || n <= 0 {
				return allocation.Input{}, fmt.Errorf("line %d %q: %w", lineNo, text, ErrInvalidCapacity)
			}
			in.Capacity = n
			header++
		case 1:
			if err != nil || n <= 0 {
				return allocation.Input{}, fmt.Errorf("line %d %q: %w", lineNo, text, ErrInvalidLaneCount)
			}
			in.LaneCount = n
			header++
		default:
			if err != nil || n <= 0 {
				return allocation.Input{}, fmt.Errorf("line %d %q: %w", lineNo, text, ErrInvalidLength)
			}
			in.Lengths = append(in.Lengths, n)
		}
	}
	if err := sc.Err(); err != nil {
		return allocation.Input{}, fmt.Errorf("read problem: %w", err)
	}
	if header < 2 {
		return allocation.Input{}, ErrEmptyInput
	}
	return in, nil
}

// Validate checks an input built programmatically against the same rules
// Parse enforces.
func Validate(in allocation.Input) error {
	if in.Capacity <= 0 {
		return fmt.Errorf("capacity %d: %w", in.Capacity, ErrInvalidCapacity)
	}
	if in.LaneCount <= 0 {
		return fmt.Errorf("lane count %d: %w", in.LaneCount, ErrInvalidLaneCount)
	}
	for i, l := range in.Lengths {
		if l <= 0 {
			return fmt.Errorf("vehicle %d length %d: %w", i, l, ErrInvalidLength)
		}
	}
	return nil
}
