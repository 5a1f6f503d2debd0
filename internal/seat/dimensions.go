package seat

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a well formed label falls outside the grid.
var ErrOutOfBounds = errors.New("seat outside venue")

// Dimensions is the static geometry of the venue an event is held in.
type Dimensions struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// Capacity is the total number of seats in the grid.
func (d Dimensions) Capacity() int { return d.Rows * d.Columns }

// Validate rejects grids that cannot be addressed by the label scheme.
func (d Dimensions) Validate() error {
	if d.Rows <= 0 || d.Columns <= 0 {
		return fmt.Errorf("venue must have at least one row and column, got %dx%d", d.Rows, d.Columns)
	}
	if d.Columns > MaxColumns {
		return fmt.Errorf("venue has %d columns, at most %d are addressable", d.Columns, MaxColumns)
	}
	return nil
}

// Contains reports whether p lies inside the grid.
func (d Dimensions) Contains(p Position) bool {
	return p.Row >= 1 && p.Row <= d.Rows && p.Column >= 0 && p.Column < d.Columns
}

// Index parses label and checks it against the grid, returning its linear
// index.  Format errors win over bounds errors.
func (d Dimensions) Index(label string) (int, error) {
	p, err := Parse(label)
	if err != nil {
		return 0, err
	}
	if !d.Contains(p) {
		return 0, fmt.Errorf("%w: %s not in %dx%d", ErrOutOfBounds, label, d.Rows, d.Columns)
	}
	return (p.Row-1)*d.Columns + p.Column, nil
}

// Label returns the label of index, which must be in [0, Capacity()).
func (d Dimensions) Label(index int) string { return IndexToLabel(index, d.Columns) }

// FirstFree walks the grid in row-major order (1A, 1B, ... 2A ...) and
// returns the first n labels not present in taken.  It returns fewer than n
// labels when the grid runs out.
func (d Dimensions) FirstFree(n int, taken map[string]struct{}) []string {
	out := make([]string, 0, n)
	for i := 0; i < d.Capacity() && len(out) < n; i++ {
		label := d.Label(i)
		if _, ok := taken[label]; ok {
			continue
		}
		out = append(out, label)
	}
	return out
}
