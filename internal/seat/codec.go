// Package seat maps between linear seat indexes and the human readable
// labels printed on tickets ("1A", "12C").  A label is the 1-based row
// number followed by an uppercase column letter, so a venue can have at
// most 26 columns.  Everything in this package is pure and safe for
// concurrent use.
package seat

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// MaxColumns is the widest grid a single column letter can address.
const MaxColumns = 26

// labelPattern is the canonical seat label format.
var labelPattern = regexp.MustCompile(`^\d+[A-Z]$`)

// ErrInvalidFormat is returned when a label does not match ^\d+[A-Z]$.
var ErrInvalidFormat = errors.New("invalid seat format")

// Position is a decoded seat label.  Row is 1-based, Column is 0-based
// (A == 0) to match the index arithmetic.
type Position struct {
	Row    int
	Column int
}

// Label renders the position in canonical form.
func (p Position) Label() string {
	return strconv.Itoa(p.Row) + string(rune('A'+p.Column))
}

// Valid reports whether s is a canonically formatted label.  Bounds are not
// checked.
func Valid(s string) bool { return labelPattern.MatchString(s) }

// Parse decodes a label into its row and column.  It fails with
// ErrInvalidFormat regardless of any venue bounds.
func Parse(label string) (Position, error) {
	if !labelPattern.MatchString(label) {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidFormat, label)
	}
	digits := label[:len(label)-1]
	row, err := strconv.Atoi(digits)
	if err != nil {
		// only reachable for absurdly long digit runs
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidFormat, label)
	}
	return Position{Row: row, Column: int(label[len(label)-1] - 'A')}, nil
}

// IndexToLabel converts a zero-based row-major index into a label for a
// grid that is columns wide.
func IndexToLabel(index, columns int) string {
	return Position{Row: index/columns + 1, Column: index % columns}.Label()
}

// LabelToIndex is the inverse of IndexToLabel.  Labels whose row is 0 map to
// a negative index; callers that care about bounds should use
// Dimensions.Index instead.
func LabelToIndex(label string, columns int) (int, error) {
	p, err := Parse(label)
	if err != nil {
		return 0, err
	}
	return (p.Row-1)*columns + p.Column, nil
}

// Canonical returns the label with any leading zeros stripped from the row,
// so "01A" and "1A" address (and are stored as) the same seat.
func Canonical(label string) (string, error) {
	p, err := Parse(label)
	if err != nil {
		return "", err
	}
	return p.Label(), nil
}
