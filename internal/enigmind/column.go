package enigmind

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strings"
)

// MaxColumns is the number of letters available to name columns.
const MaxColumns = 26

// Column is the index of a digit in a [Code], displayed as a letter.
type Column uint8

// Column implements [fmt.Stringer]
func (c Column) String() string {
	return string(rune('A' + c))
}

// ParseColumn accepts an upper- or lowercase letter.
func ParseColumn(r rune) (Column, bool) {
	switch {
	case 'A' <= r && r <= 'Z':
		return Column(r - 'A'), true
	case 'a' <= r && r <= 'z':
		return Column(r - 'a'), true
	}
	return 0, false
}

// ColumnSet is an unordered set of columns. Two sets holding the same columns
// are equal no matter how they were built, so a ColumnSet can be compared with
// == and used as a map key.
type ColumnSet uint32

func NewColumnSet(cols ...Column) ColumnSet {
	var s ColumnSet
	for _, c := range cols {
		s = s.Add(c)
	}
	return s
}

func (s ColumnSet) Add(c Column) ColumnSet {
	return s | 1<<c
}

func (s ColumnSet) Has(c Column) bool {
	return s&(1<<c) != 0
}

func (s ColumnSet) Len() int {
	return bits.OnesCount32(uint32(s))
}

func (s ColumnSet) IsEmpty() bool {
	return s == 0
}

// Columns returns the members in ascending order.
func (s ColumnSet) Columns() []Column {
	cols := make([]Column, 0, s.Len())
	for rest := uint32(s); rest != 0; rest &= rest - 1 {
		cols = append(cols, Column(bits.TrailingZeros32(rest)))
	}
	return cols
}

// ColumnSet implements [fmt.Stringer]
func (s ColumnSet) String() string {
	cols := s.Columns()
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MarshalJSON writes the column indices as a number array.
func (s ColumnSet) MarshalJSON() ([]byte, error) {
	cols := s.Columns()
	indices := make([]int, len(cols))
	for i, c := range cols {
		indices[i] = int(c)
	}
	return json.Marshal(indices)
}

func (s *ColumnSet) UnmarshalJSON(data []byte) error {
	var indices []int
	if err := json.Unmarshal(data, &indices); err != nil {
		return err
	}
	*s = 0
	for _, i := range indices {
		if i < 0 || i >= MaxColumns {
			return fmt.Errorf("column %d: %w", i, ErrColumnIndexOutOfBounds)
		}
		*s = s.Add(Column(i))
	}
	return nil
}
