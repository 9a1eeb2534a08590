package enigmind

import (
	"fmt"

	"github.com/vancomm/enigmind-server/internal/bitmask"
)

// MaxBase is the number of values a [Code] digit can hold.
const MaxBase = 256

// MaxRuleMemory bounds the bytes of rule masks built for one configuration.
const MaxRuleMemory = 256 << 20

type GameConfiguration struct {
	ColumnCount   int `json:"column_count"`
	Base          int `json:"base"`
	MinDifficulty int `json:"min_difficulty"`
}

// NewGameConfiguration validates the parameters and clamps the difficulty
// percentage to [0, 100].
func NewGameConfiguration(base, columnCount, difficultyPct int) (GameConfiguration, error) {
	gc := GameConfiguration{
		ColumnCount:   columnCount,
		Base:          base,
		MinDifficulty: min(max(difficultyPct, 0), 100),
	}
	return gc, gc.Validate()
}

func (gc GameConfiguration) Validate() error {
	if gc.ColumnCount < 1 {
		return fmt.Errorf("%w: column count %d", ErrInvalidConfiguration, gc.ColumnCount)
	}
	if gc.ColumnCount > MaxColumns {
		return fmt.Errorf("%w: %d > %d", ErrTooManyColumns, gc.ColumnCount, MaxColumns)
	}
	if gc.Base < 1 || gc.Base > MaxBase {
		return fmt.Errorf("%w: base %d not in [1, %d]", ErrInvalidConfiguration, gc.Base, MaxBase)
	}
	n := 1
	for range gc.ColumnCount {
		n *= gc.Base
		if n > bitmask.MaxBits {
			return fmt.Errorf(
				"%w: %d^%d exceeds %d", ErrSolutionSpaceTooLarge,
				gc.Base, gc.ColumnCount, bitmask.MaxBits,
			)
		}
	}
	if mem := gc.RuleMemory(); mem > MaxRuleMemory {
		return fmt.Errorf(
			"%w: %d rules of %d codes need %d MiB, limit is %d MiB",
			ErrSolutionSpaceTooLarge, gc.RuleCount(), n, mem>>20, MaxRuleMemory>>20,
		)
	}
	return nil
}

// RuleCount is the number of candidate rules enumerated for gc: four
// single-column operators per column, three sum operators per threshold of
// every column set, and one count rule per (count, value) pair.
func (gc GameConfiguration) RuleCount() int {
	cols, base := gc.ColumnCount, gc.Base
	// sum over column sets of their size is cols * 2^(cols-1)
	sums := 3 * base * cols << (cols - 1)
	return 4*cols + sums + (cols+1)*base
}

// RuleMemory estimates the bytes taken by the masks of every candidate rule,
// each packed in 64-bit words.
func (gc GameConfiguration) RuleMemory() int {
	words := (gc.SolutionCount() + 63) / 64
	return gc.RuleCount() * words * 8
}

// SolutionCount is base^column_count, the number of possible codes.
func (gc GameConfiguration) SolutionCount() int {
	n := 1
	for range gc.ColumnCount {
		n *= gc.Base
	}
	return n
}

func (gc GameConfiguration) Columns() []Column {
	cols := make([]Column, gc.ColumnCount)
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// ColumnCombinations returns every distinct non-empty set of columns, ordered
// by size and then by members. This is the set collapse of the
// column_count-fold Cartesian product of column indices.
func (gc GameConfiguration) ColumnCombinations() []ColumnSet {
	all := make([]ColumnSet, 0, 1<<gc.ColumnCount-1)
	for size := 1; size <= gc.ColumnCount; size++ {
		all = append(all, gc.ColumnCombinationsOfLen(size)...)
	}
	return all
}

// ColumnCombinationsOfLen returns the column sets holding exactly length
// columns in ascending numeric order.
func (gc GameConfiguration) ColumnCombinationsOfLen(length int) []ColumnSet {
	var sets []ColumnSet
	if length < 1 || length > gc.ColumnCount {
		return sets
	}
	for s := ColumnSet(1); s < 1<<gc.ColumnCount; s++ {
		if s.Len() == length {
			sets = append(sets, s)
		}
	}
	return sets
}

// GameConfiguration implements [fmt.Stringer]
func (gc GameConfiguration) String() string {
	return fmt.Sprintf(
		"{%d columns between 0 and %d (%d possibilities)}",
		gc.ColumnCount, gc.Base-1, gc.SolutionCount(),
	)
}
