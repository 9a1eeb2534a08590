package enigmind

import (
	"fmt"

	"github.com/vancomm/enigmind-server/internal/bitmask"
)

type RuleKind uint8

const (
	// MatchesOpKind applies an [Operator] to a set of columns.
	MatchesOpKind RuleKind = iota
	// XColumnsEqualsKind counts the digits of the whole code equal to a value.
	XColumnsEqualsKind
)

func (k RuleKind) MarshalText() ([]byte, error) {
	switch k {
	case MatchesOpKind:
		return []byte("MatchesOp"), nil
	case XColumnsEqualsKind:
		return []byte("XColumnsEquals"), nil
	}
	return nil, fmt.Errorf("unknown rule kind %d", uint8(k))
}

func (k *RuleKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "MatchesOp":
		*k = MatchesOpKind
	case "XColumnsEquals":
		*k = XColumnsEqualsKind
	default:
		return fmt.Errorf("unknown rule kind %q", text)
	}
	return nil
}

// Rule is a predicate over a [Code]. Build rules with [MatchesOp] and
// [XColumnsEquals]; Op and Columns belong to the former, Count and Value to
// the latter.
type Rule struct {
	Kind    RuleKind  `json:"kind"`
	Op      Operator  `json:"op"`
	Columns ColumnSet `json:"columns,omitempty"`
	Count   int       `json:"count,omitempty"`
	Value   int       `json:"value,omitempty"`
}

func MatchesOp(op Operator, cols ColumnSet) Rule {
	return Rule{Kind: MatchesOpKind, Op: op, Columns: cols}
}

func XColumnsEquals(count, value int) Rule {
	return Rule{Kind: XColumnsEqualsKind, Count: count, Value: value}
}

// Evaluate reports whether code satisfies r. It fails with
// [ErrColumnIndexOutOfBounds] if r references a column code does not have.
func (r Rule) Evaluate(code Code) (bool, error) {
	switch r.Kind {
	case XColumnsEqualsKind:
		n := 0
		for _, d := range code {
			if int(d) == r.Value {
				n++
			}
		}
		return n == r.Count, nil
	case MatchesOpKind:
		return r.evaluateOp(code)
	}
	return false, fmt.Errorf("unknown rule kind %d", r.Kind)
}

func (r Rule) evaluateOp(code Code) (bool, error) {
	digits := make([]int, 0, r.Columns.Len())
	for _, col := range r.Columns.Columns() {
		d, err := code.Get(col)
		if err != nil {
			return false, err
		}
		digits = append(digits, int(d))
	}

	switch r.Op.Kind {
	case Even, Odd:
		rem := 0
		if r.Op.Kind == Odd {
			rem = 1
		}
		for _, d := range digits {
			if d%2 != rem {
				return false, nil
			}
		}
		return true, nil
	case Lowest, Highest:
		extreme, count := uniqueExtreme(code, r.Op.Kind == Highest)
		for _, d := range digits {
			if d != extreme || count != 1 {
				return false, nil
			}
		}
		return true, nil
	case SumBelow, SumEquals, SumAbove:
		sum := 0
		for _, d := range digits {
			sum += d
		}
		switch r.Op.Kind {
		case SumBelow:
			return sum < r.Op.Value, nil
		case SumEquals:
			return sum == r.Op.Value, nil
		default:
			return sum > r.Op.Value, nil
		}
	}
	return false, fmt.Errorf("unknown operator %d", r.Op.Kind)
}

// uniqueExtreme returns the minimum (or maximum) digit of code and how many
// times it occurs.
func uniqueExtreme(code Code, highest bool) (extreme, count int) {
	for i, d := range code {
		v := int(d)
		switch {
		case i == 0 || highest && v > extreme || !highest && v < extreme:
			extreme, count = v, 1
		case v == extreme:
			count++
		}
	}
	return extreme, count
}

// Mask materialises r over the whole solution space: bit i is set iff the
// code whose shift is i satisfies r.
func (r Rule) Mask(gc GameConfiguration) (bitmask.Mask, error) {
	n := gc.SolutionCount()
	mask, err := bitmask.Zeros(n)
	if err != nil {
		return bitmask.Mask{}, err
	}
	for i := range n {
		ok, err := r.Evaluate(CodeFromShift(i, gc))
		if err != nil {
			return bitmask.Mask{}, err
		}
		if ok {
			if err := mask.Set(i, true); err != nil {
				return bitmask.Mask{}, err
			}
		}
	}
	return mask, nil
}

// Rule implements [fmt.Stringer]
func (r Rule) String() string {
	switch r.Kind {
	case XColumnsEqualsKind:
		return fmt.Sprintf("XColumnsEquals(%d, %d)", r.Count, r.Value)
	case MatchesOpKind:
		switch r.Op.Kind {
		case Even:
			return fmt.Sprintf("IsEven(%s)", r.Columns)
		case Odd:
			return fmt.Sprintf("IsOdd(%s)", r.Columns)
		case Lowest:
			return fmt.Sprintf("IsLowest(%s)", r.Columns)
		case Highest:
			return fmt.Sprintf("IsHighest(%s)", r.Columns)
		case SumBelow:
			return fmt.Sprintf("SumBelow(%s, %d)", r.Columns, r.Op.Value)
		case SumEquals:
			return fmt.Sprintf("SumEquals(%s, %d)", r.Columns, r.Op.Value)
		case SumAbove:
			return fmt.Sprintf("SumAbove(%s, %d)", r.Columns, r.Op.Value)
		}
	}
	return fmt.Sprintf("Rule(%d)", r.Kind)
}

// Text is a sentence a player can read.
func (r Rule) Text() string {
	switch r.Kind {
	case XColumnsEqualsKind:
		if r.Count == 1 {
			return fmt.Sprintf("exactly 1 column equals %d", r.Value)
		}
		return fmt.Sprintf("exactly %d columns equal %d", r.Count, r.Value)
	case MatchesOpKind:
		cols := r.Columns.Columns()
		names := make([]byte, 0, len(cols))
		for _, c := range cols {
			names = append(names, byte('A'+c))
		}
		switch {
		case r.Op.Kind.IsSum() && len(cols) == 1:
			return fmt.Sprintf("%s is %s %d", names, r.Op, r.Op.Value)
		case r.Op.Kind.IsSum():
			return fmt.Sprintf("the sum of %s is %s %d", names, r.Op, r.Op.Value)
		case r.Op.Kind == Lowest || r.Op.Kind == Highest:
			return fmt.Sprintf("%s is the strictly %s digit", names, r.Op)
		case len(cols) == 1:
			return fmt.Sprintf("%s is %s", names, r.Op)
		default:
			return fmt.Sprintf("%s are all %s", names, r.Op)
		}
	}
	return r.String()
}
