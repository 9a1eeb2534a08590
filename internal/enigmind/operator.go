package enigmind

import "fmt"

type OperatorKind uint8

const (
	Even OperatorKind = iota
	Odd
	Lowest
	Highest
	SumBelow
	SumEquals
	SumAbove
)

var operatorNames = [...]string{
	Even:      "Even",
	Odd:       "Odd",
	Lowest:    "Lowest",
	Highest:   "Highest",
	SumBelow:  "SumBelow",
	SumEquals: "SumEquals",
	SumAbove:  "SumAbove",
}

// IsSum reports whether the operator compares a sum against a value.
func (k OperatorKind) IsSum() bool {
	return k == SumBelow || k == SumEquals || k == SumAbove
}

// OperatorKind implements [fmt.Stringer]
func (k OperatorKind) String() string {
	switch k {
	case Even:
		return "even"
	case Odd:
		return "odd"
	case Lowest:
		return "lowest"
	case Highest:
		return "highest"
	case SumBelow:
		return "below"
	case SumEquals:
		return "equal to"
	case SumAbove:
		return "above"
	}
	return fmt.Sprintf("OperatorKind(%d)", uint8(k))
}

func (k OperatorKind) MarshalText() ([]byte, error) {
	if int(k) >= len(operatorNames) {
		return nil, fmt.Errorf("unknown operator %d", uint8(k))
	}
	return []byte(operatorNames[k]), nil
}

func (k *OperatorKind) UnmarshalText(text []byte) error {
	for i, name := range operatorNames {
		if name == string(text) {
			*k = OperatorKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown operator %q", text)
}

// Operator is what a MatchesOp rule checks on its columns. Value is only used
// by the sum operators.
type Operator struct {
	Kind  OperatorKind `json:"kind"`
	Value int          `json:"value,omitempty"`
}

func OpEven() Operator           { return Operator{Kind: Even} }
func OpOdd() Operator            { return Operator{Kind: Odd} }
func OpLowest() Operator         { return Operator{Kind: Lowest} }
func OpHighest() Operator        { return Operator{Kind: Highest} }
func OpSumBelow(n int) Operator  { return Operator{Kind: SumBelow, Value: n} }
func OpSumEquals(n int) Operator { return Operator{Kind: SumEquals, Value: n} }
func OpSumAbove(n int) Operator  { return Operator{Kind: SumAbove, Value: n} }

// Operator implements [fmt.Stringer]
func (op Operator) String() string {
	return op.Kind.String()
}
