package enigmind

import "fmt"

// SimilarGroup is a description shared by several rules, one of which is the
// rule being obfuscated.
type SimilarGroup struct {
	Description string `json:"description"`
	Rules       []Rule `json:"rules"`
}

func (r Rule) sameSizeFamily(gc GameConfiguration) []Rule {
	sets := gc.ColumnCombinationsOfLen(r.Columns.Len())
	rules := make([]Rule, len(sets))
	for i, cs := range sets {
		rules[i] = MatchesOp(r.Op, cs)
	}
	return rules
}

// Similar lists the ways r can be presented to a player. Every group contains
// r itself.
func (r Rule) Similar(gc GameConfiguration) []SimilarGroup {
	switch r.Kind {
	case XColumnsEqualsKind:
		rules := make([]Rule, 0, gc.ColumnCount+1)
		for count := 0; count <= gc.ColumnCount; count++ {
			rules = append(rules, XColumnsEquals(count, r.Value))
		}
		return []SimilarGroup{{
			Description: fmt.Sprintf("There are X columns equal to %d", r.Value),
			Rules:       rules,
		}}
	case MatchesOpKind:
	default:
		return nil
	}

	switch r.Op.Kind {
	case Even, Odd:
		return []SimilarGroup{
			{
				Description: fmt.Sprintf("Column %s is even or odd", r.Columns),
				Rules: []Rule{
					MatchesOp(OpEven(), r.Columns),
					MatchesOp(OpOdd(), r.Columns),
				},
			},
			{
				Description: fmt.Sprintf("One of the columns is %s", r.Op),
				Rules:       r.sameSizeFamily(gc),
			},
		}
	case Lowest, Highest:
		return []SimilarGroup{{
			Description: fmt.Sprintf("One of the columns is the %s", r.Op),
			Rules:       r.sameSizeFamily(gc),
		}}
	case SumBelow, SumEquals, SumAbove:
		n := r.Op.Value
		return []SimilarGroup{
			{
				Description: fmt.Sprintf(
					"Column(s) %s sum is below, equal to or above %d", r.Columns, n,
				),
				Rules: []Rule{
					MatchesOp(OpSumBelow(n), r.Columns),
					MatchesOp(OpSumEquals(n), r.Columns),
					MatchesOp(OpSumAbove(n), r.Columns),
				},
			},
			{
				Description: fmt.Sprintf(
					"Sum of %d columns is %s %d", r.Columns.Len(), r.Op, n,
				),
				Rules: r.sameSizeFamily(gc),
			},
		}
	}
	return nil
}
