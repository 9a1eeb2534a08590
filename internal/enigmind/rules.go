package enigmind

import "github.com/sirupsen/logrus"

// candidateRules lists every distinguishable rule for gc, before filtering.
func candidateRules(gc GameConfiguration) []Rule {
	var rules []Rule

	for _, cs := range gc.ColumnCombinationsOfLen(1) {
		rules = append(rules,
			MatchesOp(OpEven(), cs),
			MatchesOp(OpOdd(), cs),
			MatchesOp(OpLowest(), cs),
			MatchesOp(OpHighest(), cs),
		)
	}

	for _, cs := range gc.ColumnCombinations() {
		for n := range cs.Len() * gc.Base {
			rules = append(rules,
				MatchesOp(OpSumBelow(n), cs),
				MatchesOp(OpSumEquals(n), cs),
				MatchesOp(OpSumAbove(n), cs),
			)
		}
	}

	for count := 0; count <= gc.ColumnCount; count++ {
		for value := range gc.Base {
			rules = append(rules, XColumnsEquals(count, value))
		}
	}

	return rules
}

// hardEnough reports whether a rule satisfied by ones of the gc.SolutionCount()
// codes passes the difficulty filter.
func hardEnough(gc GameConfiguration, ones int) bool {
	return ones > 0 && ones*100/gc.SolutionCount() > gc.MinDifficulty
}

// GenerateRules enumerates the rule universe of gc and keeps the rules that
// pass the difficulty filter, each with its mask already computed.
func GenerateRules(gc GameConfiguration) ([]Verifier, error) {
	if err := gc.Validate(); err != nil {
		return nil, err
	}

	candidates := candidateRules(gc)
	universe := make([]Verifier, 0, len(candidates))
	for _, rule := range candidates {
		v, err := NewVerifier(gc, rule)
		if err != nil {
			return nil, err
		}
		if hardEnough(gc, v.Mask.CountOnes()) {
			universe = append(universe, v)
		}
	}

	Log.WithFields(logrus.Fields{
		"config":     gc.String(),
		"candidates": len(candidates),
		"kept":       len(universe),
	}).Debug("rules generated")

	return universe, nil
}
