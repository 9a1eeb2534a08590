package enigmind

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/vancomm/enigmind-server/internal/bitmask"
)

var Log = logrus.New()

// DefaultMaxAttempts bounds the number of rules drawn while reducing the
// solution space. Without a bound a configuration whose rules cannot single
// out a code would draw forever.
const DefaultMaxAttempts = 100_000

// GenerateGame builds a puzzle for the given parameters using r as the only
// source of randomness.
func GenerateGame(base, columnCount, difficultyPct int, r *rand.Rand) (*Game, error) {
	gc, err := NewGameConfiguration(base, columnCount, difficultyPct)
	if err != nil {
		return nil, err
	}
	return gc.Generate(r, DefaultMaxAttempts)
}

// Generate builds a puzzle for gc. maxAttempts <= 0 removes the draw limit.
func (gc GameConfiguration) Generate(r *rand.Rand, maxAttempts int) (*Game, error) {
	if err := gc.Validate(); err != nil {
		return nil, err
	}

	// a single possible code needs no criteria
	if gc.SolutionCount() == 1 {
		return &Game{
			Configuration: gc,
			Criterias:     []Criteria{},
			Code:          CodeFromShift(0, gc),
		}, nil
	}

	universe, err := GenerateRules(gc)
	if err != nil {
		return nil, err
	}

	code, accepted, err := selectVerifiers(gc, universe, r, maxAttempts)
	if err != nil {
		return nil, err
	}

	verifiers, err := removeRedundant(gc.SolutionCount(), accepted)
	if err != nil {
		return nil, err
	}

	criterias := make([]Criteria, 0, len(verifiers))
	for _, v := range verifiers {
		c, err := NewCriteria(gc, v, r)
		if err != nil {
			return nil, err
		}
		criterias = append(criterias, c)
	}

	Log.WithFields(logrus.Fields{
		"config":     gc.String(),
		"accepted":   len(accepted),
		"criterias":  len(criterias),
		"complexity": meanComplexity(verifiers),
	}).Info("game generated")

	return &Game{
		Configuration: gc,
		Criterias:     criterias,
		Code:          code,
	}, nil
}

// selectVerifiers draws rules from universe until the intersection of the
// accepted ones leaves a single code.
func selectVerifiers(
	gc GameConfiguration, universe []Verifier, r *rand.Rand, maxAttempts int,
) (Code, []Verifier, error) {
	remaining, err := bitmask.Ones(gc.SolutionCount())
	if err != nil {
		return nil, nil, err
	}

	var accepted []Verifier
	for attempt := 0; remaining.CountOnes() > 1; attempt++ {
		if len(universe) == 0 || maxAttempts > 0 && attempt >= maxAttempts {
			return nil, nil, fmt.Errorf(
				"%w: %d codes left after %d draws from %d rules",
				ErrGenerationFailed, remaining.CountOnes(), attempt, len(universe),
			)
		}

		v := universe[r.IntN(len(universe))]
		candidate, err := remaining.And(v.Mask)
		if err != nil {
			return nil, nil, err
		}

		var msg string
		switch {
		case candidate.CountOnes() == 0:
			msg = "skipped (0 sols)"
		case candidate.Equal(remaining):
			msg = "skipped (0 impr)"
		default:
			accepted = append(accepted, v)
			remaining = candidate
			msg = "chosen"
		}
		Log.WithFields(logrus.Fields{
			"rule":      v.Rule.String(),
			"ones":      v.Mask.CountOnes(),
			"remaining": remaining.CountOnes(),
		}).Debug(msg)
	}

	return CodeFromShift(remaining.TrailingZeros(), gc), accepted, nil
}

// removeRedundant drops every verifier whose mask already contains the
// intersection of the others. Verifiers are visited once, most permissive
// first; a dropped verifier no longer counts for the ones visited after it.
func removeRedundant(n int, accepted []Verifier) ([]Verifier, error) {
	kept := slices.Clone(accepted)
	slices.SortStableFunc(kept, func(a, b Verifier) int {
		return cmp.Compare(b.Mask.CountOnes(), a.Mask.CountOnes())
	})

	for i := 0; i < len(kept); {
		others, err := intersect(n, kept, i)
		if err != nil {
			return nil, err
		}
		union, err := kept[i].Mask.Or(others)
		if err != nil {
			return nil, err
		}
		if union.Equal(kept[i].Mask) {
			Log.WithField("rule", kept[i].Rule.String()).Debug("redundant")
			kept = slices.Delete(kept, i, i+1)
			continue
		}
		i++
	}

	return kept, nil
}

func meanComplexity(vs []Verifier) int {
	if len(vs) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vs {
		sum += v.Mask.CountOnes()
	}
	return sum / len(vs)
}
