package enigmind

import (
	"fmt"

	"github.com/vancomm/enigmind-server/internal/bitmask"
)

// Verifier binds a rule to its mask over the whole solution space.
type Verifier struct {
	Rule Rule         `json:"rule"`
	Mask bitmask.Mask `json:"mask"`
}

func NewVerifier(gc GameConfiguration, rule Rule) (Verifier, error) {
	mask, err := rule.Mask(gc)
	if err != nil {
		return Verifier{}, fmt.Errorf("mask of %s: %w", rule, err)
	}
	return Verifier{Rule: rule, Mask: mask}, nil
}

// Verifier implements [fmt.Stringer]
func (v Verifier) String() string {
	return fmt.Sprintf("%-25s: %s (%d)", v.Rule, v.Mask, v.Mask.CountOnes())
}

// intersect ANDs the masks of vs, skipping index skip (pass -1 to keep all).
func intersect(n int, vs []Verifier, skip int) (bitmask.Mask, error) {
	acc, err := bitmask.Ones(n)
	if err != nil {
		return bitmask.Mask{}, err
	}
	for i, v := range vs {
		if i == skip {
			continue
		}
		if err := acc.InPlaceAnd(v.Mask); err != nil {
			return bitmask.Mask{}, err
		}
	}
	return acc, nil
}
