package enigmind

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Criteria is what a player sees of a [Verifier]: a description and a list of
// rules, only one of which is the verifier's. Rules carries no hint of which.
type Criteria struct {
	Verifier    Verifier `json:"verifier"`
	Description string   `json:"description"`
	Rules       []Rule   `json:"rules"`
}

// NewCriteria picks one of the similar-rule groups of v at random.
func NewCriteria(gc GameConfiguration, v Verifier, r *rand.Rand) (Criteria, error) {
	groups := v.Rule.Similar(gc)
	if len(groups) == 0 {
		return Criteria{}, fmt.Errorf("no similar rules for %s", v.Rule)
	}
	g := groups[r.IntN(len(groups))]
	return Criteria{
		Verifier:    v,
		Description: g.Description,
		Rules:       g.Rules,
	}, nil
}

// Format lists the criteria; with reveal the verifier's rule is starred.
func (c Criteria) Format(reveal bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Criteria : %s.\n", c.Description)
	if reveal {
		fmt.Fprintf(&b, "Rule : %s\n", c.Verifier)
	}
	for _, rule := range c.Rules {
		fmt.Fprintf(&b, "\t%s", rule)
		if reveal && rule == c.Verifier.Rule {
			b.WriteString(" (*)")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Criteria implements [fmt.Stringer] without giving the answer away.
func (c Criteria) String() string {
	return c.Format(false)
}
