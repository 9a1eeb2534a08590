package enigmind

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/enigmind-server/internal/bitmask"
)

func TestCandidateRuleCount(t *testing.T) {
	gc := GameConfiguration{Base: 5, ColumnCount: 3}
	// 3 columns * 4 single-column ops
	// + 3 sums * (3 singles * 5 + 3 pairs * 10 + 1 triple * 15) thresholds
	// + 4 counts * 5 values
	assert.Len(t, candidateRules(gc), 12+3*(15+30+15)+20)
}

func TestGenerateRulesDifficultyFilter(t *testing.T) {
	t.Parallel()

	for _, difficulty := range []int{0, 10, 33, 50} {
		gc := GameConfiguration{Base: 5, ColumnCount: 3, MinDifficulty: difficulty}
		universe, err := GenerateRules(gc)
		require.NoError(t, err)
		require.NotEmpty(t, universe)

		for _, v := range universe {
			ones := v.Mask.CountOnes()
			require.Positive(t, ones)
			require.Greater(t, ones*100/gc.SolutionCount(), difficulty, v.Rule.String())
		}
	}

	universe, err := GenerateRules(GameConfiguration{Base: 5, ColumnCount: 3, MinDifficulty: 100})
	require.NoError(t, err)
	assert.Empty(t, universe)
}

func requireSolvable(t *testing.T, game *Game) {
	t.Helper()

	gc := game.Configuration
	n := gc.SolutionCount()
	verifiers := make([]Verifier, len(game.Criterias))
	for i, c := range game.Criterias {
		verifiers[i] = c.Verifier
		require.Contains(t, c.Rules, c.Verifier.Rule)
		ok, err := game.Test(game.Code, i)
		require.NoError(t, err)
		require.True(t, ok, "answer fails %s", c.Verifier.Rule)
	}

	all, err := intersect(n, verifiers, -1)
	require.NoError(t, err)
	require.Equal(t, 1, all.CountOnes())
	require.Equal(t, game.Code, CodeFromShift(all.TrailingZeros(), gc))

	for i := range verifiers {
		rest, err := intersect(n, verifiers, i)
		require.NoError(t, err)
		require.Greater(t, rest.CountOnes(), 1, "%s is redundant", verifiers[i].Rule)
	}
}

func TestGenerateGame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                      string
		base, columns, difficulty int
		heavy                     bool
	}{
		{"5x3(10)", 5, 3, 10, false},
		{"5x3(0)", 5, 3, 0, false},
		{"2x4(0)", 2, 4, 0, false},
		{"4x4(20)", 4, 4, 20, false},
		{"11x2(0)", 11, 2, 0, false},
		{"6x5(10)", 6, 5, 10, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.heavy && testing.Short() {
				t.Skip()
			}
			t.Parallel()

			runs := 5
			if test.heavy {
				runs = 1
			}
			r := rand.New(rand.NewPCG(1, 2))
			for range runs {
				game, err := GenerateGame(test.base, test.columns, test.difficulty, r)
				require.NoError(t, err)
				require.Len(t, game.Code, test.columns)
				requireSolvable(t, game)
			}
		})
	}
}

func TestGenerateSingleSolution(t *testing.T) {
	game, err := GenerateGame(1, 3, 0, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.Empty(t, game.Criterias)
	assert.Equal(t, Code{0, 0, 0}, game.Code)

	ok, err := game.Bid(Code{0, 0, 0})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateIsReproducible(t *testing.T) {
	gen := func() []byte {
		game, err := GenerateGame(5, 3, 10, rand.New(rand.NewPCG(42, 7)))
		require.NoError(t, err)
		b, err := json.Marshal(game)
		require.NoError(t, err)
		return b
	}
	assert.Equal(t, gen(), gen())
}

func TestGenerateFails(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	gc, err := NewGameConfiguration(5, 3, 0)
	require.NoError(t, err)
	// no rule with min difficulty 0 holds for a single code
	_, err = gc.Generate(r, 1)
	require.ErrorIs(t, err, ErrGenerationFailed)

	_, err = GenerateGame(5, 3, 100, r)
	require.ErrorIs(t, err, ErrGenerationFailed)

	_, err = GenerateGame(10, 9, 0, r)
	require.ErrorIs(t, err, ErrSolutionSpaceTooLarge)

	_, err = GenerateGame(10, 7, 0, r)
	require.ErrorIs(t, err, ErrSolutionSpaceTooLarge)
}

func maskOf(t *testing.T, bits string) bitmask.Mask {
	t.Helper()
	m, err := bitmask.Zeros(len(bits))
	require.NoError(t, err)
	for i, b := range bits {
		require.NoError(t, m.Set(i, b == '1'))
	}
	return m
}

func TestRemoveRedundant(t *testing.T) {
	v := func(count int, bits string) Verifier {
		return Verifier{Rule: XColumnsEquals(count, 0), Mask: maskOf(t, bits)}
	}

	t.Run("duplicates keep one", func(t *testing.T) {
		kept, err := removeRedundant(4, []Verifier{v(0, "0110"), v(1, "0110"), v(2, "0011")})
		require.NoError(t, err)
		require.Len(t, kept, 2)
		assert.Equal(t, 1, kept[0].Rule.Count)
		assert.Equal(t, 2, kept[1].Rule.Count)
		all, err := intersect(4, kept, -1)
		require.NoError(t, err)
		assert.Equal(t, "0010", all.String())
	})

	t.Run("superset dropped", func(t *testing.T) {
		kept, err := removeRedundant(4, []Verifier{v(0, "0010"), v(1, "1110")})
		require.NoError(t, err)
		require.Len(t, kept, 1)
		assert.Equal(t, 0, kept[0].Rule.Count)
	})

	t.Run("all needed sorted by population", func(t *testing.T) {
		kept, err := removeRedundant(4, []Verifier{v(0, "0110"), v(1, "1011")})
		require.NoError(t, err)
		require.Len(t, kept, 2)
		assert.Equal(t, 1, kept[0].Rule.Count)
		assert.Equal(t, 0, kept[1].Rule.Count)
	})
}
