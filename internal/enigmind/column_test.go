package enigmind

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLetters(t *testing.T) {
	assert.Equal(t, "A", Column(0).String())
	assert.Equal(t, "Z", Column(25).String())

	for _, r := range []rune{'c', 'C'} {
		col, ok := ParseColumn(r)
		require.True(t, ok)
		assert.Equal(t, Column(2), col)
	}
	_, ok := ParseColumn('1')
	assert.False(t, ok)
}

func TestColumnSetIgnoresOrder(t *testing.T) {
	a := NewColumnSet(2, 0, 2)
	b := NewColumnSet(0, 2)

	assert.Equal(t, a, b)
	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Has(2))
	assert.False(t, a.Has(1))
	assert.Equal(t, []Column{0, 2}, a.Columns())
	assert.Equal(t, "[A, C]", a.String())

	seen := map[ColumnSet]bool{a: true}
	assert.True(t, seen[b])
}

func TestColumnSetJSON(t *testing.T) {
	s := NewColumnSet(3, 1)
	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, "[1, 3]", string(b))

	var back ColumnSet
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)

	require.ErrorIs(t, json.Unmarshal([]byte("[30]"), &back), ErrColumnIndexOutOfBounds)
}

func TestColumnCombinations(t *testing.T) {
	gc := GameConfiguration{ColumnCount: 3, Base: 5}

	assert.Len(t, gc.ColumnCombinationsOfLen(1), 3)
	assert.Len(t, gc.ColumnCombinationsOfLen(2), 3)
	assert.Len(t, gc.ColumnCombinationsOfLen(3), 1)
	assert.Empty(t, gc.ColumnCombinationsOfLen(4))
	assert.Equal(t, []ColumnSet{
		NewColumnSet(0), NewColumnSet(1), NewColumnSet(2),
		NewColumnSet(0, 1), NewColumnSet(0, 2), NewColumnSet(1, 2),
		NewColumnSet(0, 1, 2),
	}, gc.ColumnCombinations())
}
