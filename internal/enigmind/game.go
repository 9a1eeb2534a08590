package enigmind

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"
)

// Game is a generated puzzle. Code is the answer in plain text: whoever hands
// a Game to a player must withhold it.
type Game struct {
	Configuration GameConfiguration `json:"configuration"`
	Criterias     []Criteria        `json:"criterias"`
	Code          Code              `json:"code"`
}

func DecodeGame(buf []byte) (*Game, error) {
	var game Game
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&game); err != nil {
		return nil, err
	}
	// gob drops empty slices
	if game.Criterias == nil {
		game.Criterias = []Criteria{}
	}
	return &game, nil
}

func (g Game) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IsSolutionCompatible reports whether code has the right length and digits.
func (g Game) IsSolutionCompatible(code Code) bool {
	if len(code) != g.Configuration.ColumnCount {
		return false
	}
	for _, d := range code {
		if !g.IsValueCompatible(int(d)) {
			return false
		}
	}
	return true
}

func (g Game) IsColumnCompatible(letter rune) bool {
	col, ok := ParseColumn(letter)
	return ok && int(col) < g.Configuration.ColumnCount
}

func (g Game) IsValueCompatible(value int) bool {
	return 0 <= value && value < g.Configuration.Base
}

// Test evaluates the true rule of criteria i against code.
func (g Game) Test(code Code, i int) (bool, error) {
	if !g.IsSolutionCompatible(code) {
		return false, fmt.Errorf("%w: %s for %s", ErrInvalidCode, code, g.Configuration)
	}
	if i < 0 || i >= len(g.Criterias) {
		return false, fmt.Errorf("%w: %d of %d", ErrCriteriaIndexOutOfRange, i, len(g.Criterias))
	}
	return g.Criterias[i].Verifier.Rule.Evaluate(code)
}

// Bid reports whether code is the answer.
func (g Game) Bid(code Code) (bool, error) {
	if !g.IsSolutionCompatible(code) {
		return false, fmt.Errorf("%w: %s for %s", ErrInvalidCode, code, g.Configuration)
	}
	return code.Equal(g.Code), nil
}

// Game implements [fmt.Stringer]. The output contains the answer.
func (g Game) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game : %s\n", g.Configuration)
	for _, c := range g.Criterias {
		b.WriteString(c.Format(true))
	}
	fmt.Fprintf(&b, "Code to find : %s", g.Code)
	return b.String()
}
