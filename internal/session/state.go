// Package session holds what a player has done with a generated game: the
// codes tested against criteria, the bids, and whether the game is over.
package session

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"strconv"

	"github.com/vancomm/enigmind-server/internal/enigmind"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrNoCriteria    = errors.New("no criteria to test")
	ErrBadCriteriaID = errors.New("criteria must be a string of criteria indices")
)

// TestLog is one evaluation of a criteria against a code.
type TestLog struct {
	Code     enigmind.Code `json:"code"`
	Criteria int           `json:"criteria"`
	Result   bool          `json:"result"`
}

type State struct {
	Game     enigmind.Game
	Logs     []TestLog
	BidCount int
	Won      bool
	Forfeit  bool
}

func NewState(game *enigmind.Game) *State {
	return &State{Game: *game}
}

func DecodeState(buf []byte) (*State, error) {
	var s State
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&s); err != nil {
		return nil, err
	}
	if s.Game.Criterias == nil {
		s.Game.Criterias = []enigmind.Criteria{}
	}
	return &s, nil
}

func (s State) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s State) Over() bool {
	return s.Won || s.Forfeit
}

// ParseCriterias reads a string like "02" into criteria indices 0 and 2.
func (s State) ParseCriterias(str string) ([]int, error) {
	if str == "" {
		return nil, ErrNoCriteria
	}
	indices := make([]int, 0, len(str))
	for _, r := range str {
		i, err := strconv.Atoi(string(r))
		if err != nil {
			return nil, ErrBadCriteriaID
		}
		if i >= len(s.Game.Criterias) {
			return nil, fmt.Errorf(
				"%w: %d of %d", enigmind.ErrCriteriaIndexOutOfRange, i, len(s.Game.Criterias),
			)
		}
		indices = append(indices, i)
	}
	return indices, nil
}

// Test evaluates code against each criteria in criterias and appends the
// results to the log. Nothing is logged if any argument is invalid.
func (s *State) Test(code enigmind.Code, criterias []int) ([]TestLog, error) {
	if s.Over() {
		return nil, ErrGameOver
	}
	if len(criterias) == 0 {
		return nil, ErrNoCriteria
	}
	logs := make([]TestLog, 0, len(criterias))
	for _, i := range criterias {
		res, err := s.Game.Test(code, i)
		if err != nil {
			return nil, err
		}
		logs = append(logs, TestLog{Code: code, Criteria: i, Result: res})
	}
	s.Logs = append(s.Logs, logs...)
	return logs, nil
}

// Bid submits a final answer. A wrong bid is counted and the game goes on.
func (s *State) Bid(code enigmind.Code) (bool, error) {
	if s.Over() {
		return false, ErrGameOver
	}
	ok, err := s.Game.Bid(code)
	if err != nil {
		return false, err
	}
	s.BidCount++
	s.Won = ok
	return ok, nil
}

func (s *State) GiveUp() {
	if !s.Over() {
		s.Forfeit = true
	}
}
