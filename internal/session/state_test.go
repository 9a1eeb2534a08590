package session_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/enigmind-server/internal/enigmind"
	"github.com/vancomm/enigmind-server/internal/session"
)

func newState(t *testing.T) *session.State {
	t.Helper()
	game, err := enigmind.GenerateGame(5, 3, 10, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(game.Criterias), 2)
	return session.NewState(game)
}

func wrongCode(s *session.State) enigmind.Code {
	gc := s.Game.Configuration
	return enigmind.CodeFromShift((s.Game.Code.Shift(gc)+1)%gc.SolutionCount(), gc)
}

func TestExecuteTest(t *testing.T) {
	s := newState(t)

	require.NoError(t, s.Execute("t "+s.Game.Code.String()+" 01"))
	require.Len(t, s.Logs, 2)
	for i, log := range s.Logs {
		assert.Equal(t, i, log.Criteria)
		assert.True(t, log.Result)
		assert.Equal(t, s.Game.Code, log.Code)
	}

	assert.ErrorIs(t, s.Execute("t 401 9"), enigmind.ErrCriteriaIndexOutOfRange)
	assert.ErrorIs(t, s.Execute("t 401 x"), session.ErrBadCriteriaID)
	assert.ErrorIs(t, s.Execute("t 4a1 0"), enigmind.ErrInvalidCode)
	assert.ErrorIs(t, s.Execute("t 999 0"), enigmind.ErrInvalidCode)
	assert.Error(t, s.Execute("t 401"))
	assert.Len(t, s.Logs, 2)
}

func TestExecuteBid(t *testing.T) {
	s := newState(t)

	require.NoError(t, s.Execute("b "+wrongCode(s).String()))
	assert.False(t, s.Won)
	assert.Equal(t, 1, s.BidCount)

	require.NoError(t, s.Execute("b "+s.Game.Code.String()))
	assert.True(t, s.Won)
	assert.True(t, s.Over())
	assert.Equal(t, 2, s.BidCount)

	assert.ErrorIs(t, s.Execute("b "+s.Game.Code.String()), session.ErrGameOver)
	assert.ErrorIs(t, s.Execute("t "+s.Game.Code.String()+" 0"), session.ErrGameOver)
}

func TestExecuteMisc(t *testing.T) {
	s := newState(t)

	assert.NoError(t, s.Execute("   "))
	assert.NoError(t, s.Execute("g"))
	assert.ErrorIs(t, s.Execute("x 1"), session.ErrUnknownCommand)
	assert.ErrorIs(t, s.Execute("q"), session.ErrQuit)

	require.NoError(t, s.Execute("f"))
	assert.True(t, s.Forfeit)
	assert.False(t, s.Won)
	assert.ErrorIs(t, s.Execute("b "+s.Game.Code.String()), session.ErrGameOver)
}

func TestStateRoundTrip(t *testing.T) {
	s := newState(t)
	require.NoError(t, s.Execute("t "+s.Game.Code.String()+" 0"))
	require.NoError(t, s.Execute("b "+wrongCode(s).String()))

	b, err := s.Bytes()
	require.NoError(t, err)
	back, err := session.DecodeState(b)
	require.NoError(t, err)

	assert.Equal(t, s.Logs, back.Logs)
	assert.Equal(t, s.BidCount, back.BidCount)
	assert.Equal(t, s.Game.Code, back.Game.Code)
	assert.Len(t, back.Game.Criterias, len(s.Game.Criterias))
}

func TestStateWithoutCriteriasRoundTrip(t *testing.T) {
	game, err := enigmind.GenerateGame(1, 3, 0, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	b, err := session.NewState(game).Bytes()
	require.NoError(t, err)
	back, err := session.DecodeState(b)
	require.NoError(t, err)
	require.NotNil(t, back.Game.Criterias)
	assert.Empty(t, back.Game.Criterias)
}
