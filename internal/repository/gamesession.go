package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/enigmind-server/internal/session"
)

var (
	ErrNothingToUpdate = errors.New("no columns to update")
	ErrStaleSession    = errors.New("session was changed by another request")
)

type GameSession struct {
	GameSessionId uuid.UUID
	PlayerId      *int64
	Base          int
	ColumnCount   int
	Difficulty    int
	TestCount     int
	BidCount      int
	Won           bool
	Forfeit       bool
	StartedAt     time.Time
	EndedAt       *time.Time
	State         []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int
}

type CreateGameSessionParams struct {
	PlayerId *int64
}

func (q *Queries) CreateGameSession(
	ctx context.Context, state *session.State, params CreateGameSessionParams,
) (*GameSession, error) {
	b, err := state.Bytes()
	if err != nil {
		return nil, err
	}
	gc := state.Game.Configuration
	args := pgx.NamedArgs{
		"game_session_id": uuid.New(),
		"player_id":       params.PlayerId,
		"base":            gc.Base,
		"column_count":    gc.ColumnCount,
		"difficulty":      gc.MinDifficulty,
		"state":           b,
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			game_session_id, player_id, base, column_count, difficulty, state
		)
		VALUES (
			@game_session_id, @player_id, @base, @column_count, @difficulty, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

func (q *Queries) FetchGameSession(ctx context.Context, id uuid.UUID) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM game_session WHERE game_session_id = $1", id,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

// UpdateGameSessionParams only applies to the session at Version.
type UpdateGameSessionParams struct {
	Version   int
	TestCount *int
	BidCount  *int
	Won       *bool
	Forfeit   *bool
	EndedAt   *time.Time
	State     []byte
}

// NewUpdateFromState mirrors every counter of s onto gs, the row s was
// decoded from. EndedAt is set once the session is over and gs had none.
func NewUpdateFromState(gs *GameSession, s *session.State) (UpdateGameSessionParams, error) {
	b, err := s.Bytes()
	if err != nil {
		return UpdateGameSessionParams{}, err
	}
	tests, bids := len(s.Logs), s.BidCount
	p := UpdateGameSessionParams{
		Version:   gs.Version,
		TestCount: &tests,
		BidCount:  &bids,
		Won:       &s.Won,
		Forfeit:   &s.Forfeit,
		State:     b,
	}
	if s.Over() && gs.EndedAt == nil {
		now := time.Now().UTC()
		p.EndedAt = &now
	}
	return p, nil
}

func (p UpdateGameSessionParams) SetClause() (string, pgx.NamedArgs) {
	parts := make([]string, 0)
	args := pgx.NamedArgs{}
	add := func(column string, v any) {
		parts = append(parts, column+" = @"+column)
		args[column] = v
	}
	if p.TestCount != nil {
		add("test_count", *p.TestCount)
	}
	if p.BidCount != nil {
		add("bid_count", *p.BidCount)
	}
	if p.Won != nil {
		add("won", *p.Won)
	}
	if p.Forfeit != nil {
		add("forfeit", *p.Forfeit)
	}
	if p.EndedAt != nil {
		add("ended_at", *p.EndedAt)
	}
	if p.State != nil {
		add("state", p.State)
	}
	return strings.Join(parts, ", "), args
}

func updateGameSessionQuery(setClause string) string {
	return "UPDATE game_session SET " + setClause +
		", version = version + 1, updated_at = now() " +
		"WHERE game_session_id = @game_session_id AND version = @version " +
		"RETURNING *"
}

// UpdateGameSession returns ErrStaleSession when the row is no longer at
// params.Version.
func (q *Queries) UpdateGameSession(
	ctx context.Context, id uuid.UUID, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	if setClause == "" {
		return nil, ErrNothingToUpdate
	}
	args["game_session_id"] = id
	args["version"] = params.Version
	rows, _ := q.db.Query(ctx, updateGameSessionQuery(setClause), args)
	gs, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStaleSession
	}
	return gs, err
}
