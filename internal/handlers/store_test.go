package handlers_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/enigmind-server/internal/repository"
	"github.com/vancomm/enigmind-server/internal/session"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type memStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]repository.GameSession
	players  map[string]repository.Player
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[uuid.UUID]repository.GameSession),
		players:  make(map[string]repository.Player),
	}
}

func (m *memStore) CreateGameSession(
	_ context.Context, s *session.State, p repository.CreateGameSessionParams,
) (*repository.GameSession, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	gs := repository.GameSession{
		GameSessionId: uuid.New(),
		PlayerId:      p.PlayerId,
		Base:          s.Game.Configuration.Base,
		ColumnCount:   s.Game.Configuration.ColumnCount,
		Difficulty:    s.Game.Configuration.MinDifficulty,
		StartedAt:     now,
		State:         b,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.sessions[gs.GameSessionId] = gs
	return &gs, nil
}

func (m *memStore) FetchGameSession(_ context.Context, id uuid.UUID) (*repository.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gs, ok := m.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &gs, nil
}

func (m *memStore) UpdateGameSession(
	_ context.Context, id uuid.UUID, p repository.UpdateGameSessionParams,
) (*repository.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gs, ok := m.sessions[id]
	if !ok || gs.Version != p.Version {
		return nil, repository.ErrStaleSession
	}
	gs.Version++
	gs.UpdatedAt = time.Now().UTC()
	if p.TestCount != nil {
		gs.TestCount = *p.TestCount
	}
	if p.BidCount != nil {
		gs.BidCount = *p.BidCount
	}
	if p.Won != nil {
		gs.Won = *p.Won
	}
	if p.Forfeit != nil {
		gs.Forfeit = *p.Forfeit
	}
	if p.EndedAt != nil {
		endedAt := *p.EndedAt
		gs.EndedAt = &endedAt
	}
	if p.State != nil {
		gs.State = p.State
	}
	m.sessions[id] = gs
	return &gs, nil
}

func (m *memStore) GetHighscores(context.Context, repository.HighscoreFilter) ([]repository.Highscore, error) {
	return nil, nil
}

func (m *memStore) CreatePlayer(
	_ context.Context, p repository.CreatePlayerParams,
) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.players[p.Username]; ok {
		return nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	}
	player := repository.Player{
		PlayerId:     int64(len(m.players) + 1),
		Username:     p.Username,
		PasswordHash: p.PasswordHash,
	}
	m.players[p.Username] = player
	return &player, nil
}

func (m *memStore) FetchPlayer(_ context.Context, username string) (*repository.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	player, ok := m.players[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &player, nil
}

func (m *memStore) state(id uuid.UUID) *session.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := session.DecodeState(m.sessions[id].State)
	if err != nil {
		panic(err)
	}
	return s
}

// touch bumps the version of a session as if another request had saved it.
func (m *memStore) touch(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gs := m.sessions[id]
	gs.Version++
	m.sessions[id] = gs
}

// interleavedStore lets another writer save the session right before each of
// the next stale updates.
type interleavedStore struct {
	*memStore
	stale atomic.Int32
}

func (s *interleavedStore) UpdateGameSession(
	ctx context.Context, id uuid.UUID, p repository.UpdateGameSessionParams,
) (*repository.GameSession, error) {
	if s.stale.Add(-1) >= 0 {
		s.touch(id)
	}
	return s.memStore.UpdateGameSession(ctx, id, p)
}
