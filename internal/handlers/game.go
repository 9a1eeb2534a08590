package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/enigmind-server/internal/config"
	"github.com/vancomm/enigmind-server/internal/enigmind"
	"github.com/vancomm/enigmind-server/internal/middleware"
	"github.com/vancomm/enigmind-server/internal/repository"
	"github.com/vancomm/enigmind-server/internal/session"
)

var (
	ErrNotYourSession = errors.New("session belongs to another player")
	ErrBadSessionId   = errors.New("session id must be a uuid")
)

type GameStore interface {
	CreateGameSession(context.Context, *session.State, repository.CreateGameSessionParams) (*repository.GameSession, error)
	FetchGameSession(context.Context, uuid.UUID) (*repository.GameSession, error)
	UpdateGameSession(context.Context, uuid.UUID, repository.UpdateGameSessionParams) (*repository.GameSession, error)
	GetHighscores(context.Context, repository.HighscoreFilter) ([]repository.Highscore, error)
}

type GameHandler struct {
	logger *slog.Logger
	store  GameStore
	ws     *config.WebSocket
	gen    *config.Generator

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGameHandler(
	logger *slog.Logger,
	store GameStore,
	ws *config.WebSocket,
	gen *config.Generator,
	rnd *rand.Rand,
) *GameHandler {
	handler := &GameHandler{
		logger: logger,
		store:  store,
		ws:     ws,
		gen:    gen,
		rnd:    rnd,
	}
	return handler
}

// generate seeds a source of its own from the shared one so that concurrent
// requests only contend for the seed.
func (g *GameHandler) generate(gc enigmind.GameConfiguration) (*enigmind.Game, error) {
	g.mu.Lock()
	a, b := g.rnd.Uint64(), g.rnd.Uint64()
	g.mu.Unlock()
	return gc.Generate(rand.New(rand.NewPCG(a, b)), g.gen.MaxAttempts)
}

func (g *GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	gc, err := enigmind.NewGameConfiguration(dto.Base, dto.ColumnCount, dto.Difficulty)
	if err == nil {
		err = g.gen.Allow(gc)
	}
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	game, err := g.generate(gc)
	if errors.Is(err, enigmind.ErrGenerationFailed) {
		sendErrorOrLog(w, g.logger, http.StatusUnprocessableEntity, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to generate a new game", slog.Any("error", err))
		return
	}

	var params repository.CreateGameSessionParams
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		params.PlayerId = &claims.PlayerId
	}

	state := session.NewState(game)
	gs, err := g.store.CreateGameSession(r.Context(), state, params)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to create game session", slog.Any("error", err))
		return
	}

	g.logger.Debug(
		"created game session",
		slog.String("id", gs.GameSessionId.String()),
		slog.String("configuration", gc.String()),
		slog.Int("criterias", len(game.Criterias)),
	)
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(gs, state))
}

// loadSession fetches the session named by the {id} path value. On failure
// it has already written the response.
func (g *GameHandler) loadSession(
	w http.ResponseWriter, r *http.Request, mutate bool,
) (*repository.GameSession, *session.State, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, ErrBadSessionId)
		return nil, nil, false
	}

	gs, err := g.store.FetchGameSession(r.Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to fetch session from db", slog.Any("error", err))
		return nil, nil, false
	}

	if mutate && gs.PlayerId != nil {
		claims, ok := middleware.PlayerClaims(r.Context())
		if !ok || claims.PlayerId != *gs.PlayerId {
			sendErrorOrLog(w, g.logger, http.StatusForbidden, ErrNotYourSession)
			return nil, nil, false
		}
	}

	state, err := session.DecodeState(gs.State)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("db returned invalid game_session.state", slog.Any("error", err))
		return nil, nil, false
	}
	return gs, state, true
}

func (g *GameHandler) saveSession(
	ctx context.Context, gs *repository.GameSession, state *session.State,
) (*repository.GameSession, error) {
	params, err := repository.NewUpdateFromState(gs, state)
	if err != nil {
		return nil, fmt.Errorf("unable to serialize session state: %w", err)
	}
	updated, err := g.store.UpdateGameSession(ctx, gs.GameSessionId, params)
	if err != nil {
		return nil, fmt.Errorf("unable to update session in db: %w", err)
	}
	return updated, nil
}

// sendSaveError answers a failed saveSession. A session changed by another
// request since it was loaded is a conflict the client may retry.
func (g *GameHandler) sendSaveError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, repository.ErrStaleSession) {
		sendErrorOrLog(w, g.logger, http.StatusConflict, repository.ErrStaleSession)
		return
	}
	w.WriteHeader(http.StatusInternalServerError)
	g.logger.Error(msg, slog.Any("error", err))
}

func (g *GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	gs, state, ok := g.loadSession(w, r, false)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(gs, state))
}

// sessionErrorStatus maps a rejected player action to a response status.
func sessionErrorStatus(err error) int {
	if errors.Is(err, session.ErrGameOver) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func (g *GameHandler) Test(w http.ResponseWriter, r *http.Request) {
	gs, state, ok := g.loadSession(w, r, true)
	if !ok {
		return
	}

	query := r.URL.Query()
	code, err := enigmind.ParseCode(query.Get("code"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	criterias, err := state.ParseCriterias(query.Get("criteria"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	results, err := state.Test(code, criterias)
	if err != nil {
		sendErrorOrLog(w, g.logger, sessionErrorStatus(err), err)
		return
	}

	gs, err = g.saveSession(r.Context(), gs, state)
	if err != nil {
		g.sendSaveError(w, "unable to save test", err)
		return
	}

	sendJSONOrLog(w, g.logger, TestResultDTO{
		Results: results,
		Session: NewGameSessionDTO(gs, state),
	})
}

func (g *GameHandler) Bid(w http.ResponseWriter, r *http.Request) {
	gs, state, ok := g.loadSession(w, r, true)
	if !ok {
		return
	}

	code, err := enigmind.ParseCode(r.URL.Query().Get("code"))
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	correct, err := state.Bid(code)
	if err != nil {
		sendErrorOrLog(w, g.logger, sessionErrorStatus(err), err)
		return
	}

	gs, err = g.saveSession(r.Context(), gs, state)
	if err != nil {
		g.sendSaveError(w, "unable to save bid", err)
		return
	}

	sendJSONOrLog(w, g.logger, BidResultDTO{
		Correct: correct,
		Session: NewGameSessionDTO(gs, state),
	})
}

func (g *GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	gs, state, ok := g.loadSession(w, r, true)
	if !ok {
		return
	}

	state.GiveUp()

	gs, err := g.saveSession(r.Context(), gs, state)
	if err != nil {
		g.sendSaveError(w, "unable to save forfeit", err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameSessionDTO(gs, state))
}

func (g *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseHighscoreFilter(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	highscores, err := g.store.GetHighscores(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to fetch highscores", slog.Any("error", err))
		return
	}
	if highscores == nil {
		highscores = []repository.Highscore{}
	}
	sendJSONOrLog(w, g.logger, highscores)
}
