package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vancomm/enigmind-server/internal/repository"
	"github.com/vancomm/enigmind-server/internal/session"
)

type wsReply struct {
	Error   string          `json:"error,omitempty"`
	Session *GameSessionDTO `json:"session"`
}

// wsSaveAttempts bounds how often one message is replayed on a fresh copy of
// the session after losing a save to another request.
const wsSaveAttempts = 3

// execute runs the command lines of one message against the stored session
// and saves the result. The session is reloaded first so that actions taken
// over HTTP or another socket are never overwritten.
func (g *GameHandler) execute(ctx context.Context, id uuid.UUID, lines []string) (wsReply, bool, error) {
	for range wsSaveAttempts {
		gs, err := g.store.FetchGameSession(ctx, id)
		if err != nil {
			return wsReply{}, false, fmt.Errorf("unable to fetch session from db: %w", err)
		}
		state, err := session.DecodeState(gs.State)
		if err != nil {
			return wsReply{}, false, fmt.Errorf("db returned invalid game_session.state: %w", err)
		}

		var (
			reply   wsReply
			quit    bool
			changed bool
		)
		for _, line := range lines {
			err := state.Execute(line)
			if errors.Is(err, session.ErrQuit) {
				quit = true
				break
			}
			if err != nil {
				reply.Error = err.Error()
				break
			}
			changed = true
		}

		if changed {
			gs, err = g.saveSession(ctx, gs, state)
			if errors.Is(err, repository.ErrStaleSession) {
				continue
			}
			if err != nil {
				return wsReply{}, false, err
			}
		}

		reply.Session = NewGameSessionDTO(gs, state)
		return reply, quit, nil
	}
	return wsReply{Error: repository.ErrStaleSession.Error()}, false, nil
}

// runGameLoop reads command lines from conn, one or more per message, and
// answers every message with the session state. It stops on quit or when
// the client goes away.
func (g *GameHandler) runGameLoop(ctx context.Context, conn *websocket.Conn, id uuid.UUID) error {
	conn.SetReadLimit(g.ws.ReadLimit)
	for {
		conn.SetReadDeadline(time.Now().Add(g.ws.IdleTimeout))
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}

		lines := strings.Split(strings.TrimSpace(string(buf)), "\n")
		reply, quit, err := g.execute(ctx, id, lines)
		if err != nil {
			return err
		}
		if err := conn.WriteJSON(reply); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
		if quit {
			return conn.WriteMessage(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
			)
		}
	}
}

func (g *GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	gs, _, ok := g.loadSession(w, r, true)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	err = g.runGameLoop(r.Context(), conn, gs.GameSessionId)
	if err != nil && !websocket.IsCloseError(
		err, websocket.CloseNormalClosure, websocket.CloseGoingAway,
	) {
		g.logger.Error("websocket loop ended", slog.Any("error", err))
	}
}
