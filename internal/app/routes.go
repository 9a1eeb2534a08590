package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/enigmind-server/internal/handlers"
	"github.com/vancomm/enigmind-server/internal/repository"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	repo := repository.New(a.db)
	game := handlers.NewGameHandler(a.logger, repo, a.ws, a.gen, createRand())
	auth := handlers.NewAuth(a.logger, repo, a.cookies, a.jwt)

	a.router.HandleFunc("GET /handshake", handlers.Handshake)

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("POST /game/{id}/test", game.Test)
	a.router.HandleFunc("POST /game/{id}/bid", game.Bid)
	a.router.HandleFunc("POST /game/{id}/forfeit", game.Forfeit)
	a.router.HandleFunc("/game/{id}/connect", game.ConnectWS)
	a.router.HandleFunc("GET /leaderboard", game.Leaderboard)

	a.router.HandleFunc("POST /register", auth.Register)
	a.router.HandleFunc("POST /login", auth.Login)
	a.router.HandleFunc("POST /logout", auth.Logout)
	a.router.HandleFunc("GET /status", auth.Status)
}
