package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/enigmind-server/internal/config"
	"github.com/vancomm/enigmind-server/internal/database"
	"github.com/vancomm/enigmind-server/internal/middleware"
)

type App struct {
	logger     *slog.Logger
	router     *http.ServeMux
	db         *pgxpool.Pool
	cookies    *config.Cookies
	jwt        *config.JWT
	ws         *config.WebSocket
	gen        *config.Generator
	migrations fs.FS
}

func New(logger *slog.Logger, migrations fs.FS) *App {
	app := &App{
		logger:     logger,
		router:     http.NewServeMux(),
		migrations: migrations,
	}
	return app
}

func (a *App) loadConfig() error {
	var err error
	if a.jwt, err = config.NewJWT(); err != nil {
		return fmt.Errorf("unable to load jwt config: %w", err)
	}
	if a.cookies, err = config.NewCookies(a.jwt); err != nil {
		return fmt.Errorf("unable to load cookies config: %w", err)
	}
	if a.ws, err = config.NewWebSocket(config.AllowedOrigins()); err != nil {
		return fmt.Errorf("unable to load websocket config: %w", err)
	}
	if a.gen, err = config.NewGenerator(); err != nil {
		return fmt.Errorf("unable to load generator config: %w", err)
	}
	return nil
}

func (a *App) Start(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}

	db, err := database.ConnectAndMigrate(ctx, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	a.db = db

	a.loadRoutes()

	addr := config.Addr()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Auth(a.logger, a.cookies),
			middleware.Cors(config.AllowedOrigins()),
			middleware.Logging(a.logger),
		),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
