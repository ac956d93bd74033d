package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	StartGame(ctx context.Context, playerID string, botFirst bool) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) ([]tictactoe.ScoredMove, error)
}

type Server struct {
	logger *slog.Logger
	echo   *echo.Echo
	srv    *http.Server
}

func New(logger *slog.Logger, port string, uGame gameUseCase) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	handlers := NewGameHandlers(logger, uGame)

	e.GET("/ping", NewPingHandler().PingHandler)

	api := e.Group("/api", handlers.Session)
	api.POST("/game", handlers.StartGame)
	api.GET("/game", handlers.GetGame)
	api.POST("/game/turn", handlers.MakeTurn)
	api.GET("/game/hint", handlers.Hint)

	return &Server{
		logger: logger.With("component", "rest"),
		echo:   e,
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      e,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// Mount serves handler on path with GET, used for the websocket endpoint.
func (that *Server) Mount(path string, handler http.Handler) {
	that.echo.GET(path, echo.WrapHandler(handler))
}

// Handler exposes the router, mainly for tests.
func (that *Server) Handler() http.Handler {
	return that.echo
}

// Start - starts the HTTP server and blocks until it stops.
func (that *Server) Start() error {
	that.logger.Info("Starting HTTP server", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
