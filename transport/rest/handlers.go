package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

const (
	sessionCookie = "user_session"
	playerIDKey   = "playerID"
)

type GameHandlers interface {
	Session(next echo.HandlerFunc) echo.HandlerFunc

	StartGame(ctx echo.Context) error
	GetGame(ctx echo.Context) error
	MakeTurn(ctx echo.Context) error
	Hint(ctx echo.Context) error
}

type startGameRequest struct {
	BotFirst bool `json:"bot_first"`
}

// turnRequest uses pointers so a missing coordinate is told apart from 0.
type turnRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type hintResponse struct {
	Best  *entity.Move           `json:"best,omitempty"`
	Moves []tictactoe.ScoredMove `json:"moves"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type gameHandlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func NewGameHandlers(logger *slog.Logger, gameUseCase gameUseCase) GameHandlers {
	return &gameHandlers{
		logger:      logger,
		gameUseCase: gameUseCase,
	}
}

// Session resolves the player behind the session cookie and creates a new
// one when the cookie is missing or points to an unknown player.
func (that *gameHandlers) Session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		log := that.logger.With("method", "Session")
		reqCtx := ctx.Request().Context()

		var playerID string
		if cookie, err := ctx.Cookie(sessionCookie); err == nil {
			playerID = cookie.Value
		}

		player, err := that.gameUseCase.GetOrCreatePlayer(reqCtx, playerID)
		if err != nil && playerID != "" {
			log.Warn("session player not found, creating a new one", "playerID", playerID, "error", err)
			player, err = that.gameUseCase.GetOrCreatePlayer(reqCtx, "")
		}

		if err != nil {
			log.Error("failed to get or create player", "error", err)
			return ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to create a new player"})
		}

		ctx.SetCookie(&http.Cookie{
			Name:     sessionCookie,
			Value:    player.ID,
			Path:     "/",
			Expires:  time.Now().Add(24 * time.Hour),
			HttpOnly: true,
		})
		ctx.Set(playerIDKey, player.ID)

		return next(ctx)
	}
}

func (that *gameHandlers) StartGame(ctx echo.Context) error {
	log := that.logger.With("method", "StartGame")

	var req startGameRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&req); err != nil {
			return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		}
	}

	game, err := that.gameUseCase.StartGame(ctx.Request().Context(), playerID(ctx), req.BotFirst)
	if err != nil {
		log.Error("failed to start game", "error", err)
		return that.sendError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, game)
}

func (that *gameHandlers) GetGame(ctx echo.Context) error {
	game, err := that.gameUseCase.GetGame(ctx.Request().Context(), playerID(ctx))
	if err != nil {
		return that.sendError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game)
}

func (that *gameHandlers) MakeTurn(ctx echo.Context) error {
	log := that.logger.With("method", "MakeTurn")

	var req turnRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if req.Row == nil || req.Col == nil {
		return ctx.JSON(http.StatusBadRequest, errorResponse{Error: "row and col are required"})
	}

	move := entity.Move{Row: *req.Row, Col: *req.Col}

	game, err := that.gameUseCase.MakeTurn(ctx.Request().Context(), playerID(ctx), move)
	if errors.Is(err, apperror.ErrGameFinished) && game != nil {
		log.Info("game finished", "gameID", game.ID, "result", game.Result)
		return ctx.JSON(http.StatusOK, game)
	}

	if err != nil {
		return that.sendError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, game)
}

func (that *gameHandlers) Hint(ctx echo.Context) error {
	scored, err := that.gameUseCase.Hint(ctx.Request().Context(), playerID(ctx))
	if err != nil {
		return that.sendError(ctx, err)
	}

	resp := hintResponse{Moves: scored}
	if len(scored) > 0 {
		best := tictactoe.BestOf(scored)
		resp.Best = &best
	}

	return ctx.JSON(http.StatusOK, resp)
}

func (that *gameHandlers) sendError(ctx echo.Context, err error) error {
	return ctx.JSON(statusFor(err), errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNoActiveGame):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	case errors.Is(err, entity.ErrInvalidCell):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func playerID(ctx echo.Context) string {
	id, _ := ctx.Get(playerIDKey).(string)
	return id
}
