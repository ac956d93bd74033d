package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

type GamePlayService interface {
	StartGame(ctx context.Context, playerID string, botFirst bool) (*entity.Game, error)
	GetGameState(ctx context.Context, playerID string) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)

	MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) ([]tictactoe.ScoredMove, error)
}

type gamePlayService struct {
	logger *slog.Logger

	playerService PlayerService
	gameService   GameService
	botService    BotService
}

func NewGamePlayService(logger *slog.Logger, playerService PlayerService, gameService GameService, botService BotService) GamePlayService {
	return &gamePlayService{
		logger:        logger.With("component", "gameplay"),
		playerService: playerService,
		gameService:   gameService,
		botService:    botService,
	}
}

// StartGame abandons the player's current game, if any, and starts a new one.
// When the bot goes first its opening move is already on the returned board.
func (that *gamePlayService) StartGame(ctx context.Context, playerID string, botFirst bool) (*entity.Game, error) {
	log := that.logger.With("method", "StartGame", "playerID", playerID)

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID != "" {
		if err = that.gameService.DeleteGame(ctx, player.GameID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
			return nil, fmt.Errorf("failed to drop previous game: %w", err)
		}
	}

	firstTurn := entity.PlayerX
	if botFirst {
		firstTurn = entity.PlayerO
	}

	game, player, err := that.gameService.CreateGame(ctx, player, firstTurn)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	if game.IsBotTurn() {
		if err = that.botService.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make first turn: %w", err)
		}

		if err = that.gameService.UpdateGame(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to update game: %w", err)
		}
	}

	log.Info("game started", "gameID", game.ID, "botFirst", botFirst)

	return game, nil
}

func (that *gamePlayService) GetGameState(ctx context.Context, playerID string) (*entity.Game, error) {
	_, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return game, nil
}

// MakeTurn plays the human move and, unless it ended the game, the bot's reply.
func (that *gamePlayService) MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error) {
	player, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = tictactoe.MakeTurn(game, player.Mark, move); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsBotTurn() {
		if err = that.botService.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

func (that *gamePlayService) Hint(ctx context.Context, playerID string) ([]tictactoe.ScoredMove, error) {
	_, game, err := that.activeGame(ctx, playerID)
	if err != nil {
		return nil, err
	}

	scored, err := that.botService.Hint(game)
	if err != nil {
		return nil, fmt.Errorf("failed to get hint: %w", err)
	}

	return scored, nil
}

// CleanupGame deletes a game and detaches its players. Failures are only logged.
func (that *gamePlayService) CleanupGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "CleanupGame", "gameID", game.ID)

	if err := that.gameService.DeleteGame(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	for _, player := range game.Players {
		detached := *player
		detached.GameID = ""
		detached.Mark = entity.EmptyCell

		if err := that.playerService.UpdatePlayer(ctx, &detached); err != nil {
			log.Error("failed to update", "player", player.ID, "error", err)
		}
	}

	log.Info("game finished", "result", game.Result.String())
}

// activeGame loads the player and the game it is attached to.
// A game that expired from storage detaches the player.
func (that *gamePlayService) activeGame(ctx context.Context, playerID string) (*entity.Player, *entity.Game, error) {
	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if player.GameID == "" {
		return nil, nil, apperror.ErrNoActiveGame
	}

	game, err := that.gameService.GetGameByID(ctx, player.GameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		player.GameID = ""
		player.Mark = entity.EmptyCell

		if err = that.playerService.UpdatePlayer(ctx, player); err != nil {
			return nil, nil, fmt.Errorf("failed to detach player: %w", err)
		}

		return nil, nil, apperror.ErrNoActiveGame
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return player, game, nil
}
