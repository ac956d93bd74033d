package usecase

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

type GameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	StartGame(ctx context.Context, playerID string, botFirst bool) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) ([]tictactoe.ScoredMove, error)
}

type playerService interface {
	CreatePlayer(ctx context.Context) (*entity.Player, error)
	GetPlayerByID(ctx context.Context, id string) (*entity.Player, error)
}

type gamePlayService interface {
	StartGame(ctx context.Context, playerID string, botFirst bool) (*entity.Game, error)
	GetGameState(ctx context.Context, playerID string) (*entity.Game, error)
	CleanupGame(ctx context.Context, game *entity.Game)

	MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) ([]tictactoe.ScoredMove, error)
}

type gameUseCase struct {
	playerService   playerService
	gamePlayService gamePlayService
}

func NewGameUseCase(playerService playerService, gamePlayService gamePlayService) GameUseCase {
	return &gameUseCase{
		playerService:   playerService,
		gamePlayService: gamePlayService,
	}
}

func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	if playerID == "" {
		player, err := that.playerService.CreatePlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not create player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerService.GetPlayerByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) StartGame(ctx context.Context, playerID string, botFirst bool) (*entity.Game, error) {
	game, err := that.gamePlayService.StartGame(ctx, playerID, botFirst)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	game, err := that.gamePlayService.GetGameState(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}

	return game, nil
}

// MakeTurn returns the final game together with ErrGameFinished when the turn
// ended the game. The finished game is removed from storage.
func (that *gameUseCase) MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error) {
	game, err := that.gamePlayService.MakeTurn(ctx, playerID, move)
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsFinished() {
		that.gamePlayService.CleanupGame(ctx, game)

		return game, apperror.ErrGameFinished
	}

	return game, nil
}

func (that *gameUseCase) Hint(ctx context.Context, playerID string) ([]tictactoe.ScoredMove, error) {
	scored, err := that.gamePlayService.Hint(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get hint: %w", err)
	}

	return scored, nil
}
