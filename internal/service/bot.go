package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

type BotService interface {
	MakeTurn(game *entity.Game) error
	Hint(game *entity.Game) ([]tictactoe.ScoredMove, error)
}

type botService struct {
	logger *slog.Logger
}

// NewBotService returns the minimax bot. It always plays O.
func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
	}
}

func (that *botService) MakeTurn(game *entity.Game) error {
	log := that.logger.With("method", "MakeTurn", "gameID", game.ID)

	if !game.IsBotTurn() {
		return apperror.ErrNotYourTurn
	}

	// the search owns its board for the whole call, so it runs on a copy
	board := game.Board
	started := time.Now()

	move, err := tictactoe.SelectBestMove(&board)
	if err != nil {
		return fmt.Errorf("failed to select move: %w", err)
	}

	if err = tictactoe.MakeTurn(game, entity.PlayerO, move); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	log.Debug("bot made turn", "move", move.String(), "elapsed", time.Since(started))

	return nil
}

// Hint scores the human's moves. Scores are from X's point of view,
// positive means X can force a win.
func (that *botService) Hint(game *entity.Game) ([]tictactoe.ScoredMove, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	if game.Turn != entity.PlayerX {
		return nil, apperror.ErrNotYourTurn
	}

	board := game.Board.Swapped()

	scored, err := tictactoe.ScoreMoves(&board)
	if err != nil {
		return nil, fmt.Errorf("failed to score moves: %w", err)
	}

	return scored, nil
}
