package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

// MakeTurn applies a validated move for mark and updates the game status.
func MakeTurn(gameInstance *entity.Game, mark entity.Mark, move entity.Move) error {
	if err := gameInstance.ConfirmOngoingState(); err != nil {
		return err
	}

	if gameInstance.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if err := gameInstance.Board.Place(move, mark); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	updateGameStatus(gameInstance, mark)

	return nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(gameInstance *entity.Game, mark entity.Mark) {
	gameInstance.Result = Result(&gameInstance.Board)

	switch gameInstance.Result {
	case entity.ResultPlayerWins, entity.ResultOpponentWins:
		gameInstance.Winner = mark
		gameInstance.Status = entity.StatusFinished
		gameInstance.Turn = entity.EmptyCell
	case entity.ResultDraw:
		gameInstance.Status = entity.StatusFinished
		gameInstance.Turn = entity.EmptyCell
	default:
		gameInstance.Turn = mark.Opponent()
	}
}
