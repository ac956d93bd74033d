package tictactoe

import "github.com/rocketscienceinc/tictactoe-bot/internal/entity"

// Winner returns the mark that owns a complete line. Row i and column i are
// checked together for i = 0..2, then the main diagonal, then the anti-diagonal.
// The second value is false when no line is complete.
func Winner(board *entity.Board) (entity.Mark, bool) {
	for i := 0; i < entity.BoardSize; i++ {
		if mark := board[i][0]; mark != entity.EmptyCell && mark == board[i][1] && mark == board[i][2] {
			return mark, true
		}

		if mark := board[0][i]; mark != entity.EmptyCell && mark == board[1][i] && mark == board[2][i] {
			return mark, true
		}
	}

	if mark := board[1][1]; mark != entity.EmptyCell {
		if mark == board[0][0] && mark == board[2][2] {
			return mark, true
		}

		if mark == board[0][2] && mark == board[2][0] {
			return mark, true
		}
	}

	return entity.EmptyCell, false
}

// IsDraw reports a full board without a winner.
func IsDraw(board *entity.Board) bool {
	if !board.IsFull() {
		return false
	}

	_, won := Winner(board)

	return !won
}

func IsTerminal(board *entity.Board) bool {
	if _, won := Winner(board); won {
		return true
	}

	return IsDraw(board)
}

// Result maps the board to a game result, X being the player and O the opponent.
func Result(board *entity.Board) entity.GameResult {
	if mark, won := Winner(board); won {
		if mark == entity.PlayerO {
			return entity.ResultOpponentWins
		}

		return entity.ResultPlayerWins
	}

	if board.IsFull() {
		return entity.ResultDraw
	}

	return entity.ResultOngoing
}
