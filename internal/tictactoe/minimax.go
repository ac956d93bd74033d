package tictactoe

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
)

// winScore is the value of a win found at depth 0. Every extra ply costs one point,
// so quicker wins and slower losses score better.
const winScore = 10

// ScoredMove is an opponent move together with its minimax value.
type ScoredMove struct {
	Move  entity.Move `json:"move"`
	Score int         `json:"score"`
}

// Evaluate scores the board by exhaustive minimax. The opponent (O) maximizes,
// the player (X) minimizes. The board is mutated while exploring and restored
// before Evaluate returns.
func Evaluate(board *entity.Board, depth int, maximizing bool) int {
	if mark, won := Winner(board); won {
		if mark == entity.PlayerO {
			return winScore - depth
		}

		return depth - winScore
	}

	if IsDraw(board) {
		return 0
	}

	if maximizing {
		best := math.MinInt
		for _, move := range board.AvailableMoves() {
			score := explore(board, move, entity.PlayerO, func() int {
				return Evaluate(board, depth+1, false)
			})
			best = max(best, score)
		}

		return best
	}

	best := math.MaxInt
	for _, move := range board.AvailableMoves() {
		score := explore(board, move, entity.PlayerX, func() int {
			return Evaluate(board, depth+1, true)
		})
		best = min(best, score)
	}

	return best
}

// ScoreMoves returns the value of every available opponent move in scan order.
// Each move is applied first, so the reply is scored as the minimizing ply at depth 0.
func ScoreMoves(board *entity.Board) ([]ScoredMove, error) {
	if IsTerminal(board) {
		return nil, apperror.ErrGameFinished
	}

	moves := board.AvailableMoves()
	if len(moves) == 0 {
		return nil, apperror.ErrNoAvailableMoves
	}

	scored := make([]ScoredMove, 0, len(moves))
	for _, move := range moves {
		score := explore(board, move, entity.PlayerO, func() int {
			return Evaluate(board, 0, false)
		})
		scored = append(scored, ScoredMove{Move: move, Score: score})
	}

	return scored, nil
}

// SelectBestMove returns the opponent move with the highest score.
// Ties keep the first move in scan order.
func SelectBestMove(board *entity.Board) (entity.Move, error) {
	scored, err := ScoreMoves(board)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to score moves: %w", err)
	}

	return BestOf(scored), nil
}

// BestOf returns the highest scored move. Ties keep the earliest entry.
// It returns the zero Move for an empty slice.
func BestOf(scored []ScoredMove) entity.Move {
	best := ScoredMove{Score: math.MinInt}
	for _, candidate := range scored {
		if candidate.Score > best.Score {
			best = candidate
		}
	}

	return best.Move
}

// explore plays mark on move, runs score and takes the mark back on every exit path.
func explore(board *entity.Board, move entity.Move, mark entity.Mark, score func() int) int {
	if err := board.Place(move, mark); err != nil {
		// moves come from AvailableMoves, a failure here means the board was shared
		panic(fmt.Sprintf("explore %s: %v", move, err))
	}

	defer func() {
		// Unplace only rejects out-of-range cells and move already passed Place.
		_ = board.Unplace(move)
	}()

	return score()
}
