package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_TerminalBoards(t *testing.T) {
	t.Run("Opponent win scores 10 minus depth", func(t *testing.T) {
		// Given: O owns the middle row
		board := entity.Board{
			{x, x, e},
			{o, o, o},
			{x, e, e},
		}

		// Then: the win is worth less the deeper it is found
		assert.Equal(t, 10, Evaluate(&board, 0, false))
		assert.Equal(t, 7, Evaluate(&board, 3, true))
	})

	t.Run("Player win scores depth minus 10", func(t *testing.T) {
		board := entity.Board{
			{x, o, e},
			{x, o, e},
			{x, e, e},
		}

		assert.Equal(t, -10, Evaluate(&board, 0, true))
		assert.Equal(t, -6, Evaluate(&board, 4, false))
	})

	t.Run("Draw scores zero", func(t *testing.T) {
		board := entity.Board{
			{x, o, x},
			{x, o, o},
			{o, x, x},
		}

		assert.Equal(t, 0, Evaluate(&board, 9, true))
	})
}

func TestEvaluate_PrefersQuickWin(t *testing.T) {
	// Given: O to move with a win available right now
	board := entity.Board{
		{x, x, e},
		{o, o, e},
		{x, e, e},
	}

	// When: evaluating as the maximizing side
	score := Evaluate(&board, 0, true)

	// Then: the immediate win one ply down is found
	assert.Equal(t, 9, score)
}

func TestSelectBestMove(t *testing.T) {
	t.Run("Blocks the open row", func(t *testing.T) {
		// Given: X on (0,0) and (0,1), O on the center
		board := entity.NewBoard()
		require.NoError(t, board.Place(entity.Move{Row: 0, Col: 0}, x))
		require.NoError(t, board.Place(entity.Move{Row: 0, Col: 1}, x))
		require.NoError(t, board.Place(entity.Move{Row: 1, Col: 1}, o))

		// When: the bot selects its move
		move, err := SelectBestMove(&board)

		// Then: it completes the block on (0,2)
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2}, move)
	})

	t.Run("Wins instead of blocking", func(t *testing.T) {
		// Given: both sides threaten a line and O is to move
		board := entity.Board{
			{x, x, e},
			{o, o, e},
			{e, e, x},
		}

		// When: the bot selects its move
		move, err := SelectBestMove(&board)

		// Then: it takes the win on (1,2)
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 1, Col: 2}, move)
	})

	t.Run("First move in scan order wins ties on the empty board", func(t *testing.T) {
		board := entity.NewBoard()

		move, err := SelectBestMove(&board)

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 0}, move)
		assert.Equal(t, entity.NewBoard(), board)
	})

	t.Run("Board is unchanged after the search", func(t *testing.T) {
		board := entity.Board{
			{x, e, e},
			{e, o, e},
			{e, e, x},
		}
		before := board

		_, err := SelectBestMove(&board)

		require.NoError(t, err)
		assert.Equal(t, before, board)
	})

	t.Run("Error on finished board", func(t *testing.T) {
		// Given: X already won
		board := entity.Board{
			{x, x, x},
			{o, o, e},
			{e, e, e},
		}

		// When: the bot is asked for a move
		_, err := SelectBestMove(&board)

		// Then: ErrGameFinished is returned
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Error on full board", func(t *testing.T) {
		board := entity.Board{
			{x, o, x},
			{x, o, o},
			{o, x, x},
		}

		_, err := SelectBestMove(&board)

		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestScoreMoves(t *testing.T) {
	// Given: O must block on (0,2) or lose
	board := entity.Board{
		{x, x, e},
		{e, o, e},
		{e, e, e},
	}

	// When: scoring every bot move
	scored, err := ScoreMoves(&board)

	// Then: every move is listed in scan order and only the block avoids a loss
	require.NoError(t, err)
	require.Len(t, scored, 6)
	assert.Equal(t, entity.Move{Row: 0, Col: 2}, scored[0].Move)
	assert.GreaterOrEqual(t, scored[0].Score, 0)
	for _, candidate := range scored[1:] {
		assert.Equal(t, -9, candidate.Score, "move %s", candidate.Move)
	}
}

func TestBestOf(t *testing.T) {
	t.Run("Ties keep the earliest move", func(t *testing.T) {
		scored := []ScoredMove{
			{Move: entity.Move{Row: 0, Col: 1}, Score: -1},
			{Move: entity.Move{Row: 1, Col: 1}, Score: 3},
			{Move: entity.Move{Row: 2, Col: 2}, Score: 3},
		}

		assert.Equal(t, entity.Move{Row: 1, Col: 1}, BestOf(scored))
	})

	t.Run("Empty slice gives zero move", func(t *testing.T) {
		assert.Equal(t, entity.Move{}, BestOf(nil))
	})
}

func TestExplore_RestoresOnPanic(t *testing.T) {
	// Given: an empty board
	board := entity.NewBoard()

	// When: the scoring callback panics while a move is applied
	assert.Panics(t, func() {
		explore(&board, entity.Move{Row: 2, Col: 2}, o, func() int {
			panic("boom")
		})
	})

	// Then: the cell was restored anyway
	assert.Equal(t, entity.NewBoard(), board)
}

func TestExplore_RestoresAfterScoring(t *testing.T) {
	// Given: an empty board
	board := entity.NewBoard()
	move := entity.Move{Row: 0, Col: 2}

	// When: the scoring callback inspects the board
	score := explore(&board, move, x, func() int {
		assert.Equal(t, x, board.At(move))
		return -7
	})

	// Then: the callback score is returned and the cell is empty again
	assert.Equal(t, -7, score)
	assert.Equal(t, entity.NewBoard(), board)
}

// playAll lets X try every legal continuation while O always answers with SelectBestMove.
func playAll(t *testing.T, board *entity.Board, turn entity.Mark) {
	t.Helper()

	if IsTerminal(board) {
		require.NotEqual(t, entity.ResultPlayerWins, Result(board), "bot lost on %v", *board)
		return
	}

	if turn == o {
		move, err := SelectBestMove(board)
		require.NoError(t, err)
		require.NoError(t, board.Place(move, o))
		playAll(t, board, x)
		require.NoError(t, board.Unplace(move))
		return
	}

	for _, move := range board.AvailableMoves() {
		require.NoError(t, board.Place(move, x))
		playAll(t, board, o)
		require.NoError(t, board.Unplace(move))
	}
}

func TestSelectBestMove_NeverLoses(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive play is slow")
	}

	t.Run("Player moves first", func(t *testing.T) {
		board := entity.NewBoard()
		playAll(t, &board, x)
	})

	t.Run("Bot moves first", func(t *testing.T) {
		board := entity.NewBoard()
		playAll(t, &board, o)
	})
}
