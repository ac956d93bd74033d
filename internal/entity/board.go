package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

// BoardSize is the side of the square board.
const BoardSize = 3

var (
	ErrInvalidCell = errors.New("invalid cell index")
	ErrInvalidMark = errors.New("invalid mark")
)

// Mark is the content of a single cell.
type Mark uint8

const (
	EmptyCell Mark = iota
	PlayerX
	PlayerO
)

func (that Mark) String() string {
	switch that {
	case PlayerX:
		return "X"
	case PlayerO:
		return "O"
	default:
		return ""
	}
}

// Opponent returns the other side's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = EmptyCell
	case "X":
		*that = PlayerX
	case "O":
		*that = PlayerO
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMark, text)
	}

	return nil
}

// Move is a 0-indexed (row, col) coordinate.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveFromCell converts a row-major cell index (0..8) to a Move.
func MoveFromCell(cell int) (Move, error) {
	if cell < 0 || cell >= BoardSize*BoardSize {
		return Move{}, fmt.Errorf("%w: cell %d", ErrInvalidCell, cell)
	}

	return Move{Row: cell / BoardSize, Col: cell % BoardSize}, nil
}

func (that Move) Valid() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Col >= 0 && that.Col < BoardSize
}

// Cell returns the row-major index of the move.
func (that Move) Cell() int {
	return that.Row*BoardSize + that.Col
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Board is the 3x3 grid. It is a value type, copying it copies the grid.
type Board [BoardSize][BoardSize]Mark

// NewBoard returns an empty board.
func NewBoard() Board {
	return Board{}
}

// AvailableMoves returns the empty cells in row-major order.
// The order decides which of several equal moves the search picks.
func (that *Board) AvailableMoves() []Move {
	moves := make([]Move, 0, BoardSize*BoardSize)

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that[row][col] == EmptyCell {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// At returns the mark on the cell, EmptyCell for moves outside the board.
func (that *Board) At(move Move) Mark {
	if !move.Valid() {
		return EmptyCell
	}

	return that[move.Row][move.Col]
}

// Place puts mark on an empty cell. The board is left untouched on error.
func (that *Board) Place(move Move, mark Mark) error {
	if !move.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidCell, move)
	}

	if mark != PlayerX && mark != PlayerO {
		return fmt.Errorf("%w: %d", ErrInvalidMark, mark)
	}

	if that[move.Row][move.Col] != EmptyCell {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, move)
	}

	that[move.Row][move.Col] = mark

	return nil
}

// Unplace empties a cell again. Only the search uses it to undo an explored move.
func (that *Board) Unplace(move Move) error {
	if !move.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidCell, move)
	}

	that[move.Row][move.Col] = EmptyCell

	return nil
}

func (that *Board) IsFull() bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if that[row][col] == EmptyCell {
				return false
			}
		}
	}

	return true
}

// Swapped returns a copy of the board with X and O exchanged.
func (that Board) Swapped() Board {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			that[row][col] = that[row][col].Opponent()
		}
	}

	return that
}
