package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// GameResult is derived from the board alone, it is never stored apart from it.
type GameResult uint8

const (
	ResultOngoing GameResult = iota
	ResultPlayerWins
	ResultOpponentWins
	ResultDraw
)

func (that GameResult) String() string {
	switch that {
	case ResultPlayerWins:
		return "player_wins"
	case ResultOpponentWins:
		return "opponent_wins"
	case ResultDraw:
		return "draw"
	default:
		return "ongoing"
	}
}

func (that GameResult) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *GameResult) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ongoing":
		*that = ResultOngoing
	case "player_wins":
		*that = ResultPlayerWins
	case "opponent_wins":
		*that = ResultOpponentWins
	case "draw":
		*that = ResultDraw
	default:
		return fmt.Errorf("unknown game result %q", text)
	}

	return nil
}

// Game is one session of a human (X) against the bot (O).
type Game struct {
	ID      string     `json:"id"`
	Board   Board      `json:"board"`
	Winner  Mark       `json:"winner"`
	Result  GameResult `json:"result"`
	Status  string     `json:"status"`
	Turn    Mark       `json:"player_turn"`
	Players []*Player  `json:"players,omitempty"`
}

// NewGame creates an ongoing game on an empty board where firstTurn moves first.
func NewGame(id string, firstTurn Mark) *Game {
	return &Game{
		ID:     id,
		Board:  NewBoard(),
		Turn:   firstTurn,
		Status: StatusOngoing,
		Result: ResultOngoing,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// IsBotTurn reports whether the bot is the side to move.
func (that *Game) IsBotTurn() bool {
	return that.IsOngoing() && that.Turn == PlayerO
}
