package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

const (
	actionConnect  = "connect"
	actionGameNew  = "game:new"
	actionGameTurn = "game:turn"
	actionGameHint = "game:hint"
	actionError    = "error"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries the request fields of every action and the reply fields.
type Payload struct {
	Player   *entity.Player         `json:"player,omitempty"`
	Game     *entity.Game           `json:"game,omitempty"`
	Move     *entity.Move           `json:"move,omitempty"`
	BotFirst bool                   `json:"bot_first,omitempty"`
	Hints    []tictactoe.ScoredMove `json:"hints,omitempty"`
	Best     *entity.Move           `json:"best,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

func newMessage(action string, payload Payload) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}

	return Message{Action: action, Payload: raw}, nil
}
