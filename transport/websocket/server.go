package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error)

	StartGame(ctx context.Context, playerID string, botFirst bool) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) ([]tictactoe.ScoredMove, error)
}

var errConnectionClosed = errors.New("connection closed")

type handlerFunc func(ctx context.Context, client *client, msg *Message) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

// client is one websocket connection. Only the read pump sends on send,
// the write pump owns conn writes and closes done when it stops.
type client struct {
	conn     *websocket.Conn
	send     chan Message
	done     chan struct{}
	playerID string
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameHint] = server.handleGameHint

	return server
}

// ServeHTTP upgrades the request and serves the connection until the peer leaves.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan Message, sendBuffer),
		done: make(chan struct{}),
	}

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	go that.writePump(c)

	that.readPump(req.Context(), c)
	<-c.done

	log.Info("WebSocket connection closed", "playerID", c.playerID)
}

func (that *Server) readPump(ctx context.Context, c *client) {
	log := that.logger.With("method", "readPump")

	defer close(c.send)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}

			return
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			log.Warn("unknown action", "action", msg.Action)
			that.sendError(c, actionError, fmt.Sprintf("unknown action %q", msg.Action))
			continue
		}

		if err := handler(ctx, c, &msg); err != nil {
			log.Error("error processing message", "action", msg.Action, "error", err)
		}
	}
}

func (that *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (that *Server) sendMessage(c *client, action string, payload Payload) error {
	msg, err := newMessage(action, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return errConnectionClosed
	}
}

func (that *Server) sendError(c *client, action, text string) {
	if err := that.sendMessage(c, action, Payload{Error: text}); err != nil {
		that.logger.Error("failed to send error response", "error", err)
	}
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}
