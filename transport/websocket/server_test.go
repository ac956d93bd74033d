package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/entity"
	"github.com/rocketscienceinc/tictactoe-bot/internal/repository"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

type mockGameUseCase struct {
	mock.Mock
}

func (that *mockGameUseCase) GetOrCreatePlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	args := that.Called(ctx, playerID)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockGameUseCase) StartGame(ctx context.Context, playerID string, botFirst bool) (*entity.Game, error) {
	args := that.Called(ctx, playerID, botFirst)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) MakeTurn(ctx context.Context, playerID string, move entity.Move) (*entity.Game, error) {
	args := that.Called(ctx, playerID, move)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) Hint(ctx context.Context, playerID string) ([]tictactoe.ScoredMove, error) {
	args := that.Called(ctx, playerID)
	scored, _ := args.Get(0).([]tictactoe.ScoredMove)
	return scored, args.Error(1)
}

func dial(t *testing.T) (*websocket.Conn, *mockGameUseCase) {
	t.Helper()

	uGame := &mockGameUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(New(logger, uGame))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	_ = resp.Body.Close()

	t.Cleanup(func() {
		uGame.AssertExpectations(t)
	})

	return conn, uGame
}

func roundTrip(t *testing.T, conn *websocket.Conn, action string, payload any) (string, Payload) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var reply Message
	require.NoError(t, conn.ReadJSON(&reply))

	var got Payload
	require.NoError(t, json.Unmarshal(reply.Payload, &got))

	return reply.Action, got
}

func TestServer_Connect(t *testing.T) {
	t.Run("Returning player gets the running game", func(t *testing.T) {
		// Given: a known player in a game
		conn, uGame := dial(t)
		player := &entity.Player{ID: "p1", GameID: "g1", Mark: entity.PlayerX}
		game := entity.NewGame("g1", entity.PlayerX)

		uGame.On("GetOrCreatePlayer", mock.Anything, "p1").Return(player, nil).Once()
		uGame.On("GetGame", mock.Anything, "p1").Return(game, nil).Once()

		// When: connecting with the player id
		action, got := roundTrip(t, conn, actionConnect, Payload{Player: &entity.Player{ID: "p1"}})

		// Then: both the player and the game come back
		assert.Equal(t, actionConnect, action)
		require.NotNil(t, got.Player)
		assert.Equal(t, "p1", got.Player.ID)
		require.NotNil(t, got.Game)
		assert.Equal(t, "g1", got.Game.ID)
	})

	t.Run("Unknown player is replaced", func(t *testing.T) {
		conn, uGame := dial(t)

		uGame.On("GetOrCreatePlayer", mock.Anything, "stale").Return(nil, repository.ErrPlayerNotFound).Once()
		uGame.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "p2"}, nil).Once()

		_, got := roundTrip(t, conn, actionConnect, Payload{Player: &entity.Player{ID: "stale"}})

		require.NotNil(t, got.Player)
		assert.Equal(t, "p2", got.Player.ID)
		assert.Nil(t, got.Game)
	})
}

func TestServer_GameFlow(t *testing.T) {
	// Given: a connected player
	conn, uGame := dial(t)
	move := entity.Move{Row: 1, Col: 1}

	started := entity.NewGame("g1", entity.PlayerX)
	afterTurn := entity.NewGame("g1", entity.PlayerX)
	afterTurn.Board[1][1] = entity.PlayerX
	afterTurn.Board[0][0] = entity.PlayerO
	scored := []tictactoe.ScoredMove{
		{Move: entity.Move{Row: 0, Col: 1}, Score: -2},
		{Move: entity.Move{Row: 2, Col: 2}, Score: 0},
	}

	uGame.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "p1"}, nil).Once()
	uGame.On("StartGame", mock.Anything, "p1", false).Return(started, nil).Once()
	uGame.On("MakeTurn", mock.Anything, "p1", move).Return(afterTurn, nil).Once()
	uGame.On("Hint", mock.Anything, "p1").Return(scored, nil).Once()

	_, got := roundTrip(t, conn, actionConnect, Payload{})
	require.NotNil(t, got.Player)

	// When: starting a game, taking the center and asking for a hint
	action, got := roundTrip(t, conn, actionGameNew, Payload{})
	assert.Equal(t, actionGameNew, action)
	require.NotNil(t, got.Game)
	assert.Equal(t, entity.NewBoard(), got.Game.Board)

	action, got = roundTrip(t, conn, actionGameTurn, Payload{Move: &move})
	assert.Equal(t, actionGameTurn, action)
	require.NotNil(t, got.Game)

	// Then: the replies carry the board after the bot answer and the scored moves
	assert.Equal(t, entity.PlayerO, got.Game.Board[0][0])

	action, got = roundTrip(t, conn, actionGameHint, Payload{})
	assert.Equal(t, actionGameHint, action)
	assert.Equal(t, scored, got.Hints)
	require.NotNil(t, got.Best)
	assert.Equal(t, entity.Move{Row: 2, Col: 2}, *got.Best)
}

func TestServer_Errors(t *testing.T) {
	t.Run("Actions before connect are rejected", func(t *testing.T) {
		conn, _ := dial(t)

		action, got := roundTrip(t, conn, actionGameNew, Payload{})

		assert.Equal(t, actionGameNew, action)
		assert.Equal(t, apperror.ErrNotConnected.Error(), got.Error)
	})

	t.Run("Unknown action", func(t *testing.T) {
		conn, _ := dial(t)

		action, got := roundTrip(t, conn, "game:resign", Payload{})

		assert.Equal(t, actionError, action)
		assert.Contains(t, got.Error, "game:resign")
	})

	t.Run("Occupied cell", func(t *testing.T) {
		conn, uGame := dial(t)
		move := entity.Move{Row: 0, Col: 0}

		uGame.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "p1"}, nil).Once()
		uGame.On("MakeTurn", mock.Anything, "p1", move).
			Return(nil, fmt.Errorf("failed to make turn: %w", apperror.ErrCellOccupied)).Once()

		roundTrip(t, conn, actionConnect, Payload{})
		action, got := roundTrip(t, conn, actionGameTurn, Payload{Move: &move})

		assert.Equal(t, actionGameTurn, action)
		assert.Contains(t, got.Error, apperror.ErrCellOccupied.Error())
	})

	t.Run("Turn without move", func(t *testing.T) {
		conn, uGame := dial(t)

		uGame.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "p1"}, nil).Once()

		roundTrip(t, conn, actionConnect, Payload{})
		_, got := roundTrip(t, conn, actionGameTurn, Payload{})

		assert.Equal(t, "move is required", got.Error)
	})
}

func TestServer_SendMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(logger, &mockGameUseCase{})

	t.Run("Queues while the writer runs", func(t *testing.T) {
		// Given
		c := &client{send: make(chan Message, 1), done: make(chan struct{})}

		// When
		err := srv.sendMessage(c, actionGameNew, Payload{BotFirst: true})

		// Then
		require.NoError(t, err)
		msg := <-c.send
		assert.Equal(t, actionGameNew, msg.Action)
	})

	t.Run("Gives up once the writer stopped with a full buffer", func(t *testing.T) {
		// Given
		c := &client{send: make(chan Message, 1), done: make(chan struct{})}
		c.send <- Message{Action: actionError}
		close(c.done)

		// When
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.sendMessage(c, actionGameTurn, Payload{})
		}()

		// Then
		select {
		case err := <-errCh:
			require.ErrorIs(t, err, errConnectionClosed)
		case <-time.After(time.Second):
			t.Fatal("sendMessage blocked after the write pump stopped")
		}
	})
}
