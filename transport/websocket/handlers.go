package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-bot/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-bot/internal/tictactoe"
)

func (that *Server) handleConnect(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(c, msg.Action, "invalid payload")
		return err
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil && playerID != "" {
		log.Warn("player not found, creating a new one", "playerID", playerID, "error", err)
		player, err = that.gameUseCase.GetOrCreatePlayer(ctx, "")
	}

	if err != nil {
		that.sendError(c, msg.Action, "failed to create a new player")
		return fmt.Errorf("failed to get or create player: %w", err)
	}

	c.playerID = player.ID

	payloadResp := Payload{Player: player}

	if player.GameID != "" {
		game, err := that.gameUseCase.GetGame(ctx, player.ID)
		switch {
		case errors.Is(err, apperror.ErrNoActiveGame):
		case err != nil:
			log.Error("failed to get game", "gameID", player.GameID, "error", err)
		default:
			payloadResp.Game = game
		}
	}

	if err = that.sendMessage(c, msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(c, msg.Action, "invalid payload")
		return err
	}

	if c.playerID == "" {
		that.sendError(c, msg.Action, apperror.ErrNotConnected.Error())
		return nil
	}

	game, err := that.gameUseCase.StartGame(ctx, c.playerID, payloadReq.BotFirst)
	if err != nil {
		that.sendError(c, msg.Action, "failed to create a new game")
		return fmt.Errorf("failed to start game: %w", err)
	}

	log.Info("game started", "playerID", c.playerID, "gameID", game.ID)

	return that.sendMessage(c, msg.Action, Payload{Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		that.sendError(c, msg.Action, "invalid payload")
		return err
	}

	if c.playerID == "" {
		that.sendError(c, msg.Action, apperror.ErrNotConnected.Error())
		return nil
	}

	if payloadReq.Move == nil {
		that.sendError(c, msg.Action, "move is required")
		return nil
	}

	game, err := that.gameUseCase.MakeTurn(ctx, c.playerID, *payloadReq.Move)
	if errors.Is(err, apperror.ErrGameFinished) && game != nil {
		log.Info("game finished", "gameID", game.ID, "result", game.Result)
		return that.sendMessage(c, msg.Action, Payload{Game: game})
	}

	if err != nil {
		that.sendError(c, msg.Action, err.Error())
		return nil
	}

	return that.sendMessage(c, msg.Action, Payload{Game: game})
}

func (that *Server) handleGameHint(ctx context.Context, c *client, msg *Message) error {
	if c.playerID == "" {
		that.sendError(c, msg.Action, apperror.ErrNotConnected.Error())
		return nil
	}

	scored, err := that.gameUseCase.Hint(ctx, c.playerID)
	if err != nil {
		that.sendError(c, msg.Action, err.Error())
		return nil
	}

	payloadResp := Payload{Hints: scored}
	if len(scored) > 0 {
		best := tictactoe.BestOf(scored)
		payloadResp.Best = &best
	}

	return that.sendMessage(c, msg.Action, payloadResp)
}
