package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/service"
)

const genericErrorMessage = "Something went wrong, please try again"

func (that *Server) handlePlayer(ctx context.Context, connectionID string, msg *Message) error {
	log := that.logger.With("method", "handlePlayer")

	var payload playerPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	switch msg.Action {
	case "create":
		player, err := that.registry.RegisterConnection(ctx, payload.identity(), connectionID)
		if err != nil {
			return fmt.Errorf("failed to register connection: %w", err)
		}

		// Every player listens on a private channel named by their uuid;
		// friend invitations are addressed there.
		that.hub.JoinChannel(connectionID, player.UUID)

		log.Info("player registered", "playerID", player.ID)

		return that.hub.EmitToConnection(connectionID, msg.Event, msg.Action, player)

	case "update":
		player, err := that.registry.UpdatePlayer(ctx, payload.identity(), connectionID)
		if err != nil {
			return fmt.Errorf("failed to update player: %w", err)
		}

		return that.hub.EmitToConnection(connectionID, msg.Event, msg.Action, player)

	default:
		return fmt.Errorf("unknown player action: %s", msg.Action)
	}
}

func (that *Server) handleQuickPlay(ctx context.Context, connectionID string, _ *Message) error {
	if _, err := that.matchmaker.QuickPair(ctx, connectionID); err != nil {
		return fmt.Errorf("failed to quick pair: %w", err)
	}

	return nil
}

func (that *Server) handlePlayWithFriend(ctx context.Context, connectionID string, msg *Message) error {
	switch msg.Action {
	case "request":
		var payload friendRequestPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		if err := that.matchmaker.InviteFriend(ctx, connectionID, payload.FriendUUID); err != nil {
			return fmt.Errorf("failed to invite friend: %w", err)
		}

		return nil

	case "response":
		var payload friendResponsePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		accept := payload.Response == responseAccept
		if _, err := that.matchmaker.RespondToInvite(ctx, connectionID, payload.RoomID, payload.Opponent, accept); err != nil {
			return fmt.Errorf("failed to respond to invite: %w", err)
		}

		return nil

	default:
		return fmt.Errorf("unknown play_with_friend action: %s", msg.Action)
	}
}

func (that *Server) handleMatch(ctx context.Context, connectionID string, msg *Message) error {
	if msg.Action != "move" {
		return fmt.Errorf("unknown match action: %s", msg.Action)
	}

	var payload movePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err := that.turns.SubmitMove(ctx, payload.RoomID, connectionID, payload.Row, payload.Column); err != nil {
		return fmt.Errorf("failed to submit move: %w", err)
	}

	return nil
}

// reportError maps a failure onto a match error event addressed only at the
// acting connection. Validation and lookup failures carry their own message;
// anything else is reported as a generic recoverable error.
func (that *Server) reportError(connectionID string, err error) {
	log := that.logger.With("method", "reportError")

	message := genericErrorMessage

	for _, known := range []error{
		apperror.ErrNotPlayerTurn,
		apperror.ErrCellOccupied,
		apperror.ErrInvalidCell,
		apperror.ErrWrongLap,
		apperror.ErrPlayerNotFound,
		apperror.ErrRoomNotFound,
		apperror.ErrRoomCompleted,
		apperror.ErrRoomNotActive,
		apperror.ErrRoomFull,
		apperror.ErrRoomNotOpen,
	} {
		if errors.Is(err, known) {
			message = known.Error()
			break
		}
	}

	log.Error("request failed", "connectionID", connectionID, "error", err)

	payload := service.ErrorPayload{Message: message}
	if emitErr := that.hub.EmitToConnection(connectionID, service.EventMatch, service.ActionError, payload); emitErr != nil {
		log.Error("failed to report error", "connectionID", connectionID, "error", emitErr)
	}
}
