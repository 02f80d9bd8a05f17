package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
	"github.com/rocketscienceinc/gridmatch-backend/internal/pkg"
)

// Identity carries the fields a client may present for itself.
type Identity struct {
	UUID        string `json:"uuid,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// ConnectionRegistry resolves live connections to player records and keeps
// the binding current across reconnects.
type ConnectionRegistry struct {
	logger     *slog.Logger
	playerRepo playerRepo
}

func NewConnectionRegistry(logger *slog.Logger, playerRepo playerRepo) *ConnectionRegistry {
	return &ConnectionRegistry{
		logger:     logger,
		playerRepo: playerRepo,
	}
}

// RegisterConnection creates or refreshes the player behind a connection.
// A known uuid rebinds the existing record to the new connection; otherwise
// a record already bound to this connection is reused, so repeating the call
// on one connection never mints a second player. Only when neither lookup
// hits is a fresh player created.
func (that *ConnectionRegistry) RegisterConnection(ctx context.Context, identity Identity, connectionID string) (*entity.Player, error) {
	log := that.logger.With("method", "RegisterConnection")

	player, err := that.lookupByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	if player == nil {
		player, err = that.lookupByConnection(ctx, connectionID)
		if err != nil {
			return nil, err
		}
	}

	if player == nil {
		player = &entity.Player{
			ID:   pkg.GeneratePlayerID(),
			UUID: identity.UUID,
		}
		if player.UUID == "" {
			player.UUID = pkg.GeneratePlayerID()
		}

		log.Info("creating new player", "playerID", player.ID)
	}

	player.ConnectionID = connectionID
	if identity.DisplayName != "" {
		player.DisplayName = identity.DisplayName
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to register connection: %w", err)
	}

	return player, nil
}

// UpdatePlayer applies identity fields to the player bound to the given
// connection.
func (that *ConnectionRegistry) UpdatePlayer(ctx context.Context, identity Identity, connectionID string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByConnectionID(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player: %w", err)
	}

	if identity.DisplayName != "" {
		player.DisplayName = identity.DisplayName
	}

	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	return player, nil
}

// ResolvePlayer returns the player behind a live connection.
func (that *ConnectionRegistry) ResolvePlayer(ctx context.Context, connectionID string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByConnectionID(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player: %w", err)
	}

	return player, nil
}

// RemoveConnection dissociates the player from a closed connection. Rooms
// the player already joined stay as they are; an abandoned match is left
// unresolved for the opponent.
func (that *ConnectionRegistry) RemoveConnection(ctx context.Context, connectionID string) error {
	log := that.logger.With("method", "RemoveConnection")

	player, err := that.playerRepo.GetByConnectionID(ctx, connectionID)
	if err != nil && !errors.Is(err, apperror.ErrPlayerNotFound) {
		return fmt.Errorf("failed to resolve player: %w", err)
	}

	if err = that.playerRepo.DeleteConnectionBinding(ctx, connectionID); err != nil {
		return fmt.Errorf("failed to remove connection: %w", err)
	}

	if player == nil {
		return nil
	}

	if player.ConnectionID == connectionID {
		player.ConnectionID = ""
		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return fmt.Errorf("failed to update player: %w", err)
		}
	}

	log.Info("player disconnected", "playerID", player.ID)

	return nil
}

func (that *ConnectionRegistry) lookupByIdentity(ctx context.Context, identity Identity) (*entity.Player, error) {
	if identity.UUID == "" {
		return nil, nil
	}

	player, err := that.playerRepo.GetByUUID(ctx, identity.UUID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to look up player by uuid: %w", err)
	}

	return player, nil
}

func (that *ConnectionRegistry) lookupByConnection(ctx context.Context, connectionID string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByConnectionID(ctx, connectionID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to look up player by connection: %w", err)
	}

	return player, nil
}
