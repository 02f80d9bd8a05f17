package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

const (
	playerKeyPrefix     = "player:"
	playerUUIDKeyPrefix = "player_uuid:"
	connectionKeyPrefix = "connection:"
)

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	GetByUUID(ctx context.Context, uuid string) (*entity.Player, error)
	GetByConnectionID(ctx context.Context, connectionID string) (*entity.Player, error)
	DeleteConnectionBinding(ctx context.Context, connectionID string) error
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

// CreateOrUpdate stores the player record and refreshes the uuid and
// connection lookup indexes pointing at it.
func (that *dbPlayer) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	if err = that.client.Set(ctx, playerKeyPrefix+player.ID, playerJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	if player.UUID != "" {
		if err = that.client.Set(ctx, playerUUIDKeyPrefix+player.UUID, player.ID, 0).Err(); err != nil {
			return fmt.Errorf("failed to set player uuid index: %w", err)
		}
	}

	if player.ConnectionID != "" {
		if err = that.client.Set(ctx, connectionKeyPrefix+player.ConnectionID, player.ID, 0).Err(); err != nil {
			return fmt.Errorf("failed to set connection index: %w", err)
		}
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	response, err := that.client.Get(ctx, playerKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	var existingPlayer entity.Player
	if err = json.Unmarshal([]byte(response), &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}

func (that *dbPlayer) GetByUUID(ctx context.Context, uuid string) (*entity.Player, error) {
	id, err := that.client.Get(ctx, playerUUIDKeyPrefix+uuid).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by uuid: %w", err)
	}

	return that.GetByID(ctx, id)
}

func (that *dbPlayer) GetByConnectionID(ctx context.Context, connectionID string) (*entity.Player, error) {
	id, err := that.client.Get(ctx, connectionKeyPrefix+connectionID).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by connection: %w", err)
	}

	return that.GetByID(ctx, id)
}

// DeleteConnectionBinding drops only the connection index; the player record
// and any rooms the player joined are left as they are.
func (that *dbPlayer) DeleteConnectionBinding(ctx context.Context, connectionID string) error {
	if err := that.client.Del(ctx, connectionKeyPrefix+connectionID).Err(); err != nil {
		return fmt.Errorf("failed to delete connection binding: %w", err)
	}

	return nil
}
