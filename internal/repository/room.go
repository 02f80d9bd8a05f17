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
	roomKeyPrefix = "room:"
	openRoomsKey  = "rooms:open"
)

type RoomRepository interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error

	AppendMove(ctx context.Context, move *entity.Move) error
	MovesForLap(ctx context.Context, roomID string, lap int) ([]entity.Move, error)

	EnqueueOpen(ctx context.Context, roomID string) error
	TakeOpen(ctx context.Context) (string, error)
	RemoveOpen(ctx context.Context, roomID string) error
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

func (that *dbRoom) CreateOrUpdate(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	if err = that.client.Set(ctx, roomKeyPrefix+room.ID, roomJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	response, err := that.client.Get(ctx, roomKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by ID: %w", err)
	}

	var existingRoom entity.Room
	if err = json.Unmarshal([]byte(response), &existingRoom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &existingRoom, nil
}

func (that *dbRoom) DeleteByID(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, roomKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete room by ID: %w", err)
	}

	return nil
}

func moveLogKey(roomID string, lap int) string {
	return fmt.Sprintf("%s%s:lap:%d:moves", roomKeyPrefix, roomID, lap)
}

// AppendMove pushes one move onto the room's per-lap move log. The log is
// append-only; occupancy and turn checks happen before a move gets here.
func (that *dbRoom) AppendMove(ctx context.Context, move *entity.Move) error {
	moveJSON, err := json.Marshal(move)
	if err != nil {
		return fmt.Errorf("failed to marshal move: %w", err)
	}

	if err = that.client.RPush(ctx, moveLogKey(move.RoomID, move.Lap), moveJSON).Err(); err != nil {
		return fmt.Errorf("failed to append move: %w", err)
	}

	return nil
}

func (that *dbRoom) MovesForLap(ctx context.Context, roomID string, lap int) ([]entity.Move, error) {
	entries, err := that.client.LRange(ctx, moveLogKey(roomID, lap), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read move log: %w", err)
	}

	moves := make([]entity.Move, 0, len(entries))
	for _, entry := range entries {
		var move entity.Move
		if err = json.Unmarshal([]byte(entry), &move); err != nil {
			return nil, fmt.Errorf("failed to unmarshal move: %w", err)
		}
		moves = append(moves, move)
	}

	return moves, nil
}

func (that *dbRoom) EnqueueOpen(ctx context.Context, roomID string) error {
	if err := that.client.SAdd(ctx, openRoomsKey, roomID).Err(); err != nil {
		return fmt.Errorf("failed to enqueue open room: %w", err)
	}

	return nil
}

// TakeOpen atomically claims one open room id for pairing. It returns
// ErrRoomNotFound when no room is waiting, so two concurrent quick-pair
// calls can never both claim the same seat.
func (that *dbRoom) TakeOpen(ctx context.Context) (string, error) {
	roomID, err := that.client.SPop(ctx, openRoomsKey).Result()

	if errors.Is(err, redis.Nil) {
		return "", apperror.ErrRoomNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to take open room: %w", err)
	}

	return roomID, nil
}

func (that *dbRoom) RemoveOpen(ctx context.Context, roomID string) error {
	if err := that.client.SRem(ctx, openRoomsKey, roomID).Err(); err != nil {
		return fmt.Errorf("failed to remove open room: %w", err)
	}

	return nil
}
