package websocket

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// In-memory stand-ins for the redis repositories, good enough to drive the
// full socket flow without a container.

type memPlayerRepo struct {
	mu      sync.Mutex
	players map[string]*entity.Player
	byUUID  map[string]string
	byConn  map[string]string
}

func newMemPlayerRepo() *memPlayerRepo {
	return &memPlayerRepo{
		players: make(map[string]*entity.Player),
		byUUID:  make(map[string]string),
		byConn:  make(map[string]string),
	}
}

func (that *memPlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	copied := *player
	that.players[player.ID] = &copied
	if player.UUID != "" {
		that.byUUID[player.UUID] = player.ID
	}
	if player.ConnectionID != "" {
		that.byConn[player.ConnectionID] = player.ID
	}

	return nil
}

func (that *memPlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[id]
	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	copied := *player

	return &copied, nil
}

func (that *memPlayerRepo) GetByUUID(ctx context.Context, uuid string) (*entity.Player, error) {
	that.mu.Lock()
	id, ok := that.byUUID[uuid]
	that.mu.Unlock()

	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	return that.GetByID(ctx, id)
}

func (that *memPlayerRepo) GetByConnectionID(ctx context.Context, connectionID string) (*entity.Player, error) {
	that.mu.Lock()
	id, ok := that.byConn[connectionID]
	that.mu.Unlock()

	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	return that.GetByID(ctx, id)
}

func (that *memPlayerRepo) DeleteConnectionBinding(_ context.Context, connectionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.byConn, connectionID)

	return nil
}

func (that *memPlayerRepo) boundConnections() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.byConn)
}

type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*entity.Room
	moves map[string][]entity.Move
	open  []string
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{
		rooms: make(map[string]*entity.Room),
		moves: make(map[string][]entity.Move),
	}
}

func moveKey(roomID string, lap int) string {
	return roomID + ":" + strconv.Itoa(lap)
}

func (that *memRoomRepo) CreateOrUpdate(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	copied := *room
	copied.Seats = append([]entity.Seat(nil), room.Seats...)
	that.rooms[room.ID] = &copied

	return nil
}

func (that *memRoomRepo) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	copied := *room
	copied.Seats = append([]entity.Seat(nil), room.Seats...)

	return &copied, nil
}

func (that *memRoomRepo) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)

	return nil
}

func (that *memRoomRepo) AppendMove(_ context.Context, move *entity.Move) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	key := moveKey(move.RoomID, move.Lap)
	that.moves[key] = append(that.moves[key], *move)

	return nil
}

func (that *memRoomRepo) MovesForLap(_ context.Context, roomID string, lap int) ([]entity.Move, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return append([]entity.Move(nil), that.moves[moveKey(roomID, lap)]...), nil
}

func (that *memRoomRepo) EnqueueOpen(_ context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.open = append(that.open, roomID)

	return nil
}

func (that *memRoomRepo) TakeOpen(_ context.Context) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if len(that.open) == 0 {
		return "", apperror.ErrRoomNotFound
	}

	roomID := that.open[0]
	that.open = that.open[1:]

	return roomID, nil
}

func (that *memRoomRepo) RemoveOpen(_ context.Context, roomID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, id := range that.open {
		if id == roomID {
			that.open = append(that.open[:i], that.open[i+1:]...)
			break
		}
	}

	return nil
}

func (that *memRoomRepo) openCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.open)
}

func (that *memRoomRepo) roomCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}

func (that *memRoomRepo) roomByID(id string) *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rooms[id]
}
