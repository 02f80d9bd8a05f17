package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

type mockPlayerRepo struct {
	mock.Mock
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	args := that.Called(ctx, player)
	return args.Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockPlayerRepo) GetByUUID(ctx context.Context, uuid string) (*entity.Player, error) {
	args := that.Called(ctx, uuid)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockPlayerRepo) GetByConnectionID(ctx context.Context, connectionID string) (*entity.Player, error) {
	args := that.Called(ctx, connectionID)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockPlayerRepo) DeleteConnectionBinding(ctx context.Context, connectionID string) error {
	args := that.Called(ctx, connectionID)
	return args.Error(0)
}

type mockRoomRepo struct {
	mock.Mock
}

func (that *mockRoomRepo) CreateOrUpdate(ctx context.Context, room *entity.Room) error {
	args := that.Called(ctx, room)
	return args.Error(0)
}

func (that *mockRoomRepo) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	args := that.Called(ctx, id)
	room, _ := args.Get(0).(*entity.Room)
	return room, args.Error(1)
}

func (that *mockRoomRepo) DeleteByID(ctx context.Context, id string) error {
	args := that.Called(ctx, id)
	return args.Error(0)
}

func (that *mockRoomRepo) AppendMove(ctx context.Context, move *entity.Move) error {
	args := that.Called(ctx, move)
	return args.Error(0)
}

func (that *mockRoomRepo) MovesForLap(ctx context.Context, roomID string, lap int) ([]entity.Move, error) {
	args := that.Called(ctx, roomID, lap)
	moves, _ := args.Get(0).([]entity.Move)
	return moves, args.Error(1)
}

func (that *mockRoomRepo) EnqueueOpen(ctx context.Context, roomID string) error {
	args := that.Called(ctx, roomID)
	return args.Error(0)
}

func (that *mockRoomRepo) TakeOpen(ctx context.Context) (string, error) {
	args := that.Called(ctx)
	return args.String(0), args.Error(1)
}

func (that *mockRoomRepo) RemoveOpen(ctx context.Context, roomID string) error {
	args := that.Called(ctx, roomID)
	return args.Error(0)
}

type mockEmitter struct {
	mock.Mock
}

func (that *mockEmitter) EmitToRoom(channelID, event, action string, payload any) error {
	args := that.Called(channelID, event, action, payload)
	return args.Error(0)
}

func (that *mockEmitter) EmitToConnection(connectionID, event, action string, payload any) error {
	args := that.Called(connectionID, event, action, payload)
	return args.Error(0)
}

func (that *mockEmitter) JoinChannel(connectionID, channelID string) {
	that.Called(connectionID, channelID)
}

func (that *mockEmitter) LeaveChannel(connectionID, channelID string) {
	that.Called(connectionID, channelID)
}
