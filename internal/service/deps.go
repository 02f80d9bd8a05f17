package service

import (
	"context"

	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
)

// Consumer-side views of the persistence layer; the redis repositories
// satisfy them, tests substitute mocks.

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	GetByUUID(ctx context.Context, uuid string) (*entity.Player, error)
	GetByConnectionID(ctx context.Context, connectionID string) (*entity.Player, error)
	DeleteConnectionBinding(ctx context.Context, connectionID string) error
}

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	DeleteByID(ctx context.Context, id string) error

	AppendMove(ctx context.Context, move *entity.Move) error
	MovesForLap(ctx context.Context, roomID string, lap int) ([]entity.Move, error)

	EnqueueOpen(ctx context.Context, roomID string) error
	TakeOpen(ctx context.Context) (string, error)
	RemoveOpen(ctx context.Context, roomID string) error
}
