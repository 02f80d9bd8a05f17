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

// Matchmaker seats players into rooms, either by quick pairing with any
// waiting stranger or through a direct friend invitation.
type Matchmaker struct {
	logger     *slog.Logger
	playerRepo playerRepo
	roomRepo   roomRepo
	emitter    Emitter
	locks      *RoomLocks
}

func NewMatchmaker(logger *slog.Logger, playerRepo playerRepo, roomRepo roomRepo, emitter Emitter, locks *RoomLocks) *Matchmaker {
	return &Matchmaker{
		logger:     logger,
		playerRepo: playerRepo,
		roomRepo:   roomRepo,
		emitter:    emitter,
		locks:      locks,
	}
}

// QuickPair joins the caller to any room waiting for a second player, or
// opens a new one. The first seated player plays X, the second O; seating
// the second player activates the room, picks who starts and broadcasts the
// match start.
func (that *Matchmaker) QuickPair(ctx context.Context, connectionID string) (*entity.Room, error) {
	log := that.logger.With("method", "QuickPair")

	player, err := that.playerRepo.GetByConnectionID(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player: %w", err)
	}

	roomID, err := that.roomRepo.TakeOpen(ctx)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		return that.openRoom(ctx, player)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find open room: %w", err)
	}

	unlock := that.locks.Lock(roomID)
	defer unlock()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		// The claimed id was stale, e.g. the waiting player withdrew the
		// room between the claim and here.
		return that.openRoom(ctx, player)
	}

	if err != nil {
		that.restoreOpen(ctx, roomID)
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	if !room.IsOpen() {
		// A room past the open state must not go back into the set.
		return nil, fmt.Errorf("%w: room id %s", apperror.ErrRoomNotOpen, roomID)
	}

	if err = room.SeatPlayer(player.ID, entity.IconO); err != nil {
		// The claim removed the room from the open set; put it back so
		// the waiting player stays reachable. This covers the waiting
		// player quick-pairing into their own room.
		that.restoreOpen(ctx, roomID)
		return nil, fmt.Errorf("failed to seat player: %w", err)
	}

	room.Status = entity.StatusActive
	room.PickStartingPlayer()

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		// The store still holds the open room, only this activation
		// attempt is lost.
		that.restoreOpen(ctx, roomID)
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	player.RoomID = room.ID
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to bind player to room: %w", err)
	}

	that.emitter.JoinChannel(connectionID, room.ID)

	if err = that.emitter.EmitToRoom(room.ID, EventMatch, ActionStart, StartPayload{Room: room, NextMoveBy: room.NextMoveBy}); err != nil {
		log.Error("failed to broadcast match start", "roomID", room.ID, "error", err)
	}

	log.Info("room activated", "roomID", room.ID, "nextMoveBy", room.NextMoveBy)

	return room, nil
}

// InviteFriend notifies the friend's private identity channel of a match
// request. No room exists until the friend accepts; the seed id only names
// the room that acceptance would create.
func (that *Matchmaker) InviteFriend(ctx context.Context, requesterConnectionID, friendUUID string) error {
	log := that.logger.With("method", "InviteFriend")

	requester, err := that.playerRepo.GetByConnectionID(ctx, requesterConnectionID)
	if err != nil {
		return fmt.Errorf("failed to resolve requester: %w", err)
	}

	if _, err = that.playerRepo.GetByUUID(ctx, friendUUID); err != nil {
		return fmt.Errorf("failed to resolve friend: %w", err)
	}

	roomSeed := pkg.GenerateRoomID()

	payload := MatchRequestPayload{By: requester, RoomID: roomSeed}
	if err = that.emitter.EmitToRoom(friendUUID, EventPlayer, ActionMatchRequest, payload); err != nil {
		return fmt.Errorf("failed to deliver match request: %w", err)
	}

	log.Info("match request sent", "roomSeed", roomSeed, "friendUUID", friendUUID)

	return nil
}

// RespondToInvite resolves a pending match request. Acceptance creates the
// room under the proposed seed and seats both players; the requester keeps
// icon X as the initiating side. Declining creates nothing and tells the
// requester so.
func (that *Matchmaker) RespondToInvite(ctx context.Context, accepterConnectionID, roomSeed, requesterUUID string, accept bool) (*entity.Room, error) {
	log := that.logger.With("method", "RespondToInvite")

	accepter, err := that.playerRepo.GetByConnectionID(ctx, accepterConnectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accepter: %w", err)
	}

	requester, err := that.playerRepo.GetByUUID(ctx, requesterUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve requester: %w", err)
	}

	if !accept {
		payload := DeclinePayload{By: accepter, RoomID: roomSeed}
		if err = that.emitter.EmitToConnection(requester.ConnectionID, EventFriend, ActionDeclined, payload); err != nil {
			return nil, fmt.Errorf("failed to deliver decline: %w", err)
		}

		log.Info("match request declined", "roomSeed", roomSeed)

		return nil, nil
	}

	unlock := that.locks.Lock(roomSeed)
	defer unlock()

	room := entity.NewRoom(roomSeed)

	if err = room.SeatPlayer(requester.ID, entity.IconX); err != nil {
		return nil, fmt.Errorf("failed to seat requester: %w", err)
	}

	if err = room.SeatPlayer(accepter.ID, entity.IconO); err != nil {
		return nil, fmt.Errorf("failed to seat accepter: %w", err)
	}

	room.Status = entity.StatusActive
	room.PickStartingPlayer()

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	requester.RoomID = room.ID
	if err = that.playerRepo.CreateOrUpdate(ctx, requester); err != nil {
		return nil, fmt.Errorf("failed to bind requester to room: %w", err)
	}

	accepter.RoomID = room.ID
	if err = that.playerRepo.CreateOrUpdate(ctx, accepter); err != nil {
		return nil, fmt.Errorf("failed to bind accepter to room: %w", err)
	}

	that.emitter.JoinChannel(accepterConnectionID, room.ID)
	that.emitter.JoinChannel(requester.ConnectionID, room.ID)

	if err = that.emitter.EmitToRoom(room.ID, EventMatch, ActionStart, StartPayload{Room: room, NextMoveBy: room.NextMoveBy}); err != nil {
		log.Error("failed to broadcast match start", "roomID", room.ID, "error", err)
	}

	log.Info("invite accepted, room activated", "roomID", room.ID, "nextMoveBy", room.NextMoveBy)

	return room, nil
}

// HandleDisconnect cleans up after a closed connection. A room still waiting
// for an opponent is withdrawn so nobody pairs with an absent player; an
// active match is left as it is, the player may reconnect under the same
// uuid and resume.
func (that *Matchmaker) HandleDisconnect(ctx context.Context, connectionID string) error {
	log := that.logger.With("method", "HandleDisconnect")

	player, err := that.playerRepo.GetByConnectionID(ctx, connectionID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to resolve player: %w", err)
	}

	if player.RoomID == "" {
		return nil
	}

	roomID := player.RoomID

	unlock := that.locks.Lock(roomID)
	defer unlock()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil && !errors.Is(err, apperror.ErrRoomNotFound) {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	if room != nil && room.IsActive() {
		return nil
	}

	if room != nil && room.IsOpen() {
		if err = that.roomRepo.RemoveOpen(ctx, roomID); err != nil {
			return fmt.Errorf("failed to withdraw open room: %w", err)
		}

		if err = that.roomRepo.DeleteByID(ctx, roomID); err != nil {
			return fmt.Errorf("failed to delete open room: %w", err)
		}

		log.Info("withdrew waiting room", "roomID", roomID, "playerID", player.ID)
	}

	that.locks.Forget(roomID)

	player.RoomID = ""
	if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to unbind player from room: %w", err)
	}

	return nil
}

// restoreOpen puts a claimed room id back into the open set after a failed
// pairing attempt.
func (that *Matchmaker) restoreOpen(ctx context.Context, roomID string) {
	if err := that.roomRepo.EnqueueOpen(ctx, roomID); err != nil {
		that.logger.Error("failed to restore open room", "method", "restoreOpen", "roomID", roomID, "error", err)
	}
}

func (that *Matchmaker) openRoom(ctx context.Context, player *entity.Player) (*entity.Room, error) {
	log := that.logger.With("method", "openRoom")

	room := entity.NewRoom(pkg.GenerateRoomID())

	if err := room.SeatPlayer(player.ID, entity.IconX); err != nil {
		return nil, fmt.Errorf("failed to seat player: %w", err)
	}

	if err := that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	if err := that.roomRepo.EnqueueOpen(ctx, room.ID); err != nil {
		return nil, fmt.Errorf("failed to enqueue open room: %w", err)
	}

	player.RoomID = room.ID
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to bind player to room: %w", err)
	}

	that.emitter.JoinChannel(player.ConnectionID, room.ID)

	log.Info("opened new room", "roomID", room.ID, "playerID", player.ID)

	return room, nil
}
