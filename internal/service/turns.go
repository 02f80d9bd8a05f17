package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
	"github.com/rocketscienceinc/gridmatch-backend/internal/tictactoe"
)

// TurnStateMachine arbitrates move submission for active rooms: turn order,
// move legality, lap resolution and match completion. Every transition of a
// room happens under that room's lock, so two near-simultaneous moves can
// never both pass the turn check.
type TurnStateMachine struct {
	logger     *slog.Logger
	playerRepo playerRepo
	roomRepo   roomRepo
	emitter    Emitter
	locks      *RoomLocks

	// lapWinThreshold is the number of lap wins that decides the match.
	lapWinThreshold int
}

func NewTurnStateMachine(logger *slog.Logger, playerRepo playerRepo, roomRepo roomRepo, emitter Emitter, locks *RoomLocks, lapWinThreshold int) *TurnStateMachine {
	if lapWinThreshold < 1 {
		lapWinThreshold = 1
	}

	return &TurnStateMachine{
		logger:          logger,
		playerRepo:      playerRepo,
		roomRepo:        roomRepo,
		emitter:         emitter,
		locks:           locks,
		lapWinThreshold: lapWinThreshold,
	}
}

// SubmitMove validates and applies one move by the player behind the given
// connection. Validation failures leave the room untouched and surface as
// sentinel errors for the transport to report back to the acting connection
// only; accepted moves are broadcast to the room along with the resulting
// turn, lap or match event.
func (that *TurnStateMachine) SubmitMove(ctx context.Context, roomID, connectionID string, row, column int) error {
	log := that.logger.With("method", "SubmitMove", "roomID", roomID)

	player, err := that.playerRepo.GetByConnectionID(ctx, connectionID)
	if err != nil {
		return fmt.Errorf("failed to resolve player: %w", err)
	}

	unlock := that.locks.Lock(roomID)
	defer unlock()

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to get room by id: %w", err)
	}

	move := &entity.Move{
		RoomID:   roomID,
		PlayerID: player.ID,
		Row:      row,
		Column:   column,
		Lap:      room.CurrentLap,
	}

	lapMoves, err := that.roomRepo.MovesForLap(ctx, roomID, room.CurrentLap)
	if err != nil {
		return fmt.Errorf("failed to read move log: %w", err)
	}

	if err = validateMove(room, player.ID, move, lapMoves); err != nil {
		return err
	}

	if err = that.roomRepo.AppendMove(ctx, move); err != nil {
		// The move never reached the log, so the room is exactly as it was.
		return fmt.Errorf("failed to persist move: %w", err)
	}

	if err = that.emitter.EmitToRoom(roomID, EventMatch, ActionMove, MovePayload{PlayerID: player.ID, Row: row, Column: column}); err != nil {
		log.Error("failed to broadcast move", "error", err)
	}

	lapMoves = append(lapMoves, *move)

	return that.resolveLap(ctx, room, player.ID, lapMoves)
}

// validateMove checks a move against the room's turn state and the current
// lap's board occupancy.
func validateMove(room *entity.Room, playerID string, move *entity.Move, lapMoves []entity.Move) error {
	if room.IsCompleted() {
		return fmt.Errorf("%w: room id %s", apperror.ErrRoomCompleted, room.ID)
	}

	if !room.IsActive() {
		return fmt.Errorf("%w: room id %s", apperror.ErrRoomNotActive, room.ID)
	}

	if room.NextMoveBy != playerID {
		return apperror.ErrNotPlayerTurn
	}

	if move.Lap != room.CurrentLap {
		return fmt.Errorf("%w: lap %d, current %d", apperror.ErrWrongLap, move.Lap, room.CurrentLap)
	}

	if !move.InBounds() {
		return fmt.Errorf("%w: row %d, column %d", apperror.ErrInvalidCell, move.Row, move.Column)
	}

	if tictactoe.CellOccupied(lapMoves, move.Row, move.Column) {
		return fmt.Errorf("%w: row %d, column %d", apperror.ErrCellOccupied, move.Row, move.Column)
	}

	return nil
}

// resolveLap evaluates the lap after an accepted move and advances the room:
// a decisive line either ends the match or opens the next lap, a full board
// without one advances the lap as a draw, anything else flips the turn.
func (that *TurnStateMachine) resolveLap(ctx context.Context, room *entity.Room, moverID string, lapMoves []entity.Move) error {
	log := that.logger.With("method", "resolveLap", "roomID", room.ID)

	outcome := tictactoe.Evaluate(lapMoves)

	switch {
	case outcome.WinnerID != "":
		wins := room.RecordLapWin(outcome.WinnerID)

		if wins >= that.lapWinThreshold {
			room.Status = entity.StatusCompleted
			room.NextMoveBy = ""

			if err := that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
				return fmt.Errorf("failed to complete room: %w", err)
			}

			if err := that.emitter.EmitToRoom(room.ID, EventMatch, ActionExit, MatchExitPayload{WinnerID: outcome.WinnerID}); err != nil {
				log.Error("failed to broadcast match exit", "error", err)
			}

			// No more transitions happen on a completed room.
			that.locks.Forget(room.ID)

			log.Info("match resolved", "winner", outcome.WinnerID)

			return nil
		}

		// The lap winner keeps the turn and opens the next lap.
		room.CurrentLap++

		if err := that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
			return fmt.Errorf("failed to advance lap: %w", err)
		}

		if err := that.emitter.EmitToRoom(room.ID, EventMatch, ActionEnd, LapEndPayload{WinnerID: outcome.WinnerID, Lap: room.CurrentLap}); err != nil {
			log.Error("failed to broadcast lap end", "error", err)
		}

		log.Info("lap resolved", "winner", outcome.WinnerID, "lap", room.CurrentLap)

		return nil

	case outcome.IsDraw:
		room.CurrentLap++
		room.PassTurn(moverID)

		if err := that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
			return fmt.Errorf("failed to advance lap: %w", err)
		}

		if err := that.emitter.EmitToRoom(room.ID, EventMatch, ActionEnd, LapEndPayload{Lap: room.CurrentLap}); err != nil {
			log.Error("failed to broadcast lap end", "error", err)
		}

		log.Info("lap drawn", "lap", room.CurrentLap)

		return nil

	default:
		room.PassTurn(moverID)

		if err := that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
			return fmt.Errorf("failed to pass turn: %w", err)
		}

		if err := that.emitter.EmitToRoom(room.ID, EventMatch, ActionTurn, TurnPayload{NextMoveBy: room.NextMoveBy}); err != nil {
			log.Error("failed to broadcast turn change", "error", err)
		}

		return nil
	}
}
