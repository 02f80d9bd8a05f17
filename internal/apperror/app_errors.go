package apperror

import "errors"

var (
	ErrNotPlayerTurn = errors.New("Opponents turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("cell is out of board bounds")
	ErrWrongLap      = errors.New("move targets a lap that is not current")

	ErrPlayerNotFound = errors.New("player not found")
	ErrRoomNotFound   = errors.New("room not found")

	ErrRoomCompleted = errors.New("room is already completed")
	ErrRoomNotActive = errors.New("match is not started yet")
	ErrRoomFull      = errors.New("room already has two players")
	ErrRoomNotOpen   = errors.New("room is not open for joining")
)
