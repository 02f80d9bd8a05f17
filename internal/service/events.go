package service

import "github.com/rocketscienceinc/gridmatch-backend/internal/entity"

// Outbound event names and actions, mirroring the inbound catalog.
const (
	EventPlayer = "player"
	EventMatch  = "match"
	EventFriend = "play_with_friend"

	ActionMatchRequest = "match_request"
	ActionDeclined     = "declined"

	ActionStart = "start"
	ActionMove  = "move"
	ActionTurn  = "turn"
	ActionEnd   = "end"
	ActionExit  = "exit"
	ActionError = "error"
)

type StartPayload struct {
	Room       *entity.Room `json:"room"`
	NextMoveBy string       `json:"next_move_by"`
}

type MovePayload struct {
	PlayerID string `json:"player_id"`
	Row      int    `json:"row"`
	Column   int    `json:"column"`
}

type TurnPayload struct {
	NextMoveBy string `json:"next_move_by"`
}

// LapEndPayload reports a finished lap. WinnerID is empty when the lap was a
// draw; Lap is the index of the fresh lap the room advanced to.
type LapEndPayload struct {
	WinnerID string `json:"winner,omitempty"`
	Lap      int    `json:"lap"`
}

type MatchExitPayload struct {
	WinnerID string `json:"winner"`
}

type MatchRequestPayload struct {
	By     *entity.Player `json:"by"`
	RoomID string         `json:"room_id"`
}

type DeclinePayload struct {
	By     *entity.Player `json:"by"`
	RoomID string         `json:"room_id"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
