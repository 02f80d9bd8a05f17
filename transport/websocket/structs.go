package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gridmatch-backend/internal/service"
)

// Message is the JSON envelope of every frame in both directions. Event
// names a catalog channel (player, quick_play, play_with_friend, match),
// Action the operation within it.
type Message struct {
	Event   string          `json:"event"`
	Action  string          `json:"action,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type playerPayload struct {
	UUID        string `json:"uuid,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

func (that *playerPayload) identity() service.Identity {
	return service.Identity{
		UUID:        that.UUID,
		DisplayName: that.DisplayName,
	}
}

type friendRequestPayload struct {
	FriendUUID string `json:"friend_uuid"`
}

type friendResponsePayload struct {
	RoomID   string `json:"room_id"`
	Opponent string `json:"opponent"`
	Response string `json:"response"`
}

const responseAccept = "accept"

type movePayload struct {
	RoomID string `json:"room_id"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}
