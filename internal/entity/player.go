package entity

// Player binds a stable identity to the live connection it currently speaks
// through. ConnectionID is reassigned on every reconnect; RoomID tracks the
// room the player is waiting in or playing in.
type Player struct {
	ID           string `json:"id"`
	UUID         string `json:"uuid"`
	ConnectionID string `json:"connection_id,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	RoomID       string `json:"room_id,omitempty"`
}
