package entity

// BoardSize is the side length of the grid; moves address cells by row and
// column inside it.
const BoardSize = 3

// Move is one append-only entry of a room's move log. Lap ties the move to
// the play of the board it was made in.
type Move struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Row      int    `json:"row"`
	Column   int    `json:"column"`
	Lap      int    `json:"lap"`
}

// InBounds reports whether the move targets a cell of the grid.
func (that *Move) InBounds() bool {
	return that.Row >= 0 && that.Row < BoardSize && that.Column >= 0 && that.Column < BoardSize
}
