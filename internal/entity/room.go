package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
)

const (
	StatusOpen      = "open"
	StatusActive    = "active"
	StatusCompleted = "completed"

	IconX = "X"
	IconO = "O"

	MaxSeats = 2
)

// Seat assigns an icon to a player within one room. A room never carries the
// same icon twice.
type Seat struct {
	PlayerID string `json:"player_id"`
	Icon     string `json:"icon"`
}

// Room is one match session pairing exactly two players. LapWins counts
// finished laps per player; the match is decided against a configurable
// threshold, not here.
type Room struct {
	ID         string         `json:"id"`
	Status     string         `json:"status"`
	Seats      []Seat         `json:"seats"`
	CurrentLap int            `json:"current_lap"`
	NextMoveBy string         `json:"next_move_by,omitempty"`
	LapWins    map[string]int `json:"lap_wins"`
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Status:  StatusOpen,
		LapWins: make(map[string]int),
	}
}

func (that *Room) IsOpen() bool {
	return that.Status == StatusOpen
}

func (that *Room) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Room) IsCompleted() bool {
	return that.Status == StatusCompleted
}

// SeatPlayer adds a player under the given icon. Both seats filled or a
// duplicated icon are rejected.
func (that *Room) SeatPlayer(playerID, icon string) error {
	if len(that.Seats) >= MaxSeats {
		return fmt.Errorf("%w: room id %s", apperror.ErrRoomFull, that.ID)
	}

	for _, seat := range that.Seats {
		if seat.Icon == icon {
			return fmt.Errorf("icon %s is already taken in room %s", icon, that.ID)
		}
		if seat.PlayerID == playerID {
			return fmt.Errorf("player %s is already seated in room %s", playerID, that.ID)
		}
	}

	that.Seats = append(that.Seats, Seat{PlayerID: playerID, Icon: icon})

	return nil
}

// SeatFor returns the seat of the given player.
func (that *Room) SeatFor(playerID string) (Seat, bool) {
	for _, seat := range that.Seats {
		if seat.PlayerID == playerID {
			return seat, true
		}
	}

	return Seat{}, false
}

// Opponent returns the player seated opposite the given one.
func (that *Room) Opponent(playerID string) (Seat, bool) {
	for _, seat := range that.Seats {
		if seat.PlayerID != playerID {
			return seat, true
		}
	}

	return Seat{}, false
}

// PickStartingPlayer draws NextMoveBy uniformly from the two seated players.
// The draw is over exactly two outcomes, it can never select an unseated
// index.
func (that *Room) PickStartingPlayer() string {
	that.NextMoveBy = that.Seats[rand.IntN(MaxSeats)].PlayerID
	return that.NextMoveBy
}

// PassTurn hands NextMoveBy to the opponent of the given player.
func (that *Room) PassTurn(playerID string) {
	if opponent, ok := that.Opponent(playerID); ok {
		that.NextMoveBy = opponent.PlayerID
	}
}

// RecordLapWin bumps the winner's lap counter and reports the new total.
func (that *Room) RecordLapWin(playerID string) int {
	if that.LapWins == nil {
		that.LapWins = make(map[string]int)
	}

	that.LapWins[playerID]++

	return that.LapWins[playerID]
}
