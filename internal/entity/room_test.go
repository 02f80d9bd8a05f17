package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
)

func TestRoom_SeatPlayer(t *testing.T) {
	t.Run("Seats two players with distinct icons", func(t *testing.T) {
		// Given: an open room
		room := NewRoom("room-1")

		// When: seating two players
		require.NoError(t, room.SeatPlayer("player-a", IconX))
		require.NoError(t, room.SeatPlayer("player-b", IconO))

		// Then: the room holds exactly both seats with the X/O pair
		require.Len(t, room.Seats, 2)
		icons := map[string]bool{room.Seats[0].Icon: true, room.Seats[1].Icon: true}
		assert.True(t, icons[IconX])
		assert.True(t, icons[IconO])
	})

	t.Run("Rejects a third seat", func(t *testing.T) {
		room := NewRoom("room-1")
		require.NoError(t, room.SeatPlayer("player-a", IconX))
		require.NoError(t, room.SeatPlayer("player-b", IconO))

		err := room.SeatPlayer("player-c", IconX)

		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Len(t, room.Seats, 2)
	})

	t.Run("Rejects a duplicated icon", func(t *testing.T) {
		room := NewRoom("room-1")
		require.NoError(t, room.SeatPlayer("player-a", IconX))

		err := room.SeatPlayer("player-b", IconX)

		require.Error(t, err)
		assert.Len(t, room.Seats, 1)
	})

	t.Run("Rejects seating the same player twice", func(t *testing.T) {
		room := NewRoom("room-1")
		require.NoError(t, room.SeatPlayer("player-a", IconX))

		err := room.SeatPlayer("player-a", IconO)

		require.Error(t, err)
		assert.Len(t, room.Seats, 1)
	})
}

func TestRoom_PickStartingPlayer(t *testing.T) {
	// Given: a room with both seats taken
	room := NewRoom("room-1")
	require.NoError(t, room.SeatPlayer("player-a", IconX))
	require.NoError(t, room.SeatPlayer("player-b", IconO))

	seen := make(map[string]int)

	// When: sampling the starting-player draw many times
	for range 1000 {
		starter := room.PickStartingPlayer()

		// Then: the pick is always one of the two seated players
		require.Contains(t, []string{"player-a", "player-b"}, starter)
		require.Equal(t, starter, room.NextMoveBy)
		seen[starter]++
	}

	// Then: both outcomes occur across repeated sampling
	assert.Positive(t, seen["player-a"])
	assert.Positive(t, seen["player-b"])
}

func TestRoom_PassTurn(t *testing.T) {
	room := NewRoom("room-1")
	require.NoError(t, room.SeatPlayer("player-a", IconX))
	require.NoError(t, room.SeatPlayer("player-b", IconO))

	// When: the turn passes back and forth
	room.NextMoveBy = "player-a"
	room.PassTurn("player-a")
	assert.Equal(t, "player-b", room.NextMoveBy)

	room.PassTurn("player-b")
	assert.Equal(t, "player-a", room.NextMoveBy)
}

func TestRoom_SeatLookups(t *testing.T) {
	room := NewRoom("room-1")
	require.NoError(t, room.SeatPlayer("player-a", IconX))
	require.NoError(t, room.SeatPlayer("player-b", IconO))

	seat, ok := room.SeatFor("player-a")
	require.True(t, ok)
	assert.Equal(t, IconX, seat.Icon)

	opponent, ok := room.Opponent("player-a")
	require.True(t, ok)
	assert.Equal(t, "player-b", opponent.PlayerID)

	_, ok = room.SeatFor("player-c")
	assert.False(t, ok)
}

func TestRoom_RecordLapWin(t *testing.T) {
	room := NewRoom("room-1")

	assert.Equal(t, 1, room.RecordLapWin("player-a"))
	assert.Equal(t, 2, room.RecordLapWin("player-a"))
	assert.Equal(t, 1, room.RecordLapWin("player-b"))
}

func TestRoom_StatusHelpers(t *testing.T) {
	room := NewRoom("room-1")
	assert.True(t, room.IsOpen())

	room.Status = StatusActive
	assert.True(t, room.IsActive())

	room.Status = StatusCompleted
	assert.True(t, room.IsCompleted())
}
