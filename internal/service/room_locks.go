package service

import "sync"

// RoomLocks serializes all state transitions of a single room. Seat
// assignment, starting-player selection and move submission for one room
// must hold its lock; unrelated rooms never contend.
type RoomLocks struct {
	locks sync.Map // roomID -> *sync.Mutex
}

func NewRoomLocks() *RoomLocks {
	return &RoomLocks{}
}

// Lock acquires the mutex of the given room, creating it on first use, and
// returns the matching unlock.
func (that *RoomLocks) Lock(roomID string) func() {
	value, _ := that.locks.LoadOrStore(roomID, &sync.Mutex{})

	mutex, ok := value.(*sync.Mutex)
	if !ok {
		panic("room lock registry holds a non-mutex value")
	}

	mutex.Lock()

	return mutex.Unlock
}

// Forget drops the lock entry of a room that will not be used again.
func (that *RoomLocks) Forget(roomID string) {
	that.locks.Delete(roomID)
}
