package pkg

import "github.com/google/uuid"

// GenerateRoomID - generates a new unique room identifier.
func GenerateRoomID() string {
	return uuid.NewString()
}

// GeneratePlayerID - generates a new unique player identifier.
func GeneratePlayerID() string {
	return uuid.NewString()
}
