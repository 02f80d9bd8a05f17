package service

// Emitter is the only surface of the real-time transport the services see.
// A channel is any broadcast group: a room id for seated players, or a
// player uuid for that player's private identity channel.
type Emitter interface {
	EmitToRoom(channelID, event, action string, payload any) error
	EmitToConnection(connectionID, event, action string, payload any) error
	JoinChannel(connectionID, channelID string)
	LeaveChannel(connectionID, channelID string)
}
