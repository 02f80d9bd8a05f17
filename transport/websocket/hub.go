package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 32

// connection is one live websocket client with an asynchronous send queue,
// so a slow reader never blocks a broadcast.
type connection struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (that *connection) close() {
	that.closeOnce.Do(func() {
		close(that.send)
	})
}

// writePump drains the send queue onto the wire; it exits when the queue
// closes and tears the socket down.
func (that *connection) writePump() {
	defer that.conn.Close()

	for frame := range that.send {
		if err := that.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}

	_ = that.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Hub tracks live connections and their channel memberships and implements
// the emit contract the services publish through. A channel id is either a
// room id or a player uuid (the private identity channel).
type Hub struct {
	logger *slog.Logger

	mu          sync.RWMutex
	connections map[string]*connection         // connectionID -> connection
	channels    map[string]map[string]struct{} // channelID -> connectionIDs
	memberships map[string]map[string]struct{} // connectionID -> channelIDs
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:      logger,
		connections: make(map[string]*connection),
		channels:    make(map[string]map[string]struct{}),
		memberships: make(map[string]map[string]struct{}),
	}
}

// Register starts tracking an upgraded socket under the given connection id.
func (that *Hub) Register(connectionID string, conn *websocket.Conn) *connection {
	client := &connection{
		id:   connectionID,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	that.mu.Lock()
	that.connections[connectionID] = client
	that.memberships[connectionID] = make(map[string]struct{})
	that.mu.Unlock()

	go client.writePump()

	return client
}

// Unregister drops a connection and all its channel memberships.
func (that *Hub) Unregister(connectionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	client, ok := that.connections[connectionID]
	if !ok {
		return
	}

	for channelID := range that.memberships[connectionID] {
		delete(that.channels[channelID], connectionID)
		if len(that.channels[channelID]) == 0 {
			delete(that.channels, channelID)
		}
	}

	delete(that.memberships, connectionID)
	delete(that.connections, connectionID)

	client.close()
}

func (that *Hub) JoinChannel(connectionID, channelID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.connections[connectionID]; !ok {
		return
	}

	if that.channels[channelID] == nil {
		that.channels[channelID] = make(map[string]struct{})
	}

	that.channels[channelID][connectionID] = struct{}{}
	that.memberships[connectionID][channelID] = struct{}{}
}

func (that *Hub) LeaveChannel(connectionID, channelID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.channels[channelID], connectionID)
	if len(that.channels[channelID]) == 0 {
		delete(that.channels, channelID)
	}

	if members, ok := that.memberships[connectionID]; ok {
		delete(members, channelID)
	}
}

// EmitToRoom broadcasts an event to every connection in the channel.
func (that *Hub) EmitToRoom(channelID, event, action string, payload any) error {
	frame, err := marshalMessage(event, action, payload)
	if err != nil {
		return err
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for connectionID := range that.channels[channelID] {
		that.deliver(connectionID, frame)
	}

	return nil
}

// EmitToConnection addresses an event at a single connection.
func (that *Hub) EmitToConnection(connectionID, event, action string, payload any) error {
	frame, err := marshalMessage(event, action, payload)
	if err != nil {
		return err
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	if _, ok := that.connections[connectionID]; !ok {
		return fmt.Errorf("connection %s is not registered", connectionID)
	}

	that.deliver(connectionID, frame)

	return nil
}

// deliver enqueues a frame, dropping it when the client's queue is full
// rather than stalling the whole broadcast. Callers hold at least the read
// lock.
func (that *Hub) deliver(connectionID string, frame []byte) {
	client, ok := that.connections[connectionID]
	if !ok {
		return
	}

	select {
	case client.send <- frame:
	default:
		that.logger.Warn("send queue full, dropping frame", "connectionID", connectionID)
	}
}

func marshalMessage(event, action string, payload any) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	frame, err := json.Marshal(Message{
		Event:   event,
		Action:  action,
		Payload: payloadJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	return frame, nil
}
