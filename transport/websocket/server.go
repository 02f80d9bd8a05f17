package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
	"github.com/rocketscienceinc/gridmatch-backend/internal/pkg"
	"github.com/rocketscienceinc/gridmatch-backend/internal/service"
)

type registryService interface {
	RegisterConnection(ctx context.Context, identity service.Identity, connectionID string) (*entity.Player, error)
	UpdatePlayer(ctx context.Context, identity service.Identity, connectionID string) (*entity.Player, error)
	RemoveConnection(ctx context.Context, connectionID string) error
}

type matchmakerService interface {
	QuickPair(ctx context.Context, connectionID string) (*entity.Room, error)
	InviteFriend(ctx context.Context, requesterConnectionID, friendUUID string) error
	RespondToInvite(ctx context.Context, accepterConnectionID, roomSeed, requesterUUID string, accept bool) (*entity.Room, error)
	HandleDisconnect(ctx context.Context, connectionID string) error
}

type turnsService interface {
	SubmitMove(ctx context.Context, roomID, connectionID string, row, column int) error
}

type handlerFunc func(ctx context.Context, connectionID string, msg *Message) error

// Server accepts websocket clients and routes their event envelopes into
// the matchmaking and turn services.
type Server struct {
	logger *slog.Logger

	registry   registryService
	matchmaker matchmakerService
	turns      turnsService
	hub        *Hub

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, registry registryService, matchmaker matchmakerService, turns turnsService, hub *Hub) *Server {
	server := &Server{
		logger:     logger,
		registry:   registry,
		matchmaker: matchmaker,
		turns:      turns,
		hub:        hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers["player"] = server.handlePlayer
	server.handlers["quick_play"] = server.handleQuickPlay
	server.handlers["play_with_friend"] = server.handlePlayWithFriend
	server.handlers["match"] = server.handleMatch

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection upgrades one client and pumps its messages until the
// socket closes.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	connectionID := pkg.GeneratePlayerID()
	that.hub.Register(connectionID, conn)

	log.Info("websocket connection established", "connectionID", connectionID)

	defer func() {
		that.hub.Unregister(connectionID)

		// Withdraw any room still waiting on this player before the
		// connection binding disappears.
		if err = that.matchmaker.HandleDisconnect(ctx, connectionID); err != nil {
			log.Error("failed to clean up after disconnect", "connectionID", connectionID, "error", err)
		}

		if err = that.registry.RemoveConnection(ctx, connectionID); err != nil {
			log.Error("failed to remove connection", "connectionID", connectionID, "error", err)
		}
	}()

	for {
		_, frame, readErr := conn.ReadMessage()
		if readErr != nil {
			log.Info("connection closed", "connectionID", connectionID, "error", readErr)
			return
		}

		var message Message
		if err = json.Unmarshal(frame, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Event]
		if !ok {
			log.Error("unknown event", "event", message.Event)
			continue
		}

		if err = handler(ctx, connectionID, &message); err != nil {
			that.reportError(connectionID, err)
		}
	}
}
