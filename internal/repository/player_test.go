package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridmatch-backend/internal/apperror"
	"github.com/rocketscienceinc/gridmatch-backend/internal/entity"
	"github.com/rocketscienceinc/gridmatch-backend/testing/suite"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player bound to a connection
	player := &entity.Player{
		ID:           "player-1",
		UUID:         "uuid-1",
		ConnectionID: "conn-1",
		DisplayName:  "Alex",
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned, and all lookups resolve the player
	require.NoError(t, err)

	byID, err := playerRepo.GetByID(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, player, byID)

	byUUID, err := playerRepo.GetByUUID(ctx, "uuid-1")
	require.NoError(t, err)
	assert.Equal(t, player, byUUID)

	byConn, err := playerRepo.GetByConnectionID(ctx, "conn-1")
	require.NoError(t, err)
	assert.Equal(t, player, byConn)
}

func TestPlayerRepository_GetByID_NotFound(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// When: GetByID is called with a non-existent ID
	player, err := playerRepo.GetByID(ctx, "player-ghost")

	// Then: ErrPlayerNotFound should be returned
	require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
	assert.Nil(t, player)
}

func TestPlayerRepository_DeleteConnectionBinding(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a stored player with a live connection
	player := &entity.Player{ID: "player-1", UUID: "uuid-1", ConnectionID: "conn-1"}
	require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

	// When: the connection binding is deleted
	require.NoError(t, playerRepo.DeleteConnectionBinding(ctx, "conn-1"))

	// Then: the connection no longer resolves, but the player record survives
	_, err := playerRepo.GetByConnectionID(ctx, "conn-1")
	require.ErrorIs(t, err, apperror.ErrPlayerNotFound)

	survivor, err := playerRepo.GetByID(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, "player-1", survivor.ID)
}

func TestPlayerRepository_ReconnectRebindsConnection(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player originally on conn-old
	player := &entity.Player{ID: "player-1", UUID: "uuid-1", ConnectionID: "conn-old"}
	require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

	// When: the player reconnects on conn-new
	player.ConnectionID = "conn-new"
	require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

	// Then: the new connection resolves to the same player
	byConn, err := playerRepo.GetByConnectionID(ctx, "conn-new")
	require.NoError(t, err)
	assert.Equal(t, "player-1", byConn.ID)
}
