package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFullRoom() *Room {
	room := NewRoom("room-1")
	room.Players = append(room.Players,
		&Player{ConnID: "c1", Name: "alice"},
		&Player{ConnID: "c2", Name: "bob"},
	)

	return room
}

func TestRoom_Start(t *testing.T) {
	t.Run("Creates a game and hands out distinct tokens", func(t *testing.T) {
		// Given: a full waiting room
		room := newFullRoom()

		// When: the room starts
		room.Start()

		// Then: the game is fresh and both marks are taken once
		require.NotNil(t, room.Game)
		assert.Equal(t, NewGame(), room.Game)
		assert.Equal(t, StatusOngoing, room.Status)
		assert.True(t, IsMark(room.Players[0].Token))
		assert.Equal(t, OppositeMark(room.Players[0].Token), room.Players[1].Token)
	})

	t.Run("Reuses the existing game on restart", func(t *testing.T) {
		// Given: a finished room with a pending rematch
		room := newFullRoom()
		room.Start()
		game := room.Game
		game.ApplyMove(0, PlayerX)
		room.Status = StatusFinished
		room.RematchRequestedBy = "c1"

		// When: the room starts again
		room.Start()

		// Then: the same engine is reset in place
		assert.Same(t, game, room.Game)
		assert.Equal(t, BoardSize, room.Game.MovesLeft)
		assert.Empty(t, room.RematchRequestedBy)
	})
}

func TestRoom_Suspend(t *testing.T) {
	// Given: a running room that lost a player
	room := newFullRoom()
	room.Start()
	room.Players = room.Players[:1]

	// When: suspending
	room.Suspend()

	// Then: the game is gone and the remaining token is cleared
	assert.Nil(t, room.Game)
	assert.Equal(t, StatusWaiting, room.Status)
	assert.Empty(t, room.Players[0].Token)
}

func TestRoom_Lookups(t *testing.T) {
	room := newFullRoom()
	room.Players[0].Token = PlayerO
	room.Players[1].Token = PlayerX

	assert.Equal(t, "alice", room.PlayerByConn("c1").Name)
	assert.Nil(t, room.PlayerByConn("c3"))
	assert.Equal(t, "bob", room.Opponent("c1").Name)
	assert.Equal(t, "bob", room.PlayerByToken(PlayerX).Name)
	assert.Nil(t, room.PlayerByToken(EmptyCell))
	assert.True(t, room.IsFull())
}
