package repository

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

// RoomRepository is the single in-memory authority over active rooms.
// It is not safe for concurrent use: one event loop owns it.
type RoomRepository interface {
	Create() string
	Exists(id string) bool
	Get(id string) (*entity.Room, error)
	Count() int

	AddPlayer(roomID string, player *entity.Player) (*entity.Room, error)
	RemovePlayer(connID, roomID string) (*entity.Player, error)
	DeleteIfEmpty(roomID string) bool

	FindRoomOfConnection(connID string) (*entity.Room, error)
}

type memRoom struct {
	newID func() string

	rooms map[string]*entity.Room
	// connID -> roomID
	seats map[string]string
}

func NewRoomRepository() RoomRepository {
	return newRoomRepository(uuid.NewString)
}

func newRoomRepository(newID func() string) *memRoom {
	return &memRoom{
		newID: newID,
		rooms: make(map[string]*entity.Room),
		seats: make(map[string]string),
	}
}

func (that *memRoom) Create() string {
	id := that.newID()
	for that.Exists(id) {
		id = that.newID()
	}

	that.rooms[id] = entity.NewRoom(id)

	return id
}

func (that *memRoom) Exists(id string) bool {
	_, ok := that.rooms[id]
	return ok
}

func (that *memRoom) Get(id string) (*entity.Room, error) {
	room, ok := that.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, id)
	}

	return room, nil
}

func (that *memRoom) Count() int {
	return len(that.rooms)
}

// AddPlayer seats player unless the room is already full; a refused player is never stored.
func (that *memRoom) AddPlayer(roomID string, player *entity.Player) (*entity.Room, error) {
	room, err := that.Get(roomID)
	if err != nil {
		return nil, err
	}

	if existing, ok := that.seats[player.ConnID]; ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrAlreadyInRoom, existing)
	}

	if room.IsFull() {
		return nil, fmt.Errorf("%w: %d players", apperror.ErrRoomFull, len(room.Players))
	}

	room.Players = append(room.Players, player)
	that.seats[player.ConnID] = roomID

	return room, nil
}

func (that *memRoom) RemovePlayer(connID, roomID string) (*entity.Player, error) {
	room, err := that.Get(roomID)
	if err != nil {
		return nil, err
	}

	for i, player := range room.Players {
		if player.ConnID != connID {
			continue
		}

		room.Players = append(room.Players[:i], room.Players[i+1:]...)
		delete(that.seats, connID)

		return player, nil
	}

	return nil, fmt.Errorf("%w: connection %s in room %s", apperror.ErrPlayerNotFound, connID, roomID)
}

func (that *memRoom) DeleteIfEmpty(roomID string) bool {
	room, ok := that.rooms[roomID]
	if !ok || !room.IsEmpty() {
		return false
	}

	delete(that.rooms, roomID)

	return true
}

func (that *memRoom) FindRoomOfConnection(connID string) (*entity.Room, error) {
	roomID, ok := that.seats[connID]
	if !ok {
		return nil, fmt.Errorf("%w: connection %s", apperror.ErrPlayerNotFound, connID)
	}

	return that.Get(roomID)
}
