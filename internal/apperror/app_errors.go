package apperror

import "errors"

var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrUnknownEvent   = errors.New("unknown event")
	ErrRoomIDRequired = errors.New("room id is required")
	ErrNameRequired   = errors.New("player name is required")
	ErrAlreadyInRoom  = errors.New("connection already joined a room")
	ErrUserIDRequired = errors.New("user id is required")

	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotRoomMember  = errors.New("player is not a member of this room")

	ErrRoomFull = errors.New("room is full")

	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")

	ErrRematchNotAllowed = errors.New("rematch is only available after the game is finished")
	ErrNoRematchRequest  = errors.New("there is no rematch request to answer")
)
