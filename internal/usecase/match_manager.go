package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type roomRepo interface {
	Create() string
	Exists(id string) bool
	Get(id string) (*entity.Room, error)

	AddPlayer(roomID string, player *entity.Player) (*entity.Room, error)
	RemovePlayer(connID, roomID string) (*entity.Player, error)
	DeleteIfEmpty(roomID string) bool

	FindRoomOfConnection(connID string) (*entity.Room, error)
}

// MatchManager reacts to client events and decides what to send to whom.
// Handlers never block and never do I/O; the caller must serialize calls.
type MatchManager struct {
	logger *slog.Logger
	rooms  roomRepo

	// connID -> last room it created, reaped on the next create or on disconnect if nobody joined it
	created map[string]string
}

func NewMatchManager(logger *slog.Logger, rooms roomRepo) *MatchManager {
	return &MatchManager{
		logger:  logger,
		rooms:   rooms,
		created: make(map[string]string),
	}
}

func (that *MatchManager) CreateGame(connID string) Outcome {
	log := that.logger.With("method", "CreateGame", "connID", connID)

	var out Outcome

	that.reapCreated(connID)

	roomID := that.rooms.Create()
	that.created[connID] = roomID
	out.emit(connID, EventRoomCreated, roomID)

	log.Info("room created", "roomID", roomID)

	return out
}

// JoinGame checks that a room can be joined without touching it.
func (that *MatchManager) JoinGame(connID, roomID string) Outcome {
	var out Outcome

	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return that.rejectJoin(out, connID, apperror.ErrRoomIDRequired)
	}

	room, err := that.rooms.Get(roomID)
	if err != nil {
		return that.rejectJoin(out, connID, err)
	}

	if seated, err := that.rooms.FindRoomOfConnection(connID); err == nil && seated.ID != roomID {
		return that.rejectJoin(out, connID, fmt.Errorf("%w: %s", apperror.ErrAlreadyInRoom, seated.ID))
	}

	if room.IsFull() && room.PlayerByConn(connID) == nil {
		return that.rejectJoin(out, connID, apperror.ErrRoomFull)
	}

	out.emit(connID, EventJoinConfirmed, roomID)

	return out
}

func (that *MatchManager) NewRoomJoin(connID string, req JoinRequest) Outcome {
	log := that.logger.With("method", "NewRoomJoin", "connID", connID, "roomID", req.RoomID)

	var out Outcome

	roomID := strings.TrimSpace(req.RoomID)
	name := strings.TrimSpace(req.Name)

	switch {
	case roomID == "":
		return that.rejectJoin(out, connID, apperror.ErrRoomIDRequired)
	case name == "":
		return that.rejectJoin(out, connID, apperror.ErrNameRequired)
	case req.Wins < 0:
		return that.rejectJoin(out, connID, fmt.Errorf("%w: negative wins", apperror.ErrInvalidPayload))
	}

	player := &entity.Player{
		ConnID: connID,
		UserID: req.UserID,
		Name:   name,
		Wins:   req.Wins,
	}

	room, err := that.rooms.AddPlayer(roomID, player)
	if errors.Is(err, apperror.ErrRoomFull) {
		out = that.rejectJoin(out, connID, err)
		out.leaveGroup(connID, roomID)

		return out
	}

	if err != nil {
		return that.rejectJoin(out, connID, err)
	}

	out.joinGroup(connID, roomID)

	if !room.IsFull() {
		out.broadcast(roomID, EventWaiting, nil)
		log.Info("player is waiting for an opponent")

		return out
	}

	room.Start()
	for _, seated := range room.Players {
		out.emit(seated.ConnID, EventTokenAssignment, TokenPayload{Token: seated.Token})
	}

	out.broadcast(roomID, EventStarting, StartingPayload{
		Board:     room.Game.Board,
		FirstTurn: room.Game.Turn,
		Players:   playerViews(room),
	})

	log.Info("game started")

	return out
}

// PlayerMove accepts a move only if it is the mover's turn, the cell is free and the
// game is not over, checked in that order.
func (that *MatchManager) PlayerMove(connID string, req MoveRequest) Outcome {
	log := that.logger.With("method", "PlayerMove", "connID", connID)

	var out Outcome

	room, player, err := that.memberRoom(connID, req.RoomID)
	if err != nil {
		return that.reject(out, connID, EventPlayerMove, err)
	}

	log = log.With("roomID", room.ID)

	game := room.Game
	if game == nil {
		return that.reject(out, connID, EventPlayerMove, apperror.ErrGameIsNotStarted)
	}

	if player.Token != game.Turn || (req.Token != "" && req.Token != player.Token) {
		return that.reject(out, connID, EventPlayerMove, apperror.ErrNotYourTurn)
	}

	if !game.IsValidCell(req.Position) {
		return that.reject(out, connID, EventPlayerMove, fmt.Errorf("%w: %d", apperror.ErrInvalidCell, req.Position))
	}

	if !game.IsCellFree(req.Position) {
		return that.reject(out, connID, EventPlayerMove, apperror.ErrCellOccupied)
	}

	if !room.IsOngoing() || !game.ApplyMove(req.Position, player.Token) {
		return that.reject(out, connID, EventPlayerMove, apperror.ErrGameFinished)
	}

	if winnerToken := game.EvaluateWinner(); winnerToken != entity.EmptyCell {
		room.Status = entity.StatusFinished

		// the winner is resolved from the room as it is now, not from an earlier snapshot
		if winner := room.PlayerByToken(winnerToken); winner != nil {
			winner.Wins++
			if winner.UserID != "" {
				out.Wins = append(out.Wins, entity.WinRecord{UserID: winner.UserID, Name: winner.Name, RoomID: room.ID})
			}
		}

		out.broadcast(room.ID, EventWinner, WinnerPayload{
			Board:       game.Board,
			WinnerToken: winnerToken,
			Players:     playerViews(room),
		})

		log.Info("game won", "token", winnerToken)

		return out
	}

	if game.IsDraw() {
		room.Status = entity.StatusFinished
		out.broadcast(room.ID, EventDraw, DrawPayload{Board: game.Board, MovesLeft: game.MovesLeft})

		log.Info("game ended in a draw")

		return out
	}

	game.SwitchTurn()
	out.broadcast(room.ID, EventUpdateBoard, BoardPayload{
		Board:     game.Board,
		NextTurn:  game.Turn,
		MovesLeft: game.MovesLeft,
		Players:   playerViews(room),
	})

	return out
}

func (that *MatchManager) RematchRequest(connID string, req RematchRequest) Outcome {
	log := that.logger.With("method", "RematchRequest", "connID", connID)

	var out Outcome

	room, player, err := that.memberRoom(connID, req.RoomID)
	if err != nil {
		return that.reject(out, connID, EventRematchRequest, err)
	}

	opponent := room.Opponent(connID)
	if !room.IsFinished() || opponent == nil {
		return that.reject(out, connID, EventRematchRequest, apperror.ErrRematchNotAllowed)
	}

	// both sides asked: that is an agreement
	if room.RematchRequestedBy == opponent.ConnID {
		return that.restart(out, room, player)
	}

	room.RematchRequestedBy = connID
	out.emit(opponent.ConnID, EventRematchRequestFromOpponent, player.Name)

	log.Info("rematch requested", "roomID", room.ID)

	return out
}

func (that *MatchManager) RematchDecline(connID string, req RematchRequest) Outcome {
	var out Outcome

	room, player, err := that.memberRoom(connID, req.RoomID)
	if err != nil {
		return that.reject(out, connID, EventRematchDecline, err)
	}

	if !room.IsFinished() {
		return that.reject(out, connID, EventRematchDecline, apperror.ErrRematchNotAllowed)
	}

	room.RematchRequestedBy = ""
	out.broadcast(room.ID, EventRematchRequestDeclined, player.Name)

	return out
}

func (that *MatchManager) RematchConfirm(connID string, req RematchRequest) Outcome {
	var out Outcome

	room, player, err := that.memberRoom(connID, req.RoomID)
	if err != nil {
		return that.reject(out, connID, EventRematchConfirm, err)
	}

	if !room.IsFinished() {
		return that.reject(out, connID, EventRematchConfirm, apperror.ErrRematchNotAllowed)
	}

	if room.RematchRequestedBy == "" || room.RematchRequestedBy == connID {
		return that.reject(out, connID, EventRematchConfirm, apperror.ErrNoRematchRequest)
	}

	return that.restart(out, room, player)
}

// RematchAcknowledged re-sends the fresh board to a client that finished its restart handshake.
func (that *MatchManager) RematchAcknowledged(connID, roomID string) Outcome {
	var out Outcome

	room, _, err := that.memberRoom(connID, roomID)
	if err != nil {
		return that.reject(out, connID, EventRematchAcknowledged, err)
	}

	if !room.IsOngoing() || room.Game.MovesLeft != entity.BoardSize {
		return out
	}

	out.emit(connID, EventRestartGame, restartPayload(room))

	return out
}

func (that *MatchManager) RoomLeave(connID, roomID string) Outcome {
	log := that.logger.With("method", "RoomLeave", "connID", connID)

	var out Outcome

	room, _, err := that.memberRoom(connID, roomID)
	if err != nil {
		log.Info("leave ignored", "error", err)

		if roomID = strings.TrimSpace(roomID); roomID != "" {
			out.leaveGroup(connID, roomID)
		}

		return out
	}

	return that.removeFromRoom(out, room, connID)
}

// Disconnect cleans up after a dropped connection. Connections that never joined are a no-op.
func (that *MatchManager) Disconnect(connID string) Outcome {
	var out Outcome

	if room, err := that.rooms.FindRoomOfConnection(connID); err == nil {
		out = that.removeFromRoom(out, room, connID)
	}

	that.reapCreated(connID)

	return out
}

// reapCreated deletes the last room connID created if nobody is in it.
func (that *MatchManager) reapCreated(connID string) {
	roomID, ok := that.created[connID]
	if !ok {
		return
	}

	delete(that.created, connID)

	if that.rooms.DeleteIfEmpty(roomID) {
		that.logger.Info("unused room deleted", "method", "reapCreated", "connID", connID, "roomID", roomID)
	}
}

func (that *MatchManager) removeFromRoom(out Outcome, room *entity.Room, connID string) Outcome {
	log := that.logger.With("method", "removeFromRoom", "connID", connID, "roomID", room.ID)

	out.leaveGroup(connID, room.ID)

	if _, err := that.rooms.RemovePlayer(connID, room.ID); err != nil {
		log.Error("failed to remove player", "error", err)
		out.Err = err

		return out
	}

	if that.rooms.DeleteIfEmpty(room.ID) {
		log.Info("room deleted")

		return out
	}

	room.Suspend()
	out.broadcast(room.ID, EventWaiting, nil)

	log.Info("player left, opponent is waiting")

	return out
}

func (that *MatchManager) restart(out Outcome, room *entity.Room, confirmedBy *entity.Player) Outcome {
	room.Start()

	for _, seated := range room.Players {
		out.emit(seated.ConnID, EventTokenAssignment, TokenPayload{Token: seated.Token})
	}

	out.broadcast(room.ID, EventRematchConfirmed, RematchConfirmedPayload{RoomID: room.ID, Name: confirmedBy.Name})
	out.broadcast(room.ID, EventRestartGame, restartPayload(room))

	that.logger.Info("game restarted", "method", "restart", "roomID", room.ID)

	return out
}

// memberRoom resolves the room of connID, checking it against the room id the client sent.
func (that *MatchManager) memberRoom(connID, roomID string) (*entity.Room, *entity.Player, error) {
	var (
		room *entity.Room
		err  error
	)

	if roomID = strings.TrimSpace(roomID); roomID != "" {
		room, err = that.rooms.Get(roomID)
	} else {
		room, err = that.rooms.FindRoomOfConnection(connID)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to find room: %w", err)
	}

	player := room.PlayerByConn(connID)
	if player == nil {
		return nil, nil, fmt.Errorf("%w: %s", apperror.ErrNotRoomMember, room.ID)
	}

	return room, player, nil
}

func (that *MatchManager) rejectJoin(out Outcome, connID string, err error) Outcome {
	that.logger.Info("join rejected", "connID", connID, "kind", apperror.Kind(err), "error", err)

	out.Err = err
	out.emit(connID, EventJoinError, err.Error())

	return out
}

func (that *MatchManager) reject(out Outcome, connID, event string, err error) Outcome {
	that.logger.Info("event rejected", "connID", connID, "event", event, "kind", apperror.Kind(err), "error", err)

	out.Err = err
	out.emit(connID, EventGameError, ErrorPayload{Event: event, Message: err.Error()})

	return out
}

func restartPayload(room *entity.Room) RestartPayload {
	return RestartPayload{
		Board:     room.Game.Board,
		FirstTurn: room.Game.Turn,
		MovesLeft: room.Game.MovesLeft,
		Players:   playerViews(room),
	}
}
