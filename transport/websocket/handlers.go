package websocket

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

type movePayload struct {
	RoomID   string `json:"roomId"`
	Token    string `json:"token"`
	Position *int   `json:"position"`
}

func (that *Hub) handleCreateGame(connID string, _ json.RawMessage) (usecase.Outcome, error) {
	return that.manager.CreateGame(connID), nil
}

func (that *Hub) handleJoinGame(connID string, payload json.RawMessage) (usecase.Outcome, error) {
	roomID, err := decodeRoomID(payload)
	if err != nil {
		return usecase.Outcome{}, err
	}

	return that.manager.JoinGame(connID, roomID), nil
}

func (that *Hub) handleNewRoomJoin(connID string, payload json.RawMessage) (usecase.Outcome, error) {
	var req usecase.JoinRequest
	if err := decodePayload(payload, &req); err != nil {
		return usecase.Outcome{}, err
	}

	return that.manager.NewRoomJoin(connID, req), nil
}

func (that *Hub) handlePlayerMove(connID string, payload json.RawMessage) (usecase.Outcome, error) {
	var move movePayload
	if err := decodePayload(payload, &move); err != nil {
		return usecase.Outcome{}, err
	}

	if move.Position == nil {
		return usecase.Outcome{}, fmt.Errorf("%w: position is missing", apperror.ErrInvalidPayload)
	}

	return that.manager.PlayerMove(connID, usecase.MoveRequest{
		RoomID:   move.RoomID,
		Token:    move.Token,
		Position: *move.Position,
	}), nil
}

func (that *Hub) handleRematchRequest(connID string, payload json.RawMessage) (usecase.Outcome, error) {
	req, err := decodeRematch(payload)
	if err != nil {
		return usecase.Outcome{}, err
	}

	return that.manager.RematchRequest(connID, req), nil
}

func (that *Hub) handleRematchDecline(connID string, payload json.RawMessage) (usecase.Outcome, error) {
	req, err := decodeRematch(payload)
	if err != nil {
		return usecase.Outcome{}, err
	}

	return that.manager.RematchDecline(connID, req), nil
}

func (that *Hub) handleRematchConfirm(connID string, payload json.RawMessage) (usecase.Outcome, error) {
	req, err := decodeRematch(payload)
	if err != nil {
		return usecase.Outcome{}, err
	}

	return that.manager.RematchConfirm(connID, req), nil
}

func (that *Hub) handleRematchAcknowledged(connID string, payload json.RawMessage) (usecase.Outcome, error) {
	roomID, err := decodeRoomID(payload)
	if err != nil {
		return usecase.Outcome{}, err
	}

	return that.manager.RematchAcknowledged(connID, roomID), nil
}

func (that *Hub) handleRoomLeave(connID string, payload json.RawMessage) (usecase.Outcome, error) {
	roomID, err := decodeRoomID(payload)
	if err != nil {
		return usecase.Outcome{}, err
	}

	return that.manager.RoomLeave(connID, roomID), nil
}

// decodeRematch accepts the full {roomId, name} object or just the room id.
func decodeRematch(payload json.RawMessage) (usecase.RematchRequest, error) {
	var req usecase.RematchRequest

	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" || trimmed == "null" || strings.HasPrefix(trimmed, `"`) {
		roomID, err := decodeRoomID(payload)
		req.RoomID = roomID

		return req, err
	}

	if err := decodePayload(payload, &req); err != nil {
		return req, err
	}

	return req, nil
}
