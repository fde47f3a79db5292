package usecase

import "github.com/rocketscienceinc/tictactoe-rooms/internal/entity"

type IntentKind int

const (
	// IntentEmit sends to a single connection.
	IntentEmit IntentKind = iota + 1
	// IntentBroadcast sends to every connection in a room group.
	IntentBroadcast
	IntentJoinGroup
	IntentLeaveGroup
)

// Intent is one thing the transport has to do on behalf of a handler.
type Intent struct {
	Kind    IntentKind
	ConnID  string
	RoomID  string
	Event   string
	Payload any
}

// Outcome is the full result of handling one inbound event. Intents are applied in order;
// Wins are reported only after every intent has been delivered.
type Outcome struct {
	Intents []Intent
	Wins    []entity.WinRecord
	Err     error
}

func (that *Outcome) emit(connID, event string, payload any) {
	that.Intents = append(that.Intents, Intent{Kind: IntentEmit, ConnID: connID, Event: event, Payload: payload})
}

func (that *Outcome) broadcast(roomID, event string, payload any) {
	that.Intents = append(that.Intents, Intent{Kind: IntentBroadcast, RoomID: roomID, Event: event, Payload: payload})
}

func (that *Outcome) joinGroup(connID, roomID string) {
	that.Intents = append(that.Intents, Intent{Kind: IntentJoinGroup, ConnID: connID, RoomID: roomID})
}

func (that *Outcome) leaveGroup(connID, roomID string) {
	that.Intents = append(that.Intents, Intent{Kind: IntentLeaveGroup, ConnID: connID, RoomID: roomID})
}
