package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

const inboundBuffer = 256

type matchManager interface {
	CreateGame(connID string) usecase.Outcome
	JoinGame(connID, roomID string) usecase.Outcome
	NewRoomJoin(connID string, req usecase.JoinRequest) usecase.Outcome
	PlayerMove(connID string, req usecase.MoveRequest) usecase.Outcome

	RematchRequest(connID string, req usecase.RematchRequest) usecase.Outcome
	RematchDecline(connID string, req usecase.RematchRequest) usecase.Outcome
	RematchConfirm(connID string, req usecase.RematchRequest) usecase.Outcome
	RematchAcknowledged(connID, roomID string) usecase.Outcome

	RoomLeave(connID, roomID string) usecase.Outcome
	Disconnect(connID string) usecase.Outcome
}

type roomCounter interface {
	Count() int
}

type scoreReporter interface {
	Report(record entity.WinRecord)
}

type inbound struct {
	client *Client
	data   []byte
}

type handlerFunc func(connID string, payload json.RawMessage) (usecase.Outcome, error)

// Hub owns every connection and room group. All match state is touched from Run only,
// so events are handled one at a time in arrival order.
type Hub struct {
	logger   *slog.Logger
	manager  matchManager
	rooms    roomCounter
	reporter scoreReporter
	conf     config.Socket

	handlers map[string]handlerFunc

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	done       chan struct{}

	clients map[string]*Client
	groups  map[string]map[string]*Client

	connections atomic.Int64
	roomCount   atomic.Int64
}

func NewHub(logger *slog.Logger, manager matchManager, rooms roomCounter, reporter scoreReporter, conf config.Socket) *Hub {
	hub := &Hub{
		logger:   logger,
		manager:  manager,
		rooms:    rooms,
		reporter: reporter,
		conf:     conf,

		handlers: make(map[string]handlerFunc),

		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound, inboundBuffer),
		done:       make(chan struct{}),

		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]*Client),
	}

	hub.handlers[usecase.EventCreateGame] = hub.handleCreateGame
	hub.handlers[usecase.EventJoinGame] = hub.handleJoinGame
	hub.handlers[usecase.EventNewRoomJoin] = hub.handleNewRoomJoin
	hub.handlers[usecase.EventPlayerMove] = hub.handlePlayerMove
	hub.handlers[usecase.EventRematchRequest] = hub.handleRematchRequest
	hub.handlers[usecase.EventRematchDecline] = hub.handleRematchDecline
	hub.handlers[usecase.EventRematchConfirm] = hub.handleRematchConfirm
	hub.handlers[usecase.EventRematchAcknowledged] = hub.handleRematchAcknowledged
	hub.handlers[usecase.EventRoomLeave] = hub.handleRoomLeave

	return hub
}

// Run processes events until ctx is done, then closes every connection.
func (that *Hub) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")

	defer close(that.done)

	log.Info("hub started")

	for {
		select {
		case <-ctx.Done():
			for id, client := range that.clients {
				close(client.send)
				delete(that.clients, id)
			}

			that.groups = make(map[string]map[string]*Client)
			that.refreshStats()

			log.Info("hub stopped")

			return

		case client := <-that.register:
			that.clients[client.id] = client
			log.Debug("client registered", "connID", client.id)

		case client := <-that.unregister:
			if that.evict(client) {
				log.Debug("client unregistered", "connID", client.id)
			}

		case in := <-that.inbound:
			that.handle(in)
		}

		that.refreshStats()
	}
}

func (that *Hub) Connections() int {
	return int(that.connections.Load())
}

func (that *Hub) Rooms() int {
	return int(that.roomCount.Load())
}

// join hands a new client to the hub. It reports false once the hub has stopped.
func (that *Hub) join(client *Client) bool {
	select {
	case that.register <- client:
		return true
	case <-that.done:
		return false
	}
}

func (that *Hub) leave(client *Client) {
	select {
	case that.unregister <- client:
	case <-that.done:
	}
}

func (that *Hub) dispatch(in inbound) bool {
	select {
	case that.inbound <- in:
		return true
	case <-that.done:
		return false
	}
}

func (that *Hub) handle(in inbound) {
	log := that.logger.With("method", "handle", "connID", in.client.id)

	// frames that were queued before the client went away
	if _, ok := that.clients[in.client.id]; !ok {
		return
	}

	var message Message
	if err := json.Unmarshal(in.data, &message); err != nil {
		that.deliver(rejection(in.client.id, "", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)))
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		that.deliver(rejection(in.client.id, message.Action, fmt.Errorf("%w: %q", apperror.ErrUnknownEvent, message.Action)))
		return
	}

	out, err := handler(in.client.id, message.Payload)
	if err != nil {
		out = rejection(in.client.id, message.Action, err)
	}

	if out.Err != nil {
		log.Debug("event rejected", "event", message.Action, "kind", apperror.Kind(out.Err), "error", out.Err)
	}

	that.deliver(out)
}

// deliver applies intents in order, then hands wins to the reporter.
// Clients that cannot keep up are evicted once every intent has been applied.
func (that *Hub) deliver(out usecase.Outcome) {
	var slow []*Client

	for _, intent := range out.Intents {
		switch intent.Kind {
		case usecase.IntentEmit:
			if client, ok := that.clients[intent.ConnID]; ok && !that.send(client, intent.Event, intent.Payload) {
				slow = append(slow, client)
			}

		case usecase.IntentBroadcast:
			for _, client := range that.groups[intent.RoomID] {
				if !that.send(client, intent.Event, intent.Payload) {
					slow = append(slow, client)
				}
			}

		case usecase.IntentJoinGroup:
			client, ok := that.clients[intent.ConnID]
			if !ok {
				continue
			}

			if that.groups[intent.RoomID] == nil {
				that.groups[intent.RoomID] = make(map[string]*Client)
			}
			that.groups[intent.RoomID][intent.ConnID] = client

		case usecase.IntentLeaveGroup:
			if members, ok := that.groups[intent.RoomID]; ok {
				delete(members, intent.ConnID)
				if len(members) == 0 {
					delete(that.groups, intent.RoomID)
				}
			}
		}
	}

	for _, record := range out.Wins {
		that.reporter.Report(record)
	}

	for _, client := range slow {
		if that.evict(client) {
			that.logger.Warn("send buffer is full, client evicted", "method", "deliver", "connID", client.id)
		}
	}
}

// send queues one message and reports false when the client's buffer is full.
func (that *Hub) send(client *Client, event string, payload any) bool {
	log := that.logger.With("method", "send", "connID", client.id, "event", event)

	data, err := encode(event, payload)
	if err != nil {
		log.Error("failed to encode message", "error", err)
		return true
	}

	select {
	case client.send <- data:
		return true
	default:
		return false
	}
}

// evict forgets client and runs the disconnect path for it, so its opponent is put back to waiting.
// Closing send makes the write pump hang up. It reports false for a client that is already gone.
func (that *Hub) evict(client *Client) bool {
	if _, ok := that.clients[client.id]; !ok {
		return false
	}

	delete(that.clients, client.id)
	that.dropFromGroups(client.id)
	close(client.send)

	that.deliver(that.manager.Disconnect(client.id))

	return true
}

func (that *Hub) dropFromGroups(connID string) {
	for roomID, members := range that.groups {
		delete(members, connID)
		if len(members) == 0 {
			delete(that.groups, roomID)
		}
	}
}

func (that *Hub) refreshStats() {
	that.connections.Store(int64(len(that.clients)))
	that.roomCount.Store(int64(that.rooms.Count()))
}

// rejection reports a bad frame to its sender, the same way the match manager reports bad moves.
func rejection(connID, event string, err error) usecase.Outcome {
	intent := usecase.Intent{Kind: usecase.IntentEmit, ConnID: connID}

	switch event {
	case usecase.EventNewRoomJoin, usecase.EventJoinGame:
		intent.Event = usecase.EventJoinError
		intent.Payload = err.Error()
	default:
		intent.Event = usecase.EventGameError
		intent.Payload = usecase.ErrorPayload{Event: event, Message: err.Error()}
	}

	return usecase.Outcome{Intents: []usecase.Intent{intent}, Err: err}
}
