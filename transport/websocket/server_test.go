package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/usecase"
)

const readTimeout = 5 * time.Second

type recordingReporter struct {
	wins chan entity.WinRecord
}

func (that *recordingReporter) Report(record entity.WinRecord) {
	that.wins <- record
}

func newTestServer(t *testing.T) (*Server, *httptest.Server, *recordingReporter) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rooms := repository.NewRoomRepository()
	reporter := &recordingReporter{wins: make(chan entity.WinRecord, 8)}

	server := New(logger, usecase.NewMatchManager(logger, rooms), rooms, reporter, config.Socket{
		SendBuffer: 32,
		PingPeriod: time.Second,
		PongWait:   2 * time.Second,
		WriteWait:  time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go server.hub.Run(ctx)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return server, ts, reporter
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()

	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	data, err := encode(action, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

// readUntil skips frames until one with the given action arrives.
func readUntil(t *testing.T, conn *websocket.Conn, action string) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))

	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", action)

		var message Message
		require.NoError(t, json.Unmarshal(data, &message))

		if message.Action == action {
			return message
		}
	}
}

func payloadOf[T any](t *testing.T, message Message) T {
	t.Helper()

	var payload T
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return payload
}

// startMatch seats two clients and returns them as the X and O connections.
func startMatch(t *testing.T, ts *httptest.Server) (string, *websocket.Conn, *websocket.Conn) {
	t.Helper()

	alice := dial(t, ts)
	bob := dial(t, ts)

	send(t, alice, usecase.EventCreateGame, nil)
	roomID := payloadOf[string](t, readUntil(t, alice, usecase.EventRoomCreated))
	require.NotEmpty(t, roomID)

	send(t, alice, usecase.EventNewRoomJoin, usecase.JoinRequest{RoomID: roomID, UserID: "u-alice", Name: "alice"})
	readUntil(t, alice, usecase.EventWaiting)

	send(t, bob, usecase.EventNewRoomJoin, usecase.JoinRequest{RoomID: roomID, UserID: "u-bob", Name: "bob"})

	aliceToken := payloadOf[usecase.TokenPayload](t, readUntil(t, alice, usecase.EventTokenAssignment)).Token
	readUntil(t, bob, usecase.EventTokenAssignment)

	for _, conn := range []*websocket.Conn{alice, bob} {
		starting := payloadOf[usecase.StartingPayload](t, readUntil(t, conn, usecase.EventStarting))
		require.Equal(t, entity.StartingMark, starting.FirstTurn)
	}

	if aliceToken == entity.PlayerX {
		return roomID, alice, bob
	}

	return roomID, bob, alice
}

func TestServer_Match(t *testing.T) {
	_, ts, reporter := newTestServer(t)
	roomID, xConn, oConn := startMatch(t, ts)

	// When: X takes the top row while O plays the middle row
	moves := []struct {
		conn *websocket.Conn
		cell int
	}{
		{xConn, 0}, {oConn, 3}, {xConn, 1}, {oConn, 4},
	}

	for _, move := range moves {
		send(t, move.conn, usecase.EventPlayerMove, map[string]any{"roomId": roomID, "position": move.cell})

		for _, conn := range []*websocket.Conn{xConn, oConn} {
			readUntil(t, conn, usecase.EventUpdateBoard)
		}
	}

	send(t, xConn, usecase.EventPlayerMove, map[string]any{"roomId": roomID, "position": 2})

	// Then: both players see X win
	for _, conn := range []*websocket.Conn{xConn, oConn} {
		winner := payloadOf[usecase.WinnerPayload](t, readUntil(t, conn, usecase.EventWinner))
		assert.Equal(t, entity.PlayerX, winner.WinnerToken)
	}

	// And: the win is reported once the messages are out
	select {
	case record := <-reporter.wins:
		assert.Equal(t, roomID, record.RoomID)
		assert.NotEmpty(t, record.UserID)
	case <-time.After(readTimeout):
		t.Fatal("win was not reported")
	}

	// When: both agree on a rematch
	send(t, oConn, usecase.EventRematchRequest, map[string]any{"roomId": roomID, "name": "o"})
	readUntil(t, xConn, usecase.EventRematchRequestFromOpponent)

	send(t, xConn, usecase.EventRematchConfirm, roomID)

	// Then: both get a fresh board
	for _, conn := range []*websocket.Conn{xConn, oConn} {
		restart := payloadOf[usecase.RestartPayload](t, readUntil(t, conn, usecase.EventRestartGame))
		assert.Equal(t, entity.BoardSize, restart.MovesLeft)
	}
}

func TestServer_Rejections(t *testing.T) {
	_, ts, _ := newTestServer(t)

	t.Run("Unknown action", func(t *testing.T) {
		conn := dial(t, ts)

		send(t, conn, "fly", nil)

		payload := payloadOf[usecase.ErrorPayload](t, readUntil(t, conn, usecase.EventGameError))
		assert.Equal(t, "fly", payload.Event)
	})

	t.Run("Garbage frame", func(t *testing.T) {
		conn := dial(t, ts)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

		readUntil(t, conn, usecase.EventGameError)
	})

	t.Run("Move without a position", func(t *testing.T) {
		conn := dial(t, ts)

		send(t, conn, usecase.EventPlayerMove, map[string]any{"roomId": "r"})

		payload := payloadOf[usecase.ErrorPayload](t, readUntil(t, conn, usecase.EventGameError))
		assert.Equal(t, usecase.EventPlayerMove, payload.Event)
	})

	t.Run("Third player", func(t *testing.T) {
		roomID, _, _ := startMatch(t, ts)
		carol := dial(t, ts)

		send(t, carol, usecase.EventNewRoomJoin, usecase.JoinRequest{RoomID: roomID, Name: "carol"})

		message := payloadOf[string](t, readUntil(t, carol, usecase.EventJoinError))
		assert.Contains(t, message, "room is full")
	})
}

func TestServer_Disconnect(t *testing.T) {
	server, ts, _ := newTestServer(t)
	_, xConn, oConn := startMatch(t, ts)

	require.Eventually(t, func() bool {
		return server.Connections() == 2 && server.Rooms() == 1
	}, readTimeout, 10*time.Millisecond)

	// When: O drops
	require.NoError(t, oConn.Close())

	// Then: X is put back to waiting and the connection count follows
	readUntil(t, xConn, usecase.EventWaiting)

	assert.Eventually(t, func() bool {
		return server.Connections() == 1
	}, readTimeout, 10*time.Millisecond)
	assert.Equal(t, 1, server.Rooms())
}

func TestDecodeRoomID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"bare string", `"room-1"`, "room-1", false},
		{"object", `{"roomId":"room-1"}`, "room-1", false},
		{"missing", ``, "", false},
		{"null", `null`, "", false},
		{"number", `42`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeRoomID(json.RawMessage(tt.raw))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
