package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const maxMessageSize = 4096

// Client is one websocket connection. Only the hub writes to send and closes it.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump forwards frames to the hub until the connection drops.
func (that *Client) readPump() {
	log := that.hub.logger.With("method", "readPump", "connID", that.id)

	defer func() {
		that.hub.leave(that)
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)

	if err := that.conn.SetReadDeadline(time.Now().Add(that.hub.conf.PongWait)); err != nil {
		log.Error("failed to set read deadline", "error", err)
	}

	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(that.hub.conf.PongWait))
	})

	for {
		messageType, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", "error", err)
			}

			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		if !that.hub.dispatch(inbound{client: that, data: data}) {
			return
		}
	}
}

// writePump drains send and keeps the connection alive with pings.
func (that *Client) writePump() {
	log := that.hub.logger.With("method", "writePump", "connID", that.id)

	ticker := time.NewTicker(that.hub.conf.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			if err := that.conn.SetWriteDeadline(time.Now().Add(that.hub.conf.WriteWait)); err != nil {
				log.Error("failed to set write deadline", "error", err)
			}

			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := that.conn.SetWriteDeadline(time.Now().Add(that.hub.conf.WriteWait)); err != nil {
				log.Error("failed to set write deadline", "error", err)
			}

			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
