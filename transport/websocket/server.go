package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/config"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger   *slog.Logger
	hub      *Hub
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, manager matchManager, rooms roomCounter, reporter scoreReporter, conf config.Socket) *Server {
	return &Server{
		logger: logger,
		hub:    NewHub(logger, manager, rooms, reporter, conf),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// Start - runs the hub and serves websocket upgrades on /ws until ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	log := that.logger.With("method", "Start")

	go that.hub.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down websocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.ServeWS)

	return mux
}

// ServeWS - upgrades the request and attaches the connection to the hub.
func (that *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("failed to upgrade connection", "error", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  that.hub,
		conn: conn,
		send: make(chan []byte, that.hub.conf.SendBuffer),
	}

	if !that.hub.join(client) {
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	log.Info("websocket connection established", "connID", client.id)
}

func (that *Server) Connections() int {
	return that.hub.Connections()
}

func (that *Server) Rooms() int {
	return that.hub.Rooms()
}
