package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	StatsHandler(w http.ResponseWriter, _ *http.Request)
}

type statsSource interface {
	Connections() int
	Rooms() int
}

type StatsResponse struct {
	Connections int `json:"connections"`
	Rooms       int `json:"rooms"`
}

type handlers struct {
	logger *slog.Logger
	stats  statsSource
}

func NewHandlers(logger *slog.Logger, stats statsSource) Handlers {
	return &handlers{
		logger: logger,
		stats:  stats,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// StatsHandler reports how many sockets and rooms are live right now.
func (that *handlers) StatsHandler(w http.ResponseWriter, _ *http.Request) {
	log := that.logger.With("method", "StatsHandler")

	resp := StatsResponse{
		Connections: that.stats.Connections(),
		Rooms:       that.stats.Rooms(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("failed to encode stats", "error", err)
	}
}
