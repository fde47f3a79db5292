package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats struct {
	connections int
	rooms       int
}

func (that fixedStats) Connections() int { return that.connections }
func (that fixedStats) Rooms() int       { return that.rooms }

func newTestRouter() http.Handler {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewRouter(NewHandlers(logger, fixedStats{connections: 3, rooms: 2}))
}

func TestPingHandler(t *testing.T) {
	rec := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestStatsHandler(t *testing.T) {
	t.Run("Reports live counters", func(t *testing.T) {
		rec := httptest.NewRecorder()

		newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp StatsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, StatsResponse{Connections: 3, Rooms: 2}, resp)
	})

	t.Run("Only GET is served", func(t *testing.T) {
		rec := httptest.NewRecorder()

		newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
