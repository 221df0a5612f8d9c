package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"strike-server/game"
)

// HealthStatus represents the overall health of the room.
type HealthStatus string

const (
	HealthOk       HealthStatus = "ok"
	HealthDegraded HealthStatus = "degraded"
)

// MetricsResponse is the complete metrics response structure.
type MetricsResponse struct {
	Timestamp    time.Time      `json:"timestamp"`
	Health       HealthStatus   `json:"health"`
	Room         game.RoomStats `json:"room"`
	ServerUptime int64          `json:"server_uptime_sec"`
}

// MetricsHandler reports live room state over the REST API.
type MetricsHandler struct {
	room            *game.Room
	serverStartTime time.Time
}

func NewMetricsHandler(room *game.Room) *MetricsHandler {
	return &MetricsHandler{
		room:            room,
		serverStartTime: time.Now(),
	}
}

// Routes registers metrics routes.
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/room", h.GetRoom)
	r.Get("/metrics/score", h.GetScore)
}

// GetMetrics returns complete metrics.
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	stats := h.room.Stats()
	health := HealthOk
	if stats.ConnectedClients > stats.Players {
		// Some connected client holds no entity slot.
		health = HealthDegraded
	}
	writeJSON(w, http.StatusOK, MetricsResponse{
		Timestamp:    time.Now(),
		Health:       health,
		Room:         stats,
		ServerUptime: int64(time.Since(h.serverStartTime).Seconds()),
	})
}

// GetRoom returns only the room state summary.
func (h *MetricsHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.room.Stats())
}

// GetScore returns only the team scores.
func (h *MetricsHandler) GetScore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.room.Stats().Score)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
