// Package http exposes a read-only status API next to the chat listener:
// a health probe and a view of the room registry. It never mutates chat
// state.
package http

import (
	stdhttp "net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hjang25/roomchat/internal/config"
	"github.com/hjang25/roomchat/internal/core"
)

// StatusHandlers serves the status endpoints.
type StatusHandlers struct {
	registry *core.Registry
	log      *zerolog.Logger
	started  time.Time
}

// NewStatusHandlers creates the handlers around the shared registry.
func NewStatusHandlers(registry *core.Registry, logger *zerolog.Logger) *StatusHandlers {
	return &StatusHandlers{
		registry: registry,
		log:      logger,
		started:  time.Now(),
	}
}

// HealthResponse is the health probe body.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// RoomsResponse lists every room with its member count.
type RoomsResponse struct {
	Rooms []core.RoomInfo `json:"rooms"`
}

// Health handles GET /health.
func (h *StatusHandlers) Health(c *gin.Context) {
	c.JSON(stdhttp.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	})
}

// Rooms handles GET /api/rooms.
func (h *StatusHandlers) Rooms(c *gin.Context) {
	rooms := h.registry.Snapshot()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	c.JSON(stdhttp.StatusOK, RoomsResponse{Rooms: rooms})
}

// NewServer builds the status HTTP server. Callers own its lifecycle.
func NewServer(registry *core.Registry, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	h := NewStatusHandlers(registry, logger)
	engine.GET("/health", h.Health)
	engine.GET("/api/rooms", h.Rooms)

	return &stdhttp.Server{
		Addr:              cfg.StatusAddr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
