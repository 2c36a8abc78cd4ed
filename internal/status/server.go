// Package status exposes the bridge's HTTP surface: health and status
// routes plus a WebSocket joystick ingress that feeds the same sample queue
// as the bus subscription.
package status

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/mavteleop/mavteleop-go/internal/msg"
	"github.com/mavteleop/mavteleop-go/internal/teleop"
)

// Config holds status server configuration.
type Config struct {
	Port       string
	CORSOrigin string
}

// Server serves /health, /status and the /joy WebSocket ingress.
type Server struct {
	httpServer *http.Server
	bridge     *teleop.Bridge
	upgrader   websocket.Upgrader
}

// New builds the status server around a running bridge.
func New(cfg Config, bridge *teleop.Bridge) *Server {
	s := &Server{
		bridge: bridge,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for WebSocket
			},
		},
	}

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.CORSOrigin},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	router.Use(corsMiddleware.Handler)

	router.Get("/health", s.healthHandler)
	router.Get("/status", s.statusHandler)
	router.Get("/joy", s.joyHandler)

	s.httpServer = &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// Start serves until Shutdown. Blocks; run in a goroutine.
func (s *Server) Start() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// statusBody is the /status response shape. Channels carries the current RC
// override frame and is only present in that mode.
type statusBody struct {
	Mode      string   `json:"mode"`
	Processed uint64   `json:"processed"`
	Dropped   uint64   `json:"dropped"`
	UptimeSec float64  `json:"uptime_sec"`
	Channels  []uint16 `json:"channels,omitempty"`
}

func (s *Server) statusHandler(w http.ResponseWriter, _ *http.Request) {
	body := statusBody{
		Mode:      string(s.bridge.Mode()),
		Processed: s.bridge.Processed(),
		Dropped:   s.bridge.Dropped(),
		UptimeSec: s.bridge.Uptime().Seconds(),
	}
	if frame, ok := s.bridge.OverrideFrame(); ok {
		body.Channels = frame.Channels[:]
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

// joyHandler accepts JSON joy samples over a WebSocket and feeds them to the
// bridge. An unparseable message closes the connection; queue pressure is
// handled by the bridge's drop policy, not backpressure.
func (s *Server) joyHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("joy websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	for {
		var j msg.Joy
		if err := conn.ReadJSON(&j); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("joy websocket closed: %v", err)
			}
			return
		}
		s.bridge.Offer(j)
	}
}
