package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	_ "net/http/pprof" // Profiling
	"time"

	"scene-manager/internal/engine"
	"scene-manager/internal/version"
	"scene-manager/pkg/logger"
)

type Server struct {
	Engine *engine.PanelService
	Port   string

	http *http.Server
}

func New(engine *engine.PanelService, port string) *Server {
	return &Server{
		Engine: engine,
		Port:   port,
	}
}

// Handler builds the route table. pprof stays reachable through the default mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Engine)
	debugHandler.RegisterRoutes(mux)

	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	return mux
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Log.Infof("Scene panel server running on :%s", s.Port)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleWS upgrades the request and starts the session pumps.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("websocket upgrade failed")
		return
	}

	client := NewClient(s.Engine, conn)

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
