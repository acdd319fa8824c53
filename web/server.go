// Package web is the read-only HTTP/websocket observability surface:
// it can inspect a running system.System and stream its trace, but it
// holds no path back into Core.Execute. Grounded on the teacher's
// WebServer/Router/wsHub trio (web_server.go, web_router.go,
// web_websocket_hub.go), routed with gorilla/mux instead of the
// teacher's bare http.ServeMux, and with the command-queue/control
// surface dropped since this simulator has nothing to pause, resume,
// or reconfigure mid-run.
package web

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/example/moesi-sim/logging"
	"github.com/example/moesi-sim/metrics"
	"github.com/example/moesi-sim/system"
	"github.com/example/moesi-sim/trace"
)

// Server exposes a running System for inspection over HTTP.
type Server struct {
	sys        *system.System
	collector  *metrics.Collector
	wsSink     *trace.WebSocketSink
	upgrader   websocket.Upgrader
	httpServer *http.Server
}

// New constructs a Server over sys. collector and wsSink may be nil,
// in which case /api/stats and /ws/trace respectively report
// unavailable.
func New(sys *system.System, collector *metrics.Collector, wsSink *trace.WebSocketSink) *Server {
	s := &Server{
		sys:       sys,
		collector: collector,
		wsSink:    wsSink,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	return s
}

// ListenAndServe starts the HTTP server on addr. It blocks until the
// server stops or errors.
func (s *Server) ListenAndServe(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.Router()}
	logging.Default().Infof("web: listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.sys.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		http.Error(w, "failed to encode snapshot", http.StatusInternalServerError)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		http.Error(w, "no metrics collector attached", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.collector.Snapshot()); err != nil {
		http.Error(w, "failed to encode stats", http.StatusInternalServerError)
	}
}

func (s *Server) handleTraceWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.wsSink == nil {
		http.Error(w, "no trace sink attached", http.StatusNotFound)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Default().Errorf("web: websocket upgrade failed: %v", err)
		return
	}
	s.wsSink.Register(conn)

	go func() {
		defer s.wsSink.Remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
