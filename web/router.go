package web

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router wires this server's handlers onto a gorilla/mux router,
// grounded on the teacher's Router (web_router.go), which did the
// same job over a bare http.ServeMux.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/ws/trace", s.handleTraceWebSocket).Methods(http.MethodGet)
	return r
}
