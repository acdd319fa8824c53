package trace

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/example/moesi-sim/logging"
)

// WebSocketSink broadcasts every event as a JSON frame to connected
// websocket clients. It mirrors the teacher's wsHub: a registration
// channel, a removal channel, and a broadcast channel drained by a
// single goroutine so that concurrent writers never race on a
// *websocket.Conn.
type WebSocketSink struct {
	clients   map[*websocket.Conn]bool
	register  chan *websocket.Conn
	remove    chan *websocket.Conn
	broadcast chan []byte
}

// NewWebSocketSink starts the hub's dispatch loop and returns the sink.
func NewWebSocketSink() *WebSocketSink {
	s := &WebSocketSink{
		clients:   make(map[*websocket.Conn]bool),
		register:  make(chan *websocket.Conn),
		remove:    make(chan *websocket.Conn),
		broadcast: make(chan []byte, 64),
	}
	go s.run()
	return s
}

func (s *WebSocketSink) run() {
	for {
		select {
		case conn := <-s.register:
			s.clients[conn] = true
		case conn := <-s.remove:
			if _, ok := s.clients[conn]; ok {
				delete(s.clients, conn)
				conn.Close()
			}
		case msg := <-s.broadcast:
			for conn := range s.clients {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					logging.Default().Warnf("trace: dropping websocket client: %v", err)
					delete(s.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// Register adds conn to the broadcast set; the caller owns the
// connection's lifecycle up to this point (the upgrade already happened).
func (s *WebSocketSink) Register(conn *websocket.Conn) {
	s.register <- conn
}

// Remove drops conn from the broadcast set and closes it.
func (s *WebSocketSink) Remove(conn *websocket.Conn) {
	s.remove <- conn
}

// Handle implements Sink by marshaling the event and queuing it for
// broadcast to every connected client.
func (s *WebSocketSink) Handle(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		logging.Default().Errorf("trace: failed to marshal event: %v", err)
		return
	}
	select {
	case s.broadcast <- data:
	default:
		logging.Default().Warnf("trace: websocket broadcast queue full, dropping event")
	}
}
