// Package remote serves mapview maps over HTTP and websockets. Every
// websocket connection gets its own session with its own Map; inbound JSON
// commands mirror the Map API, outbound messages carry events and frame
// notifications, and the latest frame is served as PNG.
package remote

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/phanxgames/mapview"
)

// Options configures a Server.
type Options struct {
	FrameRate      int
	MaxSessions    int
	OriginPatterns []string
}

// Server owns the live sessions.
type Server struct {
	opts   Options
	newMap func() (*mapview.Map, error)
	log    *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewServer returns a server that creates one map per session with newMap.
func NewServer(opts Options, newMap func() (*mapview.Map, error), log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		opts:     opts,
		newMap:   newMap,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Router returns the HTTP routes of the server.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/sessions", s.handleSessions).Methods("GET")
	r.HandleFunc("/sessions/{id}/frame.png", s.handleFrame).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "sessions": s.count()})
}

func (s *Server) handleSessions(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"sessions": ids})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, ok := s.session(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	frame, seq := sess.Frame()
	if len(frame) == 0 {
		http.Error(w, "no frame yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Frame-Seq", strconv.FormatUint(seq, 10))
	_, _ = w.Write(frame)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxSessions > 0 && s.count() >= s.opts.MaxSessions {
		http.Error(w, "too many sessions", http.StatusServiceUnavailable)
		return
	}
	m, err := s.newMap()
	if err != nil {
		s.log.Error("create map", "error", err)
		http.Error(w, "create map", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		m.Close()
		s.log.Error("websocket accept", "error", err)
		return
	}

	sess := newSession(uuid.New().String(), m, conn, s.opts.FrameRate, s.log)
	s.register(sess)
	defer s.unregister(sess)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go sess.run(ctx)
	go sess.writePump(ctx)
	sess.emit(TypeWelcome, map[string]string{"sessionId": sess.ID})
	sess.readPump(ctx)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) register(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.log.Info("session opened", "session", sess.ID, "sessions", n)
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	n := len(s.sessions)
	s.mu.Unlock()
	s.log.Info("session closed", "session", sess.ID, "sessions", n)
}

func (s *Server) session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *Server) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
