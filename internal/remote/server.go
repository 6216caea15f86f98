// Package remote exposes a preset bank over HTTP so external tools can read the
// lists, move the cursor, replace presets and follow change notifications over
// a websocket.
package remote

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/edward-ap/functor/internal/bank"
)

// clientBuffer is how many changes may queue per websocket client before new
// ones are dropped for that client.
const clientBuffer = 64

// Logger is a small logging interface used for non-fatal errors.
type Logger interface {
	Printf(format string, args ...any)
}

type stdLogger struct{}

func (stdLogger) Printf(format string, args ...any) {
	log.Printf(format, args...)
}

// Server serves the remote API for one bank.
type Server struct {
	bank   *bank.Bank
	log    Logger
	router chi.Router

	mu      sync.Mutex
	clients map[uuid.UUID]chan bank.Change
	closed  bool

	unsubscribe func()
}

// NewServer subscribes to b and builds the routes. Call Close to detach.
// A nil log falls back to the standard logger.
func NewServer(b *bank.Bank, lg Logger) *Server {
	if lg == nil {
		lg = stdLogger{}
	}
	s := &Server{
		bank:    b,
		log:     lg,
		clients: make(map[uuid.UUID]chan bank.Change),
	}
	s.unsubscribe = b.Subscribe(s.broadcast)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/cursor", s.getCursor)
	r.Put("/api/cursor", s.putCursor)

	r.Get("/api/presets/{mode}", s.listPresets)
	r.Get("/api/presets/{mode}/{index}", s.getPreset)
	r.Put("/api/presets/{mode}/{index}", s.putPreset)

	r.Get("/api/curve", s.getCurve)

	r.Get("/api/events", s.handleEvents)
	return r
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler { return s.router }

// ClientCount reports the number of connected websocket clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close detaches from the bank and disconnects every event stream.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.mu.Unlock()
	s.unsubscribe()
}

// Serve listens on addr until ctx is cancelled, then shuts the HTTP server down
// and closes s.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.Close()
		return err
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Printf("remote: listening on %s", ln.Addr())

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}
	// Close event streams first: Shutdown does not wait for hijacked conns.
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// register adds a client channel. It fails once the server is closed.
func (s *Server) register() (uuid.UUID, chan bank.Change, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return uuid.Nil, nil, false
	}
	id := uuid.New()
	ch := make(chan bank.Change, clientBuffer)
	s.clients[id] = ch
	return id, ch, true
}

func (s *Server) unregister(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.clients[id]; ok {
		close(ch)
		delete(s.clients, id)
	}
}

func (s *Server) broadcast(ch bank.Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, out := range s.clients {
		select {
		case out <- ch:
		default:
			s.log.Printf("remote: client %s is not keeping up, dropped %s change", id, ch.Kind)
		}
	}
}
