// Package server exposes the session controller over HTTP and a websocket status stream.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/vplay-cli/vplay/filesystem"
	"github.com/vplay-cli/vplay/log"
	"github.com/vplay-cli/vplay/session"
	"golang.org/x/net/netutil"
)

const shutdownTimeout = 5 * time.Second

// Options configure a Server.
type Options struct {
	// Token is the bearer token every API request must carry.
	Token string
	// UploadLimit caps the size of a dropped file in bytes.
	UploadLimit int64
	// UploadDir receives dropped files.
	UploadDir string
}

// Server serves the remote control API for one session host.
type Server struct {
	host     *session.Host
	hub      *Hub
	opts     Options
	validate *requestValidator
	upgrader websocket.Upgrader

	mu      sync.Mutex
	uploads []string
}

// New returns a Server driving host. hub must be the surface host reports to.
func New(host *session.Host, hub *Hub, opts Options) *Server {
	return &Server{
		host:     host,
		hub:      hub,
		opts:     opts,
		validate: newRequestValidator(),
		upgrader: websocket.Upgrader{
			// the token check replaces the origin check
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(s.requestIDMw)
	r.Use(s.requestLoggingMw)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Group(func(r chi.Router) {
		r.Use(s.authMw)

		r.Route("/api", func(r chi.Router) {
			r.Get("/status", s.getStatus)
			r.Get("/schema", s.getSchema)
			r.Post("/actions/{action}", s.postAction)
			r.Post("/seek", s.postSeek)
			r.Post("/keys", s.postKey)
			r.Post("/load", s.postLoad)
			r.Post("/drop", s.postDrop)
		})
		r.Get("/ws", s.serveWS)
	})

	return r
}

// ListenAndServe listens on address with at most maxConns simultaneous connections.
func (s *Server) ListenAndServe(ctx context.Context, address string, maxConns int) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", address, err)
	}

	if maxConns > 0 {
		ln = netutil.LimitListener(ln, maxConns)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("server shutdown: %s", err)
		}
	}()

	log.Infof("serving remote control on %s", ln.Addr())

	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-stopped
		s.cleanup()
		return nil
	}
	return err
}

// cleanup removes every dropped file received during this run.
func (s *Server) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range s.uploads {
		if err := filesystem.API().Remove(path); err != nil {
			log.Debugf("remove upload %s: %s", path, err)
		}
	}
	s.uploads = nil
}

func (s *Server) track(path string) {
	s.mu.Lock()
	s.uploads = append(s.uploads, path)
	s.mu.Unlock()
}
