// Package tcp implements the chat server's line-protocol transport: the
// accept loop and the per-connection session state machine.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hjang25/roomchat/internal/config"
	"github.com/hjang25/roomchat/internal/core"
	"github.com/hjang25/roomchat/internal/wire"
)

// Server accepts chat connections and runs one session goroutine per
// connection. The accept loop itself is single-threaded.
type Server struct {
	registry *core.Registry
	cfg      *config.Config
	log      *zerolog.Logger

	ln net.Listener

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewServer builds a server around the shared room registry.
func NewServer(registry *core.Registry, cfg *config.Config, logger *zerolog.Logger) *Server {
	return &Server{
		registry: registry,
		cfg:      cfg,
		log:      logger,
		sessions: make(map[*session]struct{}),
	}
}

// Listen opens the chat listener. It must be called before Serve.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound listener address.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.cfg.ListenAddr
	}
	return s.ln.Addr().String()
}

// Serve accepts connections until ctx is cancelled or the listener
// fails. A listener failure is fatal; a failed session never is. On
// return every live session connection has been closed.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	s.log.Info().Str("addr", s.Addr()).Msg("chat server listening")

	var wg sync.WaitGroup
	for {
		nc, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			s.closeSessions()
			wg.Wait()
			return fmt.Errorf("accept: %w", err)
		}

		conn := wire.NewWithLimit(nc, s.cfg.MaxLineBytes)
		conn.SetTimeouts(s.cfg.ReadTimeout, s.cfg.WriteTimeout)
		sess := &session{
			id:       uuid.NewString(),
			conn:     conn,
			registry: s.registry,
			wait:     s.cfg.DequeueWait,
		}
		logger := s.log.With().
			Str("session_id", sess.id).
			Str("remote", nc.RemoteAddr().String()).
			Logger()
		sess.log = &logger

		s.track(sess)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.untrack(sess)
			sess.run(ctx)
		}()
	}

	s.closeSessions()
	wg.Wait()
	s.log.Info().Msg("chat server stopped")
	return nil
}

func (s *Server) track(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess] = struct{}{}
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess)
}

// closeSessions force-closes every live connection so sessions blocked
// on socket reads unwind. There is no in-band cancellation; a session
// only ever exits by observing its own I/O failing.
func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sess := range s.sessions {
		sess.conn.Close()
	}
}
