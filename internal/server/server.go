package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/renato0307/vigia/internal/adapters/claude"
	"github.com/renato0307/vigia/internal/domain"
	"github.com/renato0307/vigia/internal/logging"
)

const maxLineSize = 1024 * 1024

// EventSink receives decoded events in connection order
type EventSink interface {
	Submit(event domain.Event)
}

// BindError means the socket could not be bound: address in use or
// permission denied. Fatal to the listener, surfaced to the operator.
type BindError struct {
	Path string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind socket %s: %v", e.Path, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// Server accepts hook connections on a unix socket: one accept loop plus
// one worker per connection. Each worker reads newline-delimited JSON to
// EOF and forwards every decoded event to the sink; malformed lines decode
// to fallback events, so a worker never fails a connection over bad input.
type Server struct {
	socketPath string
	sink       EventSink

	mu       sync.Mutex
	listener net.Listener
	group    *errgroup.Group
	running  bool
}

// New creates a Server bound to the given socket path
func New(socketPath string, sink EventSink) *Server {
	return &Server{
		socketPath: socketPath,
		sink:       sink,
	}
}

// Start binds the socket and launches the accept loop. A stale socket
// file from a previous run is removed best-effort; if removal fails the
// bind is attempted anyway and reports the real conflict.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return domain.ErrServerRunning
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		logging.Logger.Warn("Failed to remove stale socket, binding anyway",
			"path", s.socketPath, "error", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return &BindError{Path: s.socketPath, Err: err}
	}

	s.listener = listener
	s.group = &errgroup.Group{}
	s.running = true

	s.group.Go(s.acceptLoop)

	logging.Logger.Info("Listening for hook events", "socket", s.socketPath)
	return nil
}

// Stop closes the listener, waits for in-flight connection workers and
// removes the socket file. Idempotent and safe from any goroutine.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	listener := s.listener
	group := s.group
	s.listener = nil
	s.mu.Unlock()

	_ = listener.Close()
	_ = group.Wait()
	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		logging.Logger.Warn("Failed to remove socket file", "path", s.socketPath, "error", err)
	}

	logging.Logger.Info("Stopped listening for hook events")
}

// Running reports whether the accept loop is active
func (s *Server) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Server) acceptLoop() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return nil
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logging.Logger.Error("Accept failed", "error", err)
			return nil
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			_ = conn.Close()
			return nil
		}
		s.group.Go(func() error {
			s.handleConnection(conn)
			return nil
		})
		s.mu.Unlock()
	}
}

// handleConnection reads one connection to EOF, one JSON event per line.
// Clients are local and short-lived, so there is no read deadline beyond
// connection teardown.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		s.sink.Submit(claude.Decode(line, time.Now()))
	}
	if err := scanner.Err(); err != nil {
		logging.Logger.Warn("Connection read failed", "error", err)
	}
}
