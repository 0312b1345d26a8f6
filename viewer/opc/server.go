package opc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"opcview/internal/logging"

	"github.com/segmentio/ksuid"
)

const readChunk = 64 * 1024

// Server accepts OPC clients on a stream listener and feeds a Queue.
//
// Clients are served one at a time, in accept order. A read error or a
// closed stream drops the connection; the server then accepts the next one.
type Server struct {
	ln  net.Listener
	q   *Queue
	log *slog.Logger

	mu     sync.Mutex
	conn   net.Conn
	closed bool
	wg     sync.WaitGroup
}

// Listen opens a TCP listener on port and starts serving.
func Listen(port int, q *Queue, log *slog.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("opc: listen on port %d: %w", port, err)
	}
	s := NewServer(ln, q, log)
	s.Start()
	return s, nil
}

// NewServer wraps an existing listener. Call Start to begin accepting.
func NewServer(ln net.Listener, q *Queue, log *slog.Logger) *Server {
	return &Server{ln: ln, q: q, log: logging.OrNop(log)}
}

// Addr returns the listen address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Start runs the accept loop on its own goroutine.
func (s *Server) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || s.isClosed() {
				return
			}
			s.log.Warn("opc accept failed", "err", err)
			continue
		}
		if !s.track(conn) {
			_ = conn.Close()
			return
		}
		s.serve(conn)
		s.track(nil)
		if s.isClosed() {
			return
		}
	}
}

func (s *Server) serve(conn net.Conn) {
	id := ksuid.New().String()
	log := s.log.With("conn", id, "remote", conn.RemoteAddr().String())
	log.Info("opc client connected")
	defer func() {
		_ = conn.Close()
		log.Info("opc client disconnected")
	}()

	var dec Decoder
	chunk := make([]byte, readChunk)
	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			dec.Feed(chunk[:n])
			for {
				m, ok := dec.Next()
				if !ok {
					break
				}
				if !s.q.Push(m) {
					return
				}
			}
		}
		if err != nil {
			if dec.Pending() > 0 {
				log.Warn("opc stream ended mid-message", "pending_bytes", dec.Pending(), "err", err)
			}
			return
		}
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed && conn != nil {
		return false
	}
	s.conn = conn
	return true
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close stops accepting, drops the current client and waits for the reader
// goroutine to exit. It closes the queue so a reader blocked on a full queue
// can return.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	conn := s.conn
	s.mu.Unlock()

	s.q.Close()
	err := s.ln.Close()
	if conn != nil {
		_ = conn.Close()
	}
	s.wg.Wait()
	return err
}
