package opc

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"opcview/internal/logging"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/segmentio/ksuid"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  readChunk,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewRouter returns the HTTP routes of the WebSocket source: "/" upgrades to
// a WebSocket where every binary message carries one OPC message, and
// "/health" answers 200.
func NewRouter(q *Queue, log *slog.Logger) *mux.Router {
	log = logging.OrNop(log)
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		serveWebsocket(w, req, q, log)
	})
	return r
}

func serveWebsocket(w http.ResponseWriter, req *http.Request, q *Queue, log *slog.Logger) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Warn("opc websocket upgrade failed", "remote", req.RemoteAddr, "err", err)
		return
	}
	defer ws.Close()

	log = log.With("conn", ksuid.New().String(), "remote", req.RemoteAddr)
	log.Info("opc websocket client connected")
	defer log.Info("opc websocket client disconnected")

	for {
		mt, p, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("opc websocket read failed", "err", err)
			}
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		m, err := Unmarshal(p)
		if err != nil {
			log.Warn("opc websocket frame rejected", "bytes", len(p), "err", err)
			continue
		}
		if !q.Push(m) {
			return
		}
	}
}

// WebsocketServer serves the WebSocket source over HTTP.
type WebsocketServer struct {
	srv *http.Server
	ln  net.Listener
	q   *Queue
}

// ListenWebsocket starts the WebSocket source on addr (host:port).
func ListenWebsocket(addr string, q *Queue, log *slog.Logger) (*WebsocketServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("opc: websocket listen on %s: %w", addr, err)
	}
	log = logging.OrNop(log)
	s := &WebsocketServer{
		srv: &http.Server{
			Handler:           NewRouter(q, log),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln: ln,
		q:  q,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("opc websocket server stopped", "err", err)
		}
	}()
	return s, nil
}

// Addr returns the listen address.
func (s *WebsocketServer) Addr() net.Addr { return s.ln.Addr() }

// Close stops the HTTP server and closes the queue so blocked readers return.
func (s *WebsocketServer) Close() error {
	s.q.Close()
	return s.srv.Close()
}
