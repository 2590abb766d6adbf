package wsengine

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/phanxgames/marionette"
)

var (
	// ErrUnknownMethod is reported for requests naming no engine method.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrStopped is reported for calls still waiting on Dispatch when the
	// server closes.
	ErrStopped = errors.New("engine stopped")
)

// Server exposes an engine to websocket clients.
type Server struct {
	engine   marionette.Engine
	log      *zap.Logger
	upgrader websocket.Upgrader

	// Dispatch runs each engine call. It must call fn at most once; calls it
	// never runs stay pending until Close. Hosts that are not safe for concurrent use set it to their
	// main-loop queue (hostengine.Host.Do). nil runs calls on the connection
	// goroutine.
	Dispatch func(fn func())

	// WriteTimeout bounds each frame write. Zero disables the deadline.
	WriteTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*session
	stop     chan struct{}
	stopOnce sync.Once
}

// NewServer returns a server forwarding to engine. A nil log discards output.
func NewServer(engine marionette.Engine, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		engine: engine,
		log:    log.Named("wsengine"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		WriteTimeout: 5 * time.Second,
		sessions:     make(map[string]*session),
		stop:         make(chan struct{}),
	}
}

// Sessions returns the number of connected clients.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close disconnects every client and releases calls waiting on Dispatch,
// which may never run once the host loop has exited.
func (s *Server) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, ss := range s.sessions {
		sessions = append(sessions, ss)
	}
	s.mu.Unlock()

	var first error
	for _, ss := range sessions {
		if err := ss.conn.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "close session %s", ss.id)
		}
	}
	return first
}

// ServeHTTP upgrades the request and serves engine calls until the client
// disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	ss := &session{
		id:     uuid.NewString(),
		server: s,
		conn:   conn,
	}
	ss.log = s.log.With(zap.String("session", ss.id))

	s.mu.Lock()
	s.sessions[ss.id] = ss
	s.mu.Unlock()
	ss.log.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))

	ss.serve()

	s.mu.Lock()
	delete(s.sessions, ss.id)
	s.mu.Unlock()
	conn.Close()
	ss.log.Info("client disconnected")
}

// run executes call through Dispatch and waits for its result, or for the
// server to close.
func (s *Server) run(call func(marionette.Engine) any) (any, error) {
	if s.Dispatch == nil {
		return call(s.engine), nil
	}
	out := make(chan any, 1)
	s.Dispatch(func() { out <- call(s.engine) })
	select {
	case v := <-out:
		return v, nil
	case <-s.stop:
		return nil, ErrStopped
	}
}

type session struct {
	id     string
	server *Server
	conn   *websocket.Conn
	log    *zap.Logger

	writeMu sync.Mutex
}

func (ss *session) serve() {
	for {
		_, data, err := ss.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ss.log.Debug("read failed", zap.Error(err))
			}
			return
		}
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			ss.log.Warn("invalid request", zap.Error(err))
			continue
		}
		resp := ss.handle(req)
		if err := ss.write(envelope{Response: &resp}); err != nil {
			ss.log.Warn("write response failed", zap.String("method", req.Method), zap.Error(err))
			return
		}
	}
}

func (ss *session) handle(req Request) Response {
	resp := Response{ID: req.ID}
	h, ok := handlers[req.Method]
	if !ok {
		resp.Error = errors.Wrap(ErrUnknownMethod, req.Method).Error()
		return resp
	}
	a := &args{raw: req.Args}
	call := h(a, ss)
	if a.err != nil {
		resp.Error = errors.Wrap(a.err, req.Method).Error()
		return resp
	}

	result, err := ss.server.run(call)
	if err != nil {
		resp.Error = errors.Wrap(err, req.Method).Error()
		return resp
	}
	if result == nil {
		return resp
	}
	b, err := json.Marshal(result)
	if err != nil {
		resp.Error = errors.Wrapf(err, "%s: encode result", req.Method).Error()
		return resp
	}
	resp.Result = b
	ss.log.Debug("call", zap.String("method", req.Method), zap.ByteString("result", b))
	return resp
}

func (ss *session) write(env envelope) error {
	ss.writeMu.Lock()
	defer ss.writeMu.Unlock()
	if t := ss.server.WriteTimeout; t > 0 {
		_ = ss.conn.SetWriteDeadline(time.Now().Add(t))
	}
	return errors.Wrap(ss.conn.WriteJSON(env), "write frame")
}

// callback returns a function pushing kind events for ref, or nil when the
// client sent no reference.
func (ss *session) callback(kind EventKind, ref string) func(float64) {
	if ref == "" {
		return nil
	}
	return func(v float64) {
		if err := ss.write(envelope{Event: &Event{Kind: kind, Ref: ref, Value: v}}); err != nil {
			ss.log.Warn("push event failed", zap.String("kind", string(kind)), zap.Error(err))
		}
	}
}

func (ss *session) signal(kind EventKind, ref string) func() {
	cb := ss.callback(kind, ref)
	if cb == nil {
		return nil
	}
	return func() { cb(0) }
}
