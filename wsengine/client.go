package wsengine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/phanxgames/marionette"
)

var (
	// ErrClosed is returned for calls on a closed or broken connection.
	ErrClosed = errors.New("connection closed")
	// ErrTimeout is returned when the server does not answer in time.
	ErrTimeout = errors.New("call timed out")
)

const (
	// DefaultTimeout bounds each call unless WithTimeout overrides it.
	DefaultTimeout = 5 * time.Second

	// bezCacheSize caps the memoized PreCalculateBez answers. The cache is
	// dropped wholesale when full.
	bezCacheSize = 256
)

var (
	_ marionette.Engine           = (*Client)(nil)
	_ marionette.RendererSelector = (*Client)(nil)
)

// Client is a marionette.Engine backed by a remote Server. Engine methods
// block until the server answers. Transport failures are logged and reported
// as the engine's failure values (InvalidHandle, false, "" or zero).
type Client struct {
	conn    *websocket.Conn
	log     *zap.Logger
	timeout time.Duration

	writeMu sync.Mutex

	mu        sync.Mutex
	pending   map[string]chan Response
	callbacks map[string]callback
	events    []Event
	err       error
	bezCache  map[uint64]string

	closed chan struct{}
	notify chan struct{}
}

// callback is a locally held function standing in for a remote one. left
// counts the events still expected; 0 means unbounded.
type callback struct {
	fn   func(float64)
	left int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets how long a call waits for its response.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// Dial connects to a Server at url.
func Dial(ctx context.Context, url string, log *zap.Logger, opts ...ClientOption) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", url)
	}
	return NewClient(conn, log, opts...), nil
}

// NewClient wraps an established connection and starts reading from it.
func NewClient(conn *websocket.Conn, log *zap.Logger, opts ...ClientOption) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		conn:      conn,
		log:       log.Named("wsengine.client"),
		timeout:   DefaultTimeout,
		pending:   make(map[string]chan Response),
		callbacks: make(map[string]callback),
		bezCache:  make(map[uint64]string),
		closed:    make(chan struct{}),
		notify:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop()
	return c
}

// Close shuts the connection down. Pending calls fail with ErrClosed.
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()
	return c.conn.Close()
}

// Done is closed once the connection is gone.
func (c *Client) Done() <-chan struct{} { return c.closed }

// Err returns the error that ended the connection, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Events receives a value whenever Poll has work. It never blocks the
// reader: pending notifications are coalesced.
func (c *Client) Events() <-chan struct{} { return c.notify }

// Poll runs every queued callback on the calling goroutine and returns how
// many ran.
func (c *Client) Poll() int {
	c.mu.Lock()
	events := c.events
	c.events = nil
	c.mu.Unlock()

	n := 0
	for _, ev := range events {
		c.mu.Lock()
		cb, ok := c.callbacks[ev.Ref]
		if ok && cb.left > 0 {
			cb.left--
			if cb.left == 0 {
				delete(c.callbacks, ev.Ref)
			} else {
				c.callbacks[ev.Ref] = cb
			}
		}
		c.mu.Unlock()
		if !ok {
			c.log.Warn("event for unknown callback", zap.String("kind", string(ev.Kind)), zap.String("ref", ev.Ref))
			continue
		}
		cb.fn(ev.Value)
		n++
	}
	return n
}

func (c *Client) readLoop() {
	var err error
	defer func() {
		c.mu.Lock()
		c.err = err
		pending := c.pending
		c.pending = nil
		c.mu.Unlock()
		for _, ch := range pending {
			close(ch)
		}
		close(c.closed)
	}()

	for {
		var env envelope
		if err = c.conn.ReadJSON(&env); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				err = nil
			} else {
				err = errors.Wrap(err, "read frame")
			}
			return
		}
		switch {
		case env.Response != nil:
			c.mu.Lock()
			ch, ok := c.pending[env.Response.ID]
			delete(c.pending, env.Response.ID)
			c.mu.Unlock()
			if !ok {
				c.log.Debug("late response", zap.String("id", env.Response.ID))
				continue
			}
			ch <- *env.Response
		case env.Event != nil:
			c.mu.Lock()
			c.events = append(c.events, *env.Event)
			c.mu.Unlock()
			select {
			case c.notify <- struct{}{}:
			default:
			}
		}
	}
}

// Call invokes method on the remote engine and decodes the result into out,
// which may be nil.
func (c *Client) Call(method string, out any, values ...any) error {
	raw, err := encodeArgs(values)
	if err != nil {
		return errors.Wrap(err, method)
	}
	req := Request{ID: uuid.NewString(), Method: method, Args: raw}
	ch := make(chan Response, 1)

	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		return errors.Wrap(ErrClosed, method)
	}
	c.pending[req.ID] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	err = c.conn.WriteJSON(req)
	c.writeMu.Unlock()
	if err != nil {
		c.forget(req.ID)
		return errors.Wrapf(err, "%s: send", method)
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	var resp Response
	select {
	case r, ok := <-ch:
		if !ok {
			return errors.Wrap(ErrClosed, method)
		}
		resp = r
	case <-timer.C:
		c.forget(req.ID)
		return errors.Wrapf(ErrTimeout, "%s after %s", method, c.timeout)
	}

	if resp.Error != "" {
		return errors.Errorf("%s: %s", method, resp.Error)
	}
	if out == nil || len(resp.Result) == 0 {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(resp.Result, out), "%s: decode result", method)
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// register stores fn under a fresh reference. A nil fn yields "".
func (c *Client) register(kind EventKind, fn func(float64)) string {
	left := 0
	if kind.once() {
		left = 1
	}
	return c.registerN(fn, left)
}

// registerN stores fn until it has run n times, or forever when n is 0.
func (c *Client) registerN(fn func(float64), n int) string {
	if fn == nil {
		return ""
	}
	ref := uuid.NewString()
	c.mu.Lock()
	c.callbacks[ref] = callback{fn: fn, left: n}
	c.mu.Unlock()
	return ref
}

// Callbacks returns the number of callbacks still waiting for events.
func (c *Client) Callbacks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.callbacks)
}

func (c *Client) unregister(ref string) {
	if ref == "" {
		return
	}
	c.mu.Lock()
	delete(c.callbacks, ref)
	c.mu.Unlock()
}

// cachedBez returns a remembered PreCalculateBez answer. Sampling is a pure
// function of the options, and repeated resize animations resend the same
// curve.
func (c *Client) cachedBez(key uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.bezCache[key]
	return v, ok
}

func (c *Client) storeBez(key uint64, v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.bezCache) >= bezCacheSize {
		c.bezCache = make(map[uint64]string)
	}
	c.bezCache[key] = v
}

func bezKey(options string) uint64 {
	return xxhash.Sum64String(options)
}

func (c *Client) failed(method string, err error) {
	c.log.Error("engine call failed", zap.String("method", method), zap.Error(err))
}

func (c *Client) handle(method string, values ...any) int {
	id := marionette.InvalidHandle
	if err := c.Call(method, &id, values...); err != nil {
		c.failed(method, err)
		return marionette.InvalidHandle
	}
	return id
}

func (c *Client) ok(method string, values ...any) bool {
	var ok bool
	if err := c.Call(method, &ok, values...); err != nil {
		c.failed(method, err)
		return false
	}
	return ok
}

func (c *Client) integer(method string, values ...any) int {
	var v int
	if err := c.Call(method, &v, values...); err != nil {
		c.failed(method, err)
		return 0
	}
	return v
}

func (c *Client) number(method string, values ...any) float64 {
	var v float64
	if err := c.Call(method, &v, values...); err != nil {
		c.failed(method, err)
		return 0
	}
	return v
}

func (c *Client) text(method string, values ...any) string {
	var v string
	if err := c.Call(method, &v, values...); err != nil {
		c.failed(method, err)
		return ""
	}
	return v
}

func (c *Client) exec(method string, values ...any) {
	if err := c.Call(method, nil, values...); err != nil {
		c.failed(method, err)
	}
}
