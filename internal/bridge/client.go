// Package bridge maintains the live call-event stream that feeds the
// dashboard counters. One Client is constructed per session and passed
// explicitly to whatever needs live updates; subscriptions return an
// unsubscribe handle instead of sharing a mutable callback list.
//
// Reconnect policy: on disconnect, retry at a fixed interval up to a
// bounded attempt count, then give up silently. A successful connection
// resets the counter. Switching the active tenant closes the connection
// and reinitializes it for the new tenant, discarding any pending
// reconnect schedule for the old one.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is one decoded message from the call-event stream.
type Event struct {
	Type   string    `json:"type"` // call_started | call_ended
	Call   *CallInfo `json:"call,omitempty"`
	CallID string    `json:"call_id,omitempty"`
}

// CallInfo is the call payload carried by call_started events.
type CallInfo struct {
	CallID    string    `json:"call_id"`
	TenantID  int64     `json:"tenant_id"`
	Caller    string    `json:"caller"`
	Callee    string    `json:"callee"`
	State     string    `json:"state"`
	StartedAt time.Time `json:"started_at"`
}

// conn is the subset of *websocket.Conn the client reads through,
// narrowed so tests can substitute a scripted connection.
type conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens the event stream for one tenant.
type Dialer func(ctx context.Context, url string) (conn, error)

// WebsocketDialer dials with gorilla/websocket, the production transport.
func WebsocketDialer(ctx context.Context, url string) (conn, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing event stream: %w", err)
	}
	return c, nil
}

// Client is a reconnecting subscriber to the per-tenant event stream.
type Client struct {
	baseURL string
	policy  RetryPolicy
	dial    Dialer
	log     *slog.Logger

	mu         sync.Mutex
	conn       conn
	tenantID   int64
	connected  bool
	attempts   int
	generation int // bumped on every connect/disconnect; stale goroutines check it
	subs       map[int]func(Event)
	nextSubID  int
}

// NewClient creates a client for the given stream base URL. The dialer
// may be nil, in which case the websocket transport is used.
func NewClient(baseURL string, policy RetryPolicy, dial Dialer, log *slog.Logger) *Client {
	if dial == nil {
		dial = WebsocketDialer
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		policy:  policy,
		dial:    dial,
		log:     log,
		subs:    make(map[int]func(Event)),
	}
}

// Subscribe registers a callback for every decoded event and returns the
// handle that removes it again.
func (c *Client) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Connect opens the stream for a tenant. Connecting to the tenant the
// client is already attached to is a no-op; connecting to a different
// tenant tears the old stream down first, along with any reconnect
// schedule it still had pending.
func (c *Client) Connect(tenantID int64) {
	c.mu.Lock()
	if c.connected && c.tenantID == tenantID {
		c.mu.Unlock()
		return
	}
	c.closeLocked()
	c.tenantID = tenantID
	c.attempts = 0
	gen := c.generation
	c.mu.Unlock()

	c.open(tenantID, gen)
}

// Disconnect closes the stream and cancels any pending reconnect.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.tenantID = 0
}

// Connected reports whether the stream is currently up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// closeLocked tears down the current connection and invalidates every
// goroutine spawned for it. Callers hold c.mu.
func (c *Client) closeLocked() {
	c.generation++
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connected = false
}

// open dials the tenant stream and starts the read loop. gen identifies
// the connect cycle; if a tenant switch or disconnect happened since,
// the result is discarded.
func (c *Client) open(tenantID int64, gen int) {
	url := fmt.Sprintf("%s/%d", c.baseURL, tenantID)
	wc, err := c.dial(context.Background(), url)

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		if err == nil {
			_ = wc.Close()
		}
		return
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("event stream connect failed", "tenant", tenantID, "error", err)
		c.scheduleReconnect(tenantID, gen)
		return
	}
	c.conn = wc
	c.connected = true
	c.attempts = 0
	c.mu.Unlock()

	c.log.Info("event stream connected", "tenant", tenantID)
	go c.readLoop(wc, tenantID, gen)
}

func (c *Client) readLoop(wc conn, tenantID int64, gen int) {
	for {
		_, data, err := wc.ReadMessage()
		if err != nil {
			c.mu.Lock()
			stale := c.generation != gen
			if !stale {
				c.connected = false
				c.conn = nil
			}
			c.mu.Unlock()
			if stale {
				return
			}
			c.log.Warn("event stream disconnected", "tenant", tenantID, "error", err)
			c.scheduleReconnect(tenantID, gen)
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.log.Warn("dropping undecodable event", "error", err)
			continue
		}
		c.dispatch(ev)
	}
}

func (c *Client) dispatch(ev Event) {
	c.mu.Lock()
	fns := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// scheduleReconnect queues the next attempt, or gives up silently once
// the policy's attempt budget is spent.
func (c *Client) scheduleReconnect(tenantID int64, gen int) {
	c.mu.Lock()
	if c.generation != gen || c.attempts >= c.policy.MaxAttempts {
		c.mu.Unlock()
		return
	}
	c.attempts++
	attempt := c.attempts
	c.mu.Unlock()

	c.log.Info("scheduling event stream reconnect", "tenant", tenantID, "attempt", attempt)
	go func() {
		time.Sleep(c.policy.Interval)
		c.mu.Lock()
		stale := c.generation != gen
		c.mu.Unlock()
		if stale {
			return
		}
		c.open(tenantID, gen)
	}()
}
