// Package rpcclient is the websocket transport to an XRPL node. It
// multiplexes request/response calls over one connection by id and fans
// pushed subscription events out to a channel.
//
// Connection lifecycle (dial, reconnect, close) belongs to the caller; the
// wallet core receives a connected handle and never reconnects on its own.
package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout   = 10 * time.Second
	pingInterval   = 54 * time.Second
	readLimit      = 4 * 1024 * 1024
	eventQueueSize = 256
)

// ErrClosed is returned for requests issued after the connection ended.
var ErrClosed = errors.New("rpcclient: connection closed")

// APIError is a structured error response from the node.
type APIError struct {
	Code    string `json:"error"`
	Message string `json:"error_message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rpcclient: %s: %s", e.Code, e.Message)
	}
	return "rpcclient: " + e.Code
}

// IsNotFound reports whether err is the node's entry/object-not-found
// answer, which callers treat as an empty result rather than a failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == "entryNotFound" || apiErr.Code == "objectNotFound"
}

// PushEvent is a raw subscription stream message.
type PushEvent struct {
	Type    string
	Payload json.RawMessage
}

// Client is a connected XRPL websocket client.
type Client struct {
	conn *websocket.Conn
	log  logrus.FieldLogger

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[uint64]chan response
	nextID    atomic.Uint64

	events chan PushEvent

	closeOnce sync.Once
	closed    chan struct{}
}

type response struct {
	result json.RawMessage
	err    error
}

type envelope struct {
	ID     uint64          `json:"id,omitempty"`
	Type   string          `json:"type,omitempty"`
	Status string          `json:"status,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	ErrMsg string          `json:"error_message,omitempty"`
}

// Dial connects to a node websocket endpoint and starts the read loop.
func Dial(ctx context.Context, url string, log logrus.FieldLogger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("rpcclient: dial %s: %w", url, err)
	}
	conn.SetReadLimit(readLimit)

	c := &Client{
		conn:    conn,
		log:     log.WithField("endpoint", url),
		pending: make(map[uint64]chan response),
		events:  make(chan PushEvent, eventQueueSize),
		closed:  make(chan struct{}),
	}

	go c.readLoop()
	go c.pingLoop()
	return c, nil
}

// Close tears the connection down. Pending requests fail with ErrClosed.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close()
		c.failPending(ErrClosed)
	})
	return err
}

// Events returns the pushed subscription stream. The channel closes when
// the connection ends.
func (c *Client) Events() <-chan PushEvent {
	return c.events
}

// Request sends one command and waits for its response. The params map is
// merged into the request object at the top level, as the XRPL websocket
// protocol expects.
func (c *Client) Request(ctx context.Context, command string, params map[string]any) (json.RawMessage, error) {
	select {
	case <-c.closed:
		return nil, ErrClosed
	default:
	}

	id := c.nextID.Add(1)

	request := make(map[string]any, len(params)+2)
	for k, v := range params {
		request[k] = v
	}
	request["id"] = id
	request["command"] = command

	ch := make(chan response, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	if err := c.write(request); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return nil, fmt.Errorf("rpcclient: send %s: %w", command, err)
	}

	select {
	case <-ctx.Done():
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return nil, ctx.Err()
	case resp := <-ch:
		if resp.err != nil {
			return nil, resp.err
		}
		return resp.result, nil
	}
}

func (c *Client) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(v)
}

// readLoop is the only sender on c.events, so it also closes the channel
// on the way out.
func (c *Client) readLoop() {
	defer c.Close()
	defer close(c.events)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("websocket read failed")
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.log.WithError(err).Warn("dropping unparseable message")
			continue
		}

		if env.Type == "response" || (env.Type == "" && env.ID != 0) {
			c.dispatchResponse(env)
			continue
		}

		select {
		case c.events <- PushEvent{Type: env.Type, Payload: message}:
		default:
			// Slow consumer. Dropping is safe: every event triggers a
			// full refetch, so the next delivered event resyncs.
			c.log.WithField("type", env.Type).Warn("event queue full, dropping event")
		}
	}
}

func (c *Client) dispatchResponse(env envelope) {
	c.pendingMu.Lock()
	ch, ok := c.pending[env.ID]
	delete(c.pending, env.ID)
	c.pendingMu.Unlock()

	if !ok {
		c.log.WithField("id", env.ID).Debug("response for unknown request id")
		return
	}

	if env.Status == "error" || env.Error != "" {
		ch <- response{err: &APIError{Code: env.Error, Message: env.ErrMsg}}
		return
	}
	ch <- response{result: env.Result}
}

func (c *Client) failPending(err error) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for id, ch := range c.pending {
		ch <- response{err: err}
		delete(c.pending, id)
	}
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.closed:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				c.log.WithError(err).Warn("websocket ping failed")
				return
			}
		}
	}
}
