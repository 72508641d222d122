package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"RocketClient/internal/backend"
	"RocketClient/internal/telemetry"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 65536
)

var (
	ErrNotConnected     = errors.New("chat socket is not open")
	ErrAlreadyConnected = errors.New("chat socket already open")
	ErrConnectCanceled  = errors.New("chat connect canceled")
)

// Handler receives every validated inbound frame, in arrival order, on the
// socket's read goroutine.
type Handler func(msg backend.ChatMessage)

// Client owns at most one chat socket at a time. It never reconnects on its
// own: after the socket drops, Done is closed and the owner may Connect again.
type Client struct {
	url     string
	dialer  *websocket.Dialer
	header  http.Header
	logger  *slog.Logger
	inst    telemetry.Instruments
	onError func(error)

	mu         sync.Mutex
	writeMu    sync.Mutex
	conn       *websocket.Conn
	handler    Handler
	done       chan struct{}
	connecting bool
	cancelDial context.CancelFunc
}

// Option configures a Client
type Option func(*Client)

// WithJar sends the API client's cookies on the upgrade request
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) {
		d := *c.dialer
		d.Jar = jar
		c.dialer = &d
	}
}

// WithHeader adds headers to the upgrade request, e.g. Authorization
func WithHeader(h http.Header) Option {
	return func(c *Client) {
		for k, vs := range h {
			for _, v := range vs {
				c.header.Add(k, v)
			}
		}
	}
}

// WithErrorHandler receives frames that were dropped (as *FrameError) and
// the error that ended a connection
func WithErrorHandler(fn func(error)) Option {
	return func(c *Client) {
		c.onError = fn
	}
}

// WithInstruments sets the tracer and meter
func WithInstruments(inst telemetry.Instruments) Option {
	return func(c *Client) {
		c.inst = inst
	}
}

// NewClient creates a chat client for the ws:// or wss:// url
func NewClient(url string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	d := *websocket.DefaultDialer
	c := &Client{
		url:    url,
		dialer: &d,
		header: http.Header{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.inst = c.inst.OrGlobal()
	return c, nil
}

// Connect opens the socket and registers handler. It fails if a socket is
// already open or being opened. The lock is not held while dialing, so
// sends fail fast with ErrNotConnected and Close cancels the dial.
func (c *Client) Connect(ctx context.Context, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	c.mu.Lock()
	if c.conn != nil || c.connecting {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	dialCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.connecting = true
	c.cancelDial = cancel
	c.mu.Unlock()

	dialCtx, span := c.inst.Tracer.Start(dialCtx, "chat_connect")
	defer span.End()
	span.SetAttributes(attribute.String("url.full", c.url))

	conn, resp, err := c.dialer.DialContext(dialCtx, c.url, c.header)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.connecting = false
	c.cancelDial = nil

	if err == nil && dialCtx.Err() != nil {
		// canceled by Close or the caller after the handshake finished
		conn.Close()
		err = fmt.Errorf("%w: %v", ErrConnectCanceled, dialCtx.Err())
		resp = nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if resp != nil {
			return fmt.Errorf("failed to connect to chat: %w (HTTP %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("failed to connect to chat: %w", err)
	}

	c.conn = conn
	c.handler = handler
	c.done = make(chan struct{})

	go c.readPump(conn, c.done)
	go c.keepAlive(conn, c.done)

	c.logger.Info("connected to chat", "url", c.url)
	return nil
}

// Connected reports whether a socket is open
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Done returns a channel closed when the current socket ends, by Close or
// by the server. Without an open socket the channel is already closed.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

// SendMessage sends a chat message. Nothing is queued when the socket is
// closed; ErrNotConnected is returned instead.
func (c *Client) SendMessage(text string) error {
	return c.send(OutgoingMessage{Message: text})
}

// SendReaction reacts to the message with the given id
func (c *Client) SendReaction(messageID string) error {
	return c.send(OutgoingReaction{Type: TypeReaction, MessageID: messageID})
}

// Close releases the socket and forgets the handler, or cancels a pending
// Connect. Safe to call repeatedly.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.connecting && c.cancelDial != nil {
		c.cancelDial()
		c.mu.Unlock()
		c.logger.Info("canceled pending chat connect", "url", c.url)
		return nil
	}
	conn := c.conn
	if conn == nil {
		c.mu.Unlock()
		return nil
	}
	c.detach(conn)
	c.mu.Unlock()

	c.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	err := conn.Close()
	c.logger.Info("closed chat connection", "url", c.url)
	return err
}

func (c *Client) send(frame interface{}) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		c.inst.Count(context.Background(), "rocket.chat.frames.unsent", "Outbound chat frames refused because the socket was closed")
		return ErrNotConnected
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal frame: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	c.inst.Count(context.Background(), "rocket.chat.frames.sent", "Outbound chat frames")
	return nil
}

// detach forgets conn if it is still current. Caller holds c.mu.
func (c *Client) detach(conn *websocket.Conn) {
	if c.conn != conn {
		return
	}
	c.conn = nil
	c.handler = nil
	close(c.done)
}

func (c *Client) readPump(conn *websocket.Conn, done chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.detach(conn)
		c.mu.Unlock()
		conn.Close()
	}()

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ctx := context.Background()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
				// closed locally
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.logger.Warn("chat connection lost", "url", c.url, "error", err)
				}
				c.reportError(fmt.Errorf("chat connection ended: %w", err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		msg, err := ParseFrame(data)
		if err != nil {
			c.inst.Count(ctx, "rocket.chat.frames.dropped", "Inbound chat frames that failed validation")
			c.logger.Debug("dropped chat frame", "error", err)
			c.reportError(err)
			continue
		}

		handler := c.currentHandler(conn)
		if handler == nil {
			return
		}
		c.inst.Count(ctx, "rocket.chat.frames.received", "Inbound chat frames delivered to the handler")
		handler(msg)
	}
}

// currentHandler returns the handler while conn is still the open socket
func (c *Client) currentHandler(conn *websocket.Conn) Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != conn {
		return nil
	}
	return c.handler
}

func (c *Client) keepAlive(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (c *Client) reportError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}
