package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
)

// Event names pushed by the server
const (
	EventAlert         = "alert"
	EventLiveOccupancy = "liveOccupancy"
)

const defaultPath = "/socket.io/"

// Client subscribes to the Socket.IO push stream over a WebSocket transport
type Client struct {
	endpoint   string
	namespace  string
	dialer     *websocket.Dialer
	newBackOff func() backoff.BackOff
}

var _ interfaces.EventStream = (*Client)(nil)

// Option customises the client
type Option func(*Client)

// WithNamespace sets the Socket.IO namespace, "/" by default
func WithNamespace(namespace string) Option {
	return func(c *Client) {
		if namespace != "" {
			c.namespace = namespace
		}
	}
}

// WithBackOff replaces the reconnect policy. The factory is called once per Subscribe.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(c *Client) {
		if factory != nil {
			c.newBackOff = factory
		}
	}
}

// WithHandshakeTimeout sets the WebSocket handshake timeout
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.dialer.HandshakeTimeout = timeout
		}
	}
}

// DefaultBackOff retries forever with exponential delay between 1s and 30s
func DefaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// New creates a stream client. baseURL is the server origin (http, https, ws or wss);
// the Socket.IO path is appended when baseURL has none.
func New(baseURL string, opts ...Option) (*Client, error) {
	endpoint, err := buildEndpoint(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:  endpoint,
		namespace: defaultNamespace,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		newBackOff: DefaultBackOff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the WebSocket URL dialed by the client
func (c *Client) Endpoint() string {
	return c.endpoint
}

func buildEndpoint(baseURL string) (string, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return "", goerr.New("stream URL is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", goerr.Wrap(err, "invalid stream URL", goerr.V("url", baseURL))
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", goerr.New("unsupported stream URL scheme", goerr.V("url", baseURL))
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultPath
	}

	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Subscribe implements interfaces.EventStream. It returns nil once ctx is cancelled and an
// error when the server rejects the connection or the reconnect policy gives up.
func (c *Client) Subscribe(ctx context.Context, token string, handler interfaces.StreamHandler) error {
	logger := ctxlog.From(ctx)
	b := c.newBackOff()
	b.Reset()

	for attempt := 1; ; attempt++ {
		handler.OnConnecting(ctx, attempt)
		connected, err := c.session(ctx, token, handler)
		if ctx.Err() != nil {
			handler.OnDisconnected(ctx, nil)
			return nil
		}
		handler.OnDisconnected(ctx, err)

		if errors.Is(err, model.ErrStreamRejected) {
			return err
		}
		if connected {
			b.Reset()
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return goerr.Wrap(err, "stream reconnect gave up", goerr.V("attempts", attempt))
		}
		logger.Info("stream disconnected, reconnecting", "error", err, "wait", wait, "attempt", attempt)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// session runs one connection until it ends. connected reports whether the namespace connect was acknowledged.
func (c *Client) session(ctx context.Context, token string, handler interfaces.StreamHandler) (bool, error) {
	logger := ctxlog.From(ctx)

	conn, resp, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return false, goerr.Wrap(err, "failed to dial stream",
				goerr.V("endpoint", c.endpoint),
				goerr.V("status", resp.StatusCode))
		}
		return false, goerr.Wrap(err, "failed to dial stream", goerr.V("endpoint", c.endpoint))
	}
	defer conn.Close()

	// Unblock ReadMessage when ctx is cancelled
	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	open, err := readOpen(conn, c.dialer.HandshakeTimeout)
	if err != nil {
		return false, err
	}
	logger.Debug("stream opened", "sid", open.SID, "ping_interval", open.PingInterval)

	connectPkt, err := encodeConnect(c.namespace, map[string]string{"token": token})
	if err != nil {
		return false, err
	}
	if err := conn.WriteMessage(websocket.TextMessage, connectPkt); err != nil {
		return false, goerr.Wrap(err, "failed to send connect packet")
	}

	connected := false
	liveness := open.liveness()
	for {
		if err := conn.SetReadDeadline(time.Now().Add(liveness)); err != nil {
			return connected, goerr.Wrap(err, "failed to set read deadline")
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return connected, goerr.Wrap(err, "stream closed by server")
			}
			return connected, goerr.Wrap(err, "failed to read stream")
		}
		if msgType != websocket.TextMessage {
			continue
		}

		f, err := decodeFrame(data)
		if err != nil {
			logger.Warn("dropping malformed stream frame", "error", err)
			continue
		}

		switch f.Engine {
		case enginePing:
			if err := conn.WriteMessage(websocket.TextMessage, encodePong(f.Payload)); err != nil {
				return connected, goerr.Wrap(err, "failed to send pong")
			}

		case engineClose:
			return connected, goerr.New("stream closed by server")

		case engineMessage:
			pkt := f.Socket
			if pkt.Namespace != c.namespace {
				continue
			}

			switch pkt.Type {
			case socketConnect:
				if !connected {
					connected = true
					handler.OnConnected(ctx)
				}

			case socketConnectError:
				return connected, goerr.Wrap(model.ErrStreamRejected, "server refused stream connection",
					goerr.V("reason", connectError(pkt.Data)))

			case socketDisconnect:
				return connected, goerr.New("stream disconnected by server")

			case socketEvent:
				c.dispatch(ctx, pkt.Data, handler)
				if pkt.AckID != nil {
					if err := conn.WriteMessage(websocket.TextMessage, encodeAck(c.namespace, *pkt.AckID)); err != nil {
						return connected, goerr.Wrap(err, "failed to send ack")
					}
				}
			}
		}
	}
}

func readOpen(conn *websocket.Conn, timeout time.Duration) (*openPayload, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, goerr.Wrap(err, "failed to set read deadline")
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read open packet")
	}
	f, err := decodeFrame(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode open packet")
	}
	if f.Engine != engineOpen {
		return nil, goerr.New("unexpected first packet", goerr.V("type", string(f.Engine)))
	}

	var open openPayload
	if err := json.Unmarshal(f.Payload, &open); err != nil {
		return nil, goerr.Wrap(err, "failed to decode open payload")
	}
	return &open, nil
}

func (c *Client) dispatch(ctx context.Context, data json.RawMessage, handler interfaces.StreamHandler) {
	logger := ctxlog.From(ctx)

	name, args, err := decodeEvent(data)
	if err != nil {
		logger.Warn("dropping malformed stream event", "error", err)
		return
	}
	if len(args) == 0 {
		logger.Warn("dropping stream event without payload", "event", name)
		return
	}

	switch name {
	case EventAlert:
		var alert model.Alert
		if err := json.Unmarshal(args[0], &alert); err != nil {
			logger.Warn("dropping malformed alert", "error", err)
			return
		}
		if alert.ID == "" {
			alert.ID = types.NewEventID()
		}
		handler.OnAlert(ctx, alert)

	case EventLiveOccupancy:
		var event model.LiveOccupancy
		if err := json.Unmarshal(args[0], &event); err != nil {
			logger.Warn("dropping malformed live occupancy", "error", err)
			return
		}
		handler.OnLiveOccupancy(ctx, event)

	default:
		logger.Debug("ignoring stream event", "event", name)
	}
}
