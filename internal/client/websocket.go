package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mfsandbox/camacho-chat/internal/model/chat"
)

// WSClient exchanges one request/reply frame pair per turn over the
// backend's /ws route. Each turn dials its own connection so overlapping
// turns never read each other's replies.
type WSClient struct {
	endpoint string
	dialer   *websocket.Dialer
}

// NewWSClient converts an http(s) base URL into the matching ws(s) endpoint.
func NewWSClient(baseURL string, handshakeTimeout time.Duration) (*WSClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path += "/ws"

	return &WSClient{
		endpoint: u.String(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}, nil
}

// Endpoint returns the resolved websocket URL.
func (c *WSClient) Endpoint() string {
	return c.endpoint
}

// Reply implements Replier.
func (c *WSClient) Reply(ctx context.Context, text string) (string, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("%w: dial status %d: %v", ErrRemoteUnavailable, resp.StatusCode, err)
		}
		return "", fmt.Errorf("%w: dial: %v", ErrRemoteUnavailable, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	// Unblock the read below if the caller's context ends first.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := conn.WriteJSON(chat.Request{Message: text}); err != nil {
		return "", fmt.Errorf("%w: write: %v", ErrRemoteUnavailable, err)
	}

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("%w: read: %v", ErrRemoteUnavailable, err)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return decodeReply(raw)
}
