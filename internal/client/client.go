// Package client talks to the remote chat endpoint. Every failure mode is
// reported as ErrRemoteUnavailable so callers can substitute a fallback.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mfsandbox/camacho-chat/internal/model/chat"
)

// ErrRemoteUnavailable covers network errors, non-2xx statuses and
// malformed or missing replies.
var ErrRemoteUnavailable = errors.New("remote reply unavailable")

const maxReplyBytes = 1 << 20

// Replier fetches the bot reply for a piece of user text.
type Replier interface {
	Reply(ctx context.Context, text string) (string, error)
}

// HTTPClient posts each message to <baseURL>/chat.
type HTTPClient struct {
	endpoint string
	http     *http.Client
}

// NewHTTPClient builds a client for the given base URL. A nil httpClient
// uses a client without a timeout; the transport decides how long a call may take.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/chat",
		http:     httpClient,
	}
}

// Endpoint returns the resolved chat URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Reply implements Replier.
func (c *HTTPClient) Reply(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(chat.Request{Message: text})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrRemoteUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrRemoteUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d: %s", ErrRemoteUnavailable, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return decodeReply(raw)
}

func decodeReply(raw []byte) (string, error) {
	var payload chat.Reply
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%w: malformed reply: %v", ErrRemoteUnavailable, err)
	}
	if payload.Reply == nil {
		if payload.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrRemoteUnavailable, payload.Error)
		}
		return "", fmt.Errorf("%w: reply field missing", ErrRemoteUnavailable)
	}
	return *payload.Reply, nil
}

// New picks a Replier for the configured transport.
func New(transport, baseURL string) (Replier, error) {
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "", "http":
		return NewHTTPClient(baseURL, nil), nil
	case "ws", "websocket":
		return NewWSClient(baseURL, 10*time.Second)
	default:
		return nil, fmt.Errorf("unknown transport %q", transport)
	}
}
