package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfsandbox/camacho-chat/internal/model/chat"
)

func chatServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClientReply(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chat.Request
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			assert.Equal(t, "Hello", req.Message)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply":"Greetings, citizen!"}`))
	})

	c := NewHTTPClient(srv.URL+"/", nil)
	assert.Equal(t, srv.URL+"/chat", c.Endpoint())

	reply, err := c.Reply(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Greetings, citizen!", reply)
}

func TestHTTPClientFailuresAreRemoteUnavailable(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
		{
			name: "missing reply field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"answer":"wrong field"}`))
			},
		},
		{
			name: "reply field wrong type",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"reply":42}`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := chatServer(t, tc.handler)
			_, err := NewHTTPClient(srv.URL, nil).Reply(context.Background(), "Help")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRemoteUnavailable), "got %v", err)
		})
	}
}

func TestHTTPClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(url, nil).Reply(context.Background(), "Help")
	require.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestHTTPClientEmptyReplyIsVerbatim(t *testing.T) {
	srv := chatServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"reply":""}`))
	})

	reply, err := NewHTTPClient(srv.URL, nil).Reply(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestWSClientReply(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws", r.URL.Path)
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		var req chat.Request
		if !assert.NoError(t, conn.ReadJSON(&req)) {
			return
		}
		reply := "echo: " + req.Message
		_ = conn.WriteJSON(chat.Reply{Reply: &reply})
	})

	c, err := NewWSClient(srv.URL, 0)
	require.NoError(t, err)
	assert.Equal(t, "ws"+srv.URL[len("http"):]+"/ws", c.Endpoint())

	reply, err := c.Reply(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: Hello", reply)
}

func TestWSClientErrorFrame(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := chatServer(t, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		var req chat.Request
		_ = conn.ReadJSON(&req)
		_ = conn.WriteJSON(chat.Reply{Error: "ai unavailable"})
	})

	c, err := NewWSClient(srv.URL, 0)
	require.NoError(t, err)

	_, err = c.Reply(context.Background(), "Help")
	require.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestNewSelectsTransport(t *testing.T) {
	r, err := New("", "http://127.0.0.1:8000")
	require.NoError(t, err)
	assert.IsType(t, &HTTPClient{}, r)

	r, err = New("WS", "https://example.com")
	require.NoError(t, err)
	require.IsType(t, &WSClient{}, r)
	assert.Equal(t, "wss://example.com/ws", r.(*WSClient).Endpoint())

	_, err = New("carrier-pigeon", "http://127.0.0.1:8000")
	assert.Error(t, err)
}
