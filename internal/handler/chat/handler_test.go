package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfsandbox/camacho-chat/internal/model/chat"
	"github.com/mfsandbox/camacho-chat/internal/service/history"
)

type fakeGenerator struct {
	reply string
	err   error
	prior []chat.Message
}

func (f *fakeGenerator) GenerateReply(_ context.Context, prior []chat.Message, _ string) (string, error) {
	f.prior = prior
	return f.reply, f.err
}

func setupRouter(gen Generator) (*chi.Mux, *history.Service) {
	historySvc := history.NewService()
	handler := New(historySvc, gen, nil, func(*http.Request) bool { return true })

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, historySvc
}

func postChat(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsReply(t *testing.T) {
	gen := &fakeGenerator{reply: "Greetings, citizen!"}
	r, historySvc := setupRouter(gen)

	resp := postChat(r, `{"message":"Hello"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"reply":"Greetings, citizen!"}`, resp.Body.String())

	assert.Equal(t, []chat.Message{
		chat.UserMessage("Hello"),
		chat.BotMessage("Greetings, citizen!"),
	}, historySvc.Transcript(context.Background()))
}

func TestChatPassesPriorHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "ok"}
	r, _ := setupRouter(gen)

	postChat(r, `{"message":"first"}`)
	postChat(r, `{"message":"second"}`)

	assert.Equal(t, []chat.Message{chat.UserMessage("first"), chat.BotMessage("ok")}, gen.prior)
}

func TestChatInvalidBody(t *testing.T) {
	r, historySvc := setupRouter(&fakeGenerator{reply: "ok"})

	for name, body := range map[string]string{
		"malformed": `not json`,
		"missing":   `{}`,
		"blank":     `{"message":"   "}`,
	} {
		assert.Equal(t, http.StatusBadRequest, postChat(r, body).Code, name)
	}
	assert.Empty(t, historySvc.Transcript(context.Background()))
}

func TestChatGenerationFailure(t *testing.T) {
	r, historySvc := setupRouter(&fakeGenerator{err: errors.New("model down")})

	resp := postChat(r, `{"message":"Help"}`)
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), generationFailed)
	assert.NotContains(t, resp.Body.String(), "model down")

	assert.Equal(t, []chat.Message{chat.UserMessage("Help")}, historySvc.Transcript(context.Background()),
		"user message is kept when generation fails")
}

func TestChatWithoutGenerator(t *testing.T) {
	r, _ := setupRouter(nil)

	assert.Equal(t, http.StatusServiceUnavailable, postChat(r, `{"message":"Hello"}`).Code)
}

func TestReset(t *testing.T) {
	r, historySvc := setupRouter(&fakeGenerator{reply: "ok"})
	postChat(r, `{"message":"Hello"}`)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/reset", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"Conversation history reset"}`, resp.Body.String())
	assert.Empty(t, historySvc.Transcript(context.Background()))
}

func TestHistoryListsEntries(t *testing.T) {
	r, historySvc := setupRouter(&fakeGenerator{reply: "Greetings, citizen!"})

	getHistory := func() historyResponse {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/history", nil))
		require.Equal(t, http.StatusOK, resp.Code)

		var body historyResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		return body
	}

	empty := getHistory()
	assert.Equal(t, historySvc.SessionID(), empty.SessionID)
	assert.Empty(t, empty.Entries)

	postChat(r, `{"message":"Hello"}`)

	body := getHistory()
	require.Len(t, body.Entries, 2)
	for i, want := range []chat.Message{chat.UserMessage("Hello"), chat.BotMessage("Greetings, citizen!")} {
		entry := body.Entries[i]
		assert.Equal(t, want, entry.Message)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, body.SessionID, entry.SessionID)
		assert.False(t, entry.CreatedAt.IsZero())
	}
}

func TestWebSocketExchange(t *testing.T) {
	r, _ := setupRouter(&fakeGenerator{reply: "Greetings, citizen!"})
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	for _, tc := range []struct {
		message   string
		wantReply string
		wantError string
	}{
		{message: "Hello", wantReply: "Greetings, citizen!"},
		{message: "  ", wantError: errMessageRequired.Error()},
	} {
		require.NoError(t, conn.WriteJSON(chat.Request{Message: tc.message}))

		var frame chat.Reply
		require.NoError(t, conn.ReadJSON(&frame))

		if tc.wantReply != "" {
			require.NotNil(t, frame.Reply, "frame for %q", tc.message)
			assert.Equal(t, tc.wantReply, *frame.Reply)
		}
		assert.Equal(t, tc.wantError, frame.Error, "frame for %q", tc.message)
	}
}
