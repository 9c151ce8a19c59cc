package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfsandbox/camacho-chat/internal/model/chat"
	"github.com/mfsandbox/camacho-chat/internal/model/persona"
	"github.com/mfsandbox/camacho-chat/internal/service/history"
)

type staticGenerator string

func (g staticGenerator) GenerateReply(context.Context, []chat.Message, string) (string, error) {
	return string(g), nil
}

func TestRouterChatWithCORS(t *testing.T) {
	r := NewRouter(Deps{
		History:     history.NewService(),
		Generator:   staticGenerator("Greetings, citizen!"),
		CORSOrigins: []string{"http://localhost:3000"},
	})

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(`{"message":"Hello"}`))
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"reply":"Greetings, citizen!"}`, rec.Body.String())
}

func TestRouterHealthz(t *testing.T) {
	historySvc := history.NewService()
	r := NewRouter(Deps{History: historySvc})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, historySvc.SessionID(), body["session"])
	assert.Equal(t, false, body["ai"])
}

func TestRouterPersona(t *testing.T) {
	r := NewRouter(Deps{
		History:   history.NewService(),
		Personas:  persona.NewMemoryStore(persona.Seed()),
		PersonaID: persona.DefaultID,
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/persona", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "President Camacho")
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://evil.test")
	assert.False(t, check(req))
}
