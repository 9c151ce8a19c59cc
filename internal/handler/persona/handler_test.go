package persona

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfsandbox/camacho-chat/internal/model/persona"
)

func setupRouter(activeID string) *chi.Mux {
	r := chi.NewRouter()
	New(persona.NewMemoryStore(persona.Seed()), activeID).RegisterRoutes(r)
	return r
}

func TestListPersonas(t *testing.T) {
	resp := httptest.NewRecorder()
	setupRouter(persona.DefaultID).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/personas", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var got []persona.Persona
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, persona.DefaultID, got[0].ID)
}

func TestActivePersona(t *testing.T) {
	resp := httptest.NewRecorder()
	setupRouter(persona.DefaultID).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/persona", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var got persona.Persona
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "President Camacho", got.Name)

	resp = httptest.NewRecorder()
	setupRouter("missing").ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/persona", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
