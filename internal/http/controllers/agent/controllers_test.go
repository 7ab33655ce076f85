package agent

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
	dto "github.com/dropDatabas3/frontdesk/internal/http/dto/agent"
	"github.com/dropDatabas3/frontdesk/internal/http/middlewares"
	"github.com/dropDatabas3/frontdesk/internal/security/secretbox"
	"github.com/dropDatabas3/frontdesk/internal/vault"
)

type stubCreds struct {
	byTenant map[string]*types.SquareCredential
}

func (s *stubCreds) UpsertSquareCredential(_ context.Context, c *types.SquareCredential) error {
	if s.byTenant == nil {
		s.byTenant = map[string]*types.SquareCredential{}
	}
	s.byTenant[c.TenantID] = c
	return nil
}

func (s *stubCreds) LatestSquareCredential(_ context.Context, tenantID string) (*types.SquareCredential, error) {
	c, ok := s.byTenant[tenantID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type stubAgents struct {
	byRetell map[string]*types.Agent
}

func (s *stubAgents) GetAgentByRetellID(_ context.Context, id string) (*types.Agent, error) {
	a, ok := s.byRetell[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (s *stubAgents) GetAgentByBearerHash(_ context.Context, _ string) (*types.Agent, error) {
	return nil, repository.ErrNotFound
}

func (s *stubAgents) StoreAgentBearerToken(_ context.Context, _, _, _ string) error { return nil }
func (s *stubAgents) CreateAgent(_ context.Context, _ *types.Agent) error           { return nil }

func newAgentRouter(t *testing.T, caller *types.Agent, agents *stubAgents, creds *stubCreds) http.Handler {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	box, err := secretbox.New(key)
	require.NoError(t, err)

	c := New(Deps{Vault: vault.New(box, creds, agents)})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middlewares.WithAgent(req.Context(), caller)))
		})
	})
	r.Get("/v1/agent/context/{retellAgentID}", c.ContextByRetellID)
	return r
}

func TestContextByRetellIDReturnsOwnContext(t *testing.T) {
	caller := &types.Agent{ID: "a-1", TenantID: "t-1", RetellAgentID: "retell-1"}
	agents := &stubAgents{byRetell: map[string]*types.Agent{"retell-1": caller}}
	h := newAgentRouter(t, caller, agents, &stubCreds{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/agent/context/retell-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ContextResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "t-1", resp.TenantID)
	assert.Equal(t, "retell-1", resp.AgentID)
	assert.False(t, resp.SquareConnected)
}

func TestContextByRetellIDRejectsForeignAgent(t *testing.T) {
	caller := &types.Agent{ID: "a-1", TenantID: "t-1", RetellAgentID: "retell-1"}
	other := &types.Agent{ID: "a-2", TenantID: "t-2", RetellAgentID: "retell-2"}
	agents := &stubAgents{byRetell: map[string]*types.Agent{
		"retell-1": caller,
		"retell-2": other,
	}}
	h := newAgentRouter(t, caller, agents, &stubCreds{})

	// el bearer de a-1 no puede leer el contexto de a-2
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/agent/context/retell-2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// id inexistente: misma respuesta
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/agent/context/retell-nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
