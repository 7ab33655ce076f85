package auth_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/frontdesk/internal/domain/repository"
	"github.com/dropDatabas3/frontdesk/internal/domain/types"
	"github.com/dropDatabas3/frontdesk/internal/util"
)

// fakeStore implementa repository.Store en memoria para los tests de
// services. ConsumeSession replica la semántica condicional del UPDATE
// de Postgres: exactamente un ganador bajo concurrencia.
type fakeStore struct {
	mu sync.Mutex

	tenants  map[string]*types.Tenant
	users    map[string]*types.TenantUser
	sessions map[string]*types.Session
	creds    map[string]*types.SquareCredential
	agents   map[string]*types.Agent
	plans    map[string]*types.Plan
}

func newFakeStore() *fakeStore {
	f := &fakeStore{
		tenants:  map[string]*types.Tenant{},
		users:    map[string]*types.TenantUser{},
		sessions: map[string]*types.Session{},
		creds:    map[string]*types.SquareCredential{},
		agents:   map[string]*types.Agent{},
		plans:    map[string]*types.Plan{},
	}
	f.plans["base"] = &types.Plan{ID: uuid.NewString(), Code: "base", Name: "Base plan"}
	return f
}

// ─── Tenants ───

func (f *fakeStore) CreateTenantWithOwner(_ context.Context, in repository.CreateTenantInput) (*types.Tenant, *types.TenantUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.plans[in.PlanCode]; !ok {
		return nil, nil, repository.ErrBasePlanMissing
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, in.OwnerEmail) {
			return nil, nil, repository.ErrDuplicateEmail
		}
	}

	slug := util.Slugify(in.BusinessName)
	base := slug
	for i := 1; f.slugTaken(slug); i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	trialEnds := time.Now().AddDate(0, 0, in.TrialDays).UTC()
	tenant := &types.Tenant{
		ID:           uuid.NewString(),
		Slug:         slug,
		BusinessName: in.BusinessName,
		Status:       types.TenantPending,
		Timezone:     in.Timezone,
		Industry:     in.Industry,
		TrialEndsAt:  &trialEnds,
		CreatedAt:    time.Now().UTC(),
	}
	owner := &types.TenantUser{
		ID:           uuid.NewString(),
		TenantID:     tenant.ID,
		Email:        in.OwnerEmail,
		PasswordHash: in.PasswordHash,
		Role:         types.RoleOwner,
		DisplayName:  in.OwnerName,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	f.tenants[tenant.ID] = tenant
	f.users[owner.ID] = owner
	return tenant, owner, nil
}

func (f *fakeStore) slugTaken(slug string) bool {
	for _, t := range f.tenants {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

func (f *fakeStore) GetTenant(_ context.Context, id string) (*types.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tenants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) GetTenantBySlug(_ context.Context, slug string) (*types.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tenants {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, repository.ErrNotFound
}

// ─── Users ───

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*types.TenantUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*types.TenantUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) TouchLastLogin(_ context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

// ─── Sessions ───

func (f *fakeStore) CreateSession(_ context.Context, in repository.CreateSessionInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[in.ID] = &types.Session{
		ID:          in.ID,
		UserID:      in.UserID,
		TenantID:    in.TenantID,
		RefreshHash: in.RefreshHash,
		UserAgent:   in.UserAgent,
		IP:          in.IP,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   time.Now().UTC(),
	}
	return nil
}

func (f *fakeStore) GetSession(_ context.Context, id string) (*types.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *fakeStore) ConsumeSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if s.RevokedAt != nil {
		return repository.ErrAlreadyRevoked
	}
	now := time.Now().UTC()
	s.RevokedAt = &now
	return nil
}

func (f *fakeStore) RevokeSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if s.RevokedAt == nil {
		now := time.Now().UTC()
		s.RevokedAt = &now
	}
	return nil
}

func (f *fakeStore) RevokeAllSessions(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for _, s := range f.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			n++
		}
	}
	return n, nil
}

// ─── Credentials ───

func (f *fakeStore) UpsertSquareCredential(_ context.Context, cred *types.SquareCredential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds[cred.TenantID+"|"+cred.MerchantID] = cred
	return nil
}

func (f *fakeStore) LatestSquareCredential(_ context.Context, tenantID string) (*types.SquareCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *types.SquareCredential
	for _, c := range f.creds {
		if c.TenantID != tenantID {
			continue
		}
		if latest == nil || c.LastRefreshedAt.After(latest.LastRefreshedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

// ─── Agents ───

func (f *fakeStore) GetAgentByRetellID(_ context.Context, id string) (*types.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.agents {
		if a.RetellAgentID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetAgentByBearerHash(_ context.Context, hash string) (*types.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.agents {
		if a.BearerHash == hash {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) StoreAgentBearerToken(_ context.Context, agentID, enc, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.agents[agentID]
	if !ok {
		return repository.ErrNotFound
	}
	a.BearerTokenEnc = enc
	a.BearerHash = hash
	return nil
}

func (f *fakeStore) CreateAgent(_ context.Context, a *types.Agent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.agents[a.ID] = a
	return nil
}

// ─── Plans ───

func (f *fakeStore) GetPlanByCode(_ context.Context, code string) (*types.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plans[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) SeedPlan(_ context.Context, code, name string) (*types.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.plans[code]; ok {
		return p, nil
	}
	p := &types.Plan{ID: uuid.NewString(), Code: code, Name: name, CreatedAt: time.Now().UTC()}
	f.plans[code] = p
	return p, nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close()                     {}

// dropPlans simula un deployment sin plan base sembrado.
func (f *fakeStore) dropPlans() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans = map[string]*types.Plan{}
}
