package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	domainTenant "github.com/tenantcore/tenantcore/internal/domain/tenant"
	"github.com/tenantcore/tenantcore/internal/types"
)

type InMemoryTenantStore struct {
	mu      sync.RWMutex
	nextID  int64
	tenants map[int64]*domainTenant.Tenant
}

func NewInMemoryTenantStore() *InMemoryTenantStore {
	return &InMemoryTenantStore{
		tenants: make(map[int64]*domainTenant.Tenant),
	}
}

func (s *InMemoryTenantStore) Create(ctx context.Context, t *domainTenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t.ID = s.nextID
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt

	clone := *t
	s.tenants[t.ID] = &clone
	return nil
}

func (s *InMemoryTenantStore) GetByID(ctx context.Context, id int64) (*domainTenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.tenants[id]
	if !exists {
		return nil, domainTenant.NewTenantNotFoundError(id)
	}

	clone := *t
	return &clone, nil
}

func (s *InMemoryTenantStore) List(ctx context.Context) ([]*domainTenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenants := make([]*domainTenant.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		clone := *t
		tenants = append(tenants, &clone)
	}
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].ID < tenants[j].ID })
	return tenants, nil
}

func (s *InMemoryTenantStore) ListByStatus(ctx context.Context, status types.TenantStatus) ([]*domainTenant.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenants := make([]*domainTenant.Tenant, 0)
	for _, t := range s.tenants {
		if t.Status == status {
			clone := *t
			tenants = append(tenants, &clone)
		}
	}
	sort.Slice(tenants, func(i, j int) bool { return tenants[i].ID < tenants[j].ID })
	return tenants, nil
}

func (s *InMemoryTenantStore) Update(ctx context.Context, t *domainTenant.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenants[t.ID]; !exists {
		return domainTenant.NewTenantNotFoundError(t.ID)
	}

	t.UpdatedAt = time.Now().UTC()
	clone := *t
	s.tenants[t.ID] = &clone
	return nil
}

func (s *InMemoryTenantStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tenants[id]; !exists {
		return domainTenant.NewTenantNotFoundError(id)
	}

	delete(s.tenants, id)
	return nil
}

func (s *InMemoryTenantStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = 0
	s.tenants = make(map[int64]*domainTenant.Tenant)
}
