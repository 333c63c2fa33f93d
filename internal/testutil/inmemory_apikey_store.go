package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	domainAPIKey "github.com/tenantcore/tenantcore/internal/domain/apikey"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
)

type InMemoryAPIKeyStore struct {
	mu     sync.RWMutex
	nextID int64
	keys   map[int64]*domainAPIKey.APIKey
}

func NewInMemoryAPIKeyStore() *InMemoryAPIKeyStore {
	return &InMemoryAPIKeyStore{
		keys: make(map[int64]*domainAPIKey.APIKey),
	}
}

func (s *InMemoryAPIKeyStore) Create(ctx context.Context, k *domainAPIKey.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	k.ID = s.nextID
	k.CreatedAt = time.Now().UTC()
	k.UpdatedAt = k.CreatedAt

	clone := *k
	s.keys[k.ID] = &clone
	return nil
}

func (s *InMemoryAPIKeyStore) GetByID(ctx context.Context, id int64) (*domainAPIKey.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	k, exists := s.keys[id]
	if !exists {
		return nil, ierr.NewError("api key not found").
			WithHintf("api key not found for id: %d", id).
			Mark(ierr.ErrNotFound)
	}

	clone := *k
	return &clone, nil
}

func (s *InMemoryAPIKeyStore) ListByTenant(ctx context.Context, tenantID int64) ([]*domainAPIKey.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]*domainAPIKey.APIKey, 0)
	for _, k := range s.keys {
		if k.TenantID == tenantID {
			clone := *k
			keys = append(keys, &clone)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID < keys[j].ID })
	return keys, nil
}

func (s *InMemoryAPIKeyStore) Update(ctx context.Context, k *domainAPIKey.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[k.ID]; !exists {
		return ierr.NewError("api key not found").
			WithHintf("api key not found for id: %d", k.ID).
			Mark(ierr.ErrNotFound)
	}

	k.UpdatedAt = time.Now().UTC()
	clone := *k
	s.keys[k.ID] = &clone
	return nil
}

func (s *InMemoryAPIKeyStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.keys[id]; !exists {
		return ierr.NewError("api key not found").
			WithHintf("api key not found for id: %d", id).
			Mark(ierr.ErrNotFound)
	}

	delete(s.keys, id)
	return nil
}

func (s *InMemoryAPIKeyStore) BulkSetActiveByTenant(ctx context.Context, tenantID int64, active bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for _, k := range s.keys {
		if k.TenantID != tenantID {
			continue
		}
		k.IsActive = active
		k.UpdatedAt = time.Now().UTC()
		affected++
	}
	return affected, nil
}

func (s *InMemoryAPIKeyStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = 0
	s.keys = make(map[int64]*domainAPIKey.APIKey)
}
