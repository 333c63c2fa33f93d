package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	domainUser "github.com/tenantcore/tenantcore/internal/domain/user"
	ierr "github.com/tenantcore/tenantcore/internal/errors"
	"github.com/tenantcore/tenantcore/internal/types"
)

type InMemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domainUser.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users: make(map[int64]*domainUser.User),
	}
}

func (s *InMemoryUserStore) Create(ctx context.Context, u *domainUser.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt

	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *InMemoryUserStore) GetByID(ctx context.Context, id int64) (*domainUser.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[id]
	if !exists {
		return nil, ierr.NewError("user not found").
			WithHintf("user not found for id: %d", id).
			Mark(ierr.ErrNotFound)
	}

	clone := *u
	return &clone, nil
}

func (s *InMemoryUserStore) ListByTenant(ctx context.Context, tenantID int64) ([]*domainUser.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domainUser.User, 0)
	for _, u := range s.users {
		if u.TenantID == tenantID {
			clone := *u
			users = append(users, &clone)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *InMemoryUserStore) Update(ctx context.Context, u *domainUser.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.ID]; !exists {
		return ierr.NewError("user not found").
			WithHintf("user not found for id: %d", u.ID).
			Mark(ierr.ErrNotFound)
	}

	u.UpdatedAt = time.Now().UTC()
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *InMemoryUserStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[id]; !exists {
		return ierr.NewError("user not found").
			WithHintf("user not found for id: %d", id).
			Mark(ierr.ErrNotFound)
	}

	delete(s.users, id)
	return nil
}

func (s *InMemoryUserStore) BulkSetActiveByTenant(ctx context.Context, tenantID int64, active bool, exemptAdmins bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for _, u := range s.users {
		if u.TenantID != tenantID {
			continue
		}
		if exemptAdmins && u.Role == types.UserRoleAdmin {
			continue
		}
		u.IsActive = active
		u.UpdatedAt = time.Now().UTC()
		affected++
	}
	return affected, nil
}

func (s *InMemoryUserStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = 0
	s.users = make(map[int64]*domainUser.User)
}
