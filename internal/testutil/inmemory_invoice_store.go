package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	domainInvoice "github.com/tenantcore/tenantcore/internal/domain/invoice"
	"github.com/tenantcore/tenantcore/internal/types"
)

type sequenceKey struct {
	TenantID  int64
	Prefix    string
	YearMonth string
}

type InMemoryInvoiceStore struct {
	mu         sync.RWMutex
	nextID     int64
	nextItemID int64
	invoices   map[int64]*domainInvoice.Invoice
	sequences  map[sequenceKey]int64

	// CreateErr, when set, fails every Create call; used to simulate a
	// failing tenant inside a billing run
	CreateErr error
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		invoices:  make(map[int64]*domainInvoice.Invoice),
		sequences: make(map[sequenceKey]int64),
	}
}

func cloneInvoice(inv *domainInvoice.Invoice) *domainInvoice.Invoice {
	clone := *inv
	clone.LineItems = make([]*domainInvoice.LineItem, 0, len(inv.LineItems))
	for _, item := range inv.LineItems {
		itemClone := *item
		clone.LineItems = append(clone.LineItems, &itemClone)
	}
	return &clone
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *domainInvoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return s.CreateErr
	}

	s.nextID++
	inv.ID = s.nextID
	inv.CreatedAt = time.Now().UTC()
	inv.UpdatedAt = inv.CreatedAt

	for _, item := range inv.LineItems {
		s.nextItemID++
		item.ID = s.nextItemID
		item.InvoiceID = inv.ID
	}

	s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (s *InMemoryInvoiceStore) GetByID(ctx context.Context, id int64) (*domainInvoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, exists := s.invoices[id]
	if !exists || inv.Status == types.StatusDeleted {
		return nil, domainInvoice.NewInvoiceNotFoundError(id)
	}

	return cloneInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *domainInvoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID]; !exists {
		return domainInvoice.NewInvoiceNotFoundError(inv.ID)
	}

	inv.UpdatedAt = time.Now().UTC()
	s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, exists := s.invoices[id]
	if !exists || inv.Status == types.StatusDeleted {
		return domainInvoice.NewInvoiceNotFoundError(id)
	}

	inv.Status = types.StatusDeleted
	inv.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryInvoiceStore) matches(inv *domainInvoice.Invoice, filter *types.InvoiceFilter) bool {
	if inv.Status == types.StatusDeleted {
		return false
	}
	if filter == nil {
		return true
	}
	if filter.TenantID != nil && inv.TenantID != *filter.TenantID {
		return false
	}
	if filter.InvoiceStatus != nil && inv.InvoiceStatus != *filter.InvoiceStatus {
		return false
	}
	if filter.InvoiceType != nil && inv.InvoiceType != *filter.InvoiceType {
		return false
	}
	if filter.PeriodKey != nil && inv.PeriodKey != *filter.PeriodKey {
		return false
	}
	if filter.StartDate != nil && inv.InvoiceDate.Before(*filter.StartDate) {
		return false
	}
	if filter.EndDate != nil && inv.InvoiceDate.After(*filter.EndDate) {
		return false
	}
	return true
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*domainInvoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*domainInvoice.Invoice, 0)
	for _, inv := range s.invoices {
		if s.matches(inv, filter) {
			matched = append(matched, cloneInvoice(inv))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].InvoiceDate.Equal(matched[j].InvoiceDate) {
			return matched[i].InvoiceDate.After(matched[j].InvoiceDate)
		}
		return matched[i].ID > matched[j].ID
	})

	offset := 0
	if filter != nil {
		offset = filter.Offset
	}
	if offset >= len(matched) {
		return []*domainInvoice.Invoice{}, nil
	}
	matched = matched[offset:]

	limit := filter.GetLimit()
	if limit < len(matched) {
		matched = matched[:limit]
	}

	return matched, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, inv := range s.invoices {
		if s.matches(inv, filter) {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryInvoiceStore) ExistsForPeriod(ctx context.Context, tenantID int64, periodKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inv := range s.invoices {
		if inv.Status == types.StatusDeleted {
			continue
		}
		if inv.TenantID == tenantID && inv.PeriodKey == periodKey {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryInvoiceStore) NextSequence(ctx context.Context, tenantID int64, prefix string, yearMonth string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prefix == "" || yearMonth == "" {
		return 0, fmt.Errorf("sequence scope cannot be empty")
	}

	key := sequenceKey{TenantID: tenantID, Prefix: prefix, YearMonth: yearMonth}
	s.sequences[key]++
	return s.sequences[key], nil
}

func (s *InMemoryInvoiceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = 0
	s.nextItemID = 0
	s.invoices = make(map[int64]*domainInvoice.Invoice)
	s.sequences = make(map[sequenceKey]int64)
	s.CreateErr = nil
}
