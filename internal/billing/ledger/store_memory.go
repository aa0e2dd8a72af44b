package ledger

import (
	"context"
	"slices"
	"sync"

	"entitle/internal/billing/models"
)

// InMemoryStore keeps the ledger in process memory, preserving insertion
// order. It favors clarity over performance; the access pattern is a handful
// of user-triggered purchases, not a hot path.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []models.Transaction
}

// NewInMemoryStore creates an empty ledger.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Add(_ context.Context, t models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, t)
	return nil
}

func (s *InMemoryStore) GetAll(_ context.Context) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records), nil
}

func (s *InMemoryStore) GetByItem(_ context.Context, obfuscatedItemID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Transaction
	for _, t := range s.records {
		if t.ProductID == obfuscatedItemID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *InMemoryStore) IsPurchased(_ context.Context, obfuscatedItemID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.records {
		if t.ProductID == obfuscatedItemID && t.PurchaseState == models.StatePurchased {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) CountPurchases(_ context.Context, obfuscatedItemID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, t := range s.records {
		if t.ProductID == obfuscatedItemID && t.PurchaseState == models.StatePurchased {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) RemoveByItems(_ context.Context, obfuscatedItemIDs []string) error {
	if len(obfuscatedItemIDs) == 0 {
		return nil
	}
	doomed := make(map[string]struct{}, len(obfuscatedItemIDs))
	for _, id := range obfuscatedItemIDs {
		doomed[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = slices.DeleteFunc(s.records, func(t models.Transaction) bool {
		_, ok := doomed[t.ProductID]
		return ok
	})
	return nil
}
