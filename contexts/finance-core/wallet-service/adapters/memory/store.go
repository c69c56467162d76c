package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cliprewards/contexts/finance-core/wallet-service/domain/entities"
)

type Store struct {
	mu          sync.Mutex
	commissions []entities.Commission
	payouts     []entities.Payout
}

func NewStore() *Store {
	return &Store{}
}

// RecordCommission mirrors an approval credit into the read model; the
// in-memory wiring calls it where postgres deployments share tables.
func (s *Store) RecordCommission(commission entities.Commission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commissions = append(s.commissions, commission)
}

func (s *Store) RecordPayout(payout entities.Payout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payouts = append(s.payouts, payout)
}

func (s *Store) ListUserCommissions(_ context.Context, userID string) ([]entities.Commission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Commission, 0)
	for _, commission := range s.commissions {
		if commission.UserID == strings.TrimSpace(userID) {
			items = append(items, commission)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListUserPayouts(_ context.Context, userID string) ([]entities.Payout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.Payout, 0)
	for _, payout := range s.payouts {
		if payout.UserID == strings.TrimSpace(userID) {
			items = append(items, payout)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
