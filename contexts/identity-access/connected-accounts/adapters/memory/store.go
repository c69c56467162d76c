package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"cliprewards/contexts/identity-access/connected-accounts/domain/entities"
	domainerrors "cliprewards/contexts/identity-access/connected-accounts/domain/errors"

	"github.com/google/uuid"
)

// Store keeps connected accounts in memory for local runs and tests.
type Store struct {
	mu       sync.Mutex
	accounts map[string]entities.ConnectedAccount
}

func NewStore() *Store {
	return &Store{accounts: make(map[string]entities.ConnectedAccount)}
}

func accountKey(userID, platform string) string {
	return strings.TrimSpace(userID) + "|" + strings.ToLower(strings.TrimSpace(platform))
}

func (s *Store) UpsertAccount(_ context.Context, account entities.ConnectedAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountKey(account.UserID, account.Platform)] = account
	return nil
}

func (s *Store) GetAccount(_ context.Context, userID string, platform string) (entities.ConnectedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountKey(userID, platform)]
	if !ok {
		return entities.ConnectedAccount{}, domainerrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) ListAccounts(_ context.Context, userID string) ([]entities.ConnectedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.ConnectedAccount, 0)
	for _, account := range s.accounts {
		if account.UserID == strings.TrimSpace(userID) {
			items = append(items, account)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) RevokeAccount(_ context.Context, userID string, platform string, revokedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := accountKey(userID, platform)
	account, ok := s.accounts[key]
	if !ok {
		return domainerrors.ErrAccountNotFound
	}
	account.Status = entities.AccountStatusRevoked
	account.UpdatedAt = revokedAt.UTC()
	s.accounts[key] = account
	return nil
}

// UUIDGenerator creates account identifiers for in-memory wiring.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// SystemClock is the wall clock used by in-memory wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
