package application

import (
	"context"
	"log/slog"
	"strings"

	"cliprewards/contexts/identity-access/connected-accounts/domain/entities"
	domainerrors "cliprewards/contexts/identity-access/connected-accounts/domain/errors"
	"cliprewards/contexts/identity-access/connected-accounts/ports"
)

type ConnectAccountCommand struct {
	UserID      string
	Platform    string
	Handle      string
	AccessToken string
}

// Service manages creator platform connections and serves as the credential
// store for the reconciliation engine. Decrypted tokens are returned to the
// caller and nowhere else: not stored, not logged, not wrapped in errors.
type Service struct {
	Repository ports.Repository
	Sealer     ports.TokenSealer
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (s Service) ConnectAccount(ctx context.Context, cmd ConnectAccountCommand) (entities.ConnectedAccount, error) {
	logger := resolveLogger(s.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	platform := strings.ToLower(strings.TrimSpace(cmd.Platform))
	if userID == "" || platform == "" || strings.TrimSpace(cmd.AccessToken) == "" {
		return entities.ConnectedAccount{}, domainerrors.ErrInvalidAccountInput
	}

	sealed, err := s.Sealer.Seal(cmd.AccessToken)
	if err != nil {
		return entities.ConnectedAccount{}, err
	}
	now := s.Clock.Now().UTC()

	account, err := s.Repository.GetAccount(ctx, userID, platform)
	if err == nil {
		account.Handle = strings.TrimSpace(cmd.Handle)
		account.SealedToken = sealed
		account.Status = entities.AccountStatusActive
		account.UpdatedAt = now
	} else {
		accountID, idErr := s.IDGen.NewID(ctx)
		if idErr != nil {
			return entities.ConnectedAccount{}, idErr
		}
		account = entities.ConnectedAccount{
			AccountID:   accountID,
			UserID:      userID,
			Platform:    platform,
			Handle:      strings.TrimSpace(cmd.Handle),
			SealedToken: sealed,
			Status:      entities.AccountStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	if !account.ValidateUpsert() {
		return entities.ConnectedAccount{}, domainerrors.ErrInvalidAccountInput
	}
	if err := s.Repository.UpsertAccount(ctx, account); err != nil {
		return entities.ConnectedAccount{}, err
	}

	logger.Info("platform account connected",
		"event", "account_connected",
		"module", "identity-access/connected-accounts",
		"layer", "application",
		"account_id", account.AccountID,
		"user_id", account.UserID,
		"platform", account.Platform,
	)
	return account, nil
}

func (s Service) RevokeAccount(ctx context.Context, userID string, platform string) error {
	logger := resolveLogger(s.Logger)
	userID = strings.TrimSpace(userID)
	platform = strings.ToLower(strings.TrimSpace(platform))
	if userID == "" || platform == "" {
		return domainerrors.ErrInvalidAccountInput
	}
	now := s.Clock.Now().UTC()
	if err := s.Repository.RevokeAccount(ctx, userID, platform, now); err != nil {
		return err
	}
	logger.Info("platform account revoked",
		"event", "account_revoked",
		"module", "identity-access/connected-accounts",
		"layer", "application",
		"user_id", userID,
		"platform", platform,
	)
	return nil
}

func (s Service) ListAccounts(ctx context.Context, userID string) ([]entities.ConnectedAccount, error) {
	return s.Repository.ListAccounts(ctx, strings.TrimSpace(userID))
}

func (s Service) GetAccount(ctx context.Context, userID string, platform string) (entities.ConnectedAccount, error) {
	return s.Repository.GetAccount(ctx, strings.TrimSpace(userID), strings.ToLower(strings.TrimSpace(platform)))
}

// AccessToken opens the sealed token of an active account.
func (s Service) AccessToken(ctx context.Context, userID string, platform string) (string, error) {
	account, err := s.GetAccount(ctx, userID, platform)
	if err != nil {
		return "", err
	}
	if !account.Active() {
		return "", domainerrors.ErrAccountRevoked
	}
	return s.Sealer.Open(account.SealedToken)
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// StaticAdminDirectory is the fixed admin allow-list used until a real role
// service fronts this module.
type StaticAdminDirectory struct {
	admins map[string]struct{}
}

func NewStaticAdminDirectory(userIDs []string) StaticAdminDirectory {
	admins := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id != "" {
			admins[id] = struct{}{}
		}
	}
	return StaticAdminDirectory{admins: admins}
}

func (d StaticAdminDirectory) IsAdmin(_ context.Context, userID string) bool {
	_, ok := d.admins[strings.TrimSpace(userID)]
	return ok
}
