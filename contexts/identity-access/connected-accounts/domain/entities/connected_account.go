package entities

import (
	"strings"
	"time"
)

type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "active"
	AccountStatusRevoked AccountStatus = "revoked"
)

// ConnectedAccount links a creator to one external platform identity. The
// access token is stored sealed; only the credential store opens it, and
// only for the duration of a platform call.
type ConnectedAccount struct {
	AccountID   string
	UserID      string
	Platform    string
	Handle      string
	SealedToken []byte
	Status      AccountStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a ConnectedAccount) Active() bool {
	return a.Status == AccountStatusActive
}

func (a ConnectedAccount) ValidateUpsert() bool {
	return strings.TrimSpace(a.UserID) != "" &&
		strings.TrimSpace(a.Platform) != "" &&
		len(a.SealedToken) > 0
}
