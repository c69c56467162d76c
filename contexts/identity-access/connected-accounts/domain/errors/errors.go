package errors

import "errors"

var (
	ErrAccountNotFound     = errors.New("connected account not found")
	ErrAccountRevoked      = errors.New("connected account revoked")
	ErrInvalidAccountInput = errors.New("invalid connected account input")
	ErrInvalidSealKey      = errors.New("credential seal key must be 32 bytes of hex")
	ErrCredentialSealed    = errors.New("credential could not be opened")
)
