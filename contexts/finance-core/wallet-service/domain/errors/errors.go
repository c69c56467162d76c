package errors

import "errors"

var (
	ErrInvalidWalletQuery = errors.New("invalid wallet query")
)
