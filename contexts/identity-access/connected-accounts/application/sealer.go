package application

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"

	domainerrors "cliprewards/contexts/identity-access/connected-accounts/domain/errors"
)

// AESSealer seals access tokens with AES-256-GCM. The nonce is prepended to
// the ciphertext so a sealed token is a single opaque blob.
type AESSealer struct {
	aead cipher.AEAD
}

func NewAESSealer(hexKey string) (*AESSealer, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != 32 {
		return nil, domainerrors.ErrInvalidSealKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, domainerrors.ErrInvalidSealKey
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, domainerrors.ErrInvalidSealKey
	}
	return &AESSealer{aead: aead}, nil
}

func (s *AESSealer) Seal(plaintext string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

func (s *AESSealer) Open(sealed []byte) (string, error) {
	if len(sealed) < s.aead.NonceSize() {
		return "", domainerrors.ErrCredentialSealed
	}
	nonce := sealed[:s.aead.NonceSize()]
	plaintext, err := s.aead.Open(nil, nonce, sealed[s.aead.NonceSize():], nil)
	if err != nil {
		return "", domainerrors.ErrCredentialSealed
	}
	return string(plaintext), nil
}
