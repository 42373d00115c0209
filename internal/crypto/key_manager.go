package crypto

import (
	"encoding/base64"
	"errors"
	"os"
)

var (
	ErrMasterKeyNotSet  = errors.New("master key not set in environment")
	ErrInvalidMasterKey = errors.New("invalid master key: must be base64 of 32 bytes")
)

// KeyManager seals user signing keys under a process-wide master key so
// the privatekey column never holds a cleartext secret. The service keeps
// custody of every user's signing key; encryption at rest is the only
// hardening applied on top of that model.
type KeyManager struct {
	masterKey []byte
}

// NewKeyManager creates a key manager with the master key from the
// MASTER_KEY environment variable (base64, 32 bytes).
func NewKeyManager() (*KeyManager, error) {
	encoded := os.Getenv("MASTER_KEY")
	if encoded == "" {
		return nil, ErrMasterKeyNotSet
	}

	masterKey, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(masterKey) != 32 {
		return nil, ErrInvalidMasterKey
	}

	return &KeyManager{masterKey: masterKey}, nil
}

// SealPrivateKey encrypts a 0x-prefixed hex private key for storage.
func (km *KeyManager) SealPrivateKey(privateKeyHex string) (string, error) {
	return Encrypt(privateKeyHex, km.masterKey)
}

// OpenPrivateKey decrypts a sealed private key back to its hex form.
func (km *KeyManager) OpenPrivateKey(sealed string) (string, error) {
	return Decrypt(sealed, km.masterKey)
}
