// Package wallet generates the per-user secp256k1 account created at
// registration.
package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

// GenerateAccount creates a fresh secp256k1 keypair and returns the
// 0x-prefixed hex private key and address. The address is the low 20
// bytes of the keccak-256 hash of the uncompressed public key with the
// 0x04 prefix byte stripped.
func GenerateAccount() (privateKey string, address string, err error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate key: %w", err)
	}

	addr := DeriveAddress(crypto.FromECDSAPub(&key.PublicKey))

	return "0x" + hex.EncodeToString(crypto.FromECDSA(key)), addr, nil
}

// DeriveAddress computes the account address for an uncompressed
// secp256k1 public key (65 bytes, 0x04 prefix).
func DeriveAddress(uncompressedPub []byte) string {
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressedPub[1:])
	sum := h.Sum(nil)
	return "0x" + hex.EncodeToString(common.BytesToAddress(sum[12:]).Bytes())
}
