// Package cryptox implements the client-side cryptographic layer: key-pair
// generation, authenticated symmetric encryption (XSalsa20-Poly1305 via NaCl
// secretbox), and the reversible recovery-phrase encoding of a raw secret
// key. The package does no I/O; the remote storage layer only ever sees the
// ciphertext produced here.
package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/photovault/photovault/internal/common"
)

const (
	// KeySize is the length of both halves of a key pair.
	KeySize = 32
	// NonceSize is the secretbox nonce length.
	NonceSize = 24
)

// KeyPair holds a freshly generated identity. The secret key is the root of
// trust for the device and must never be transmitted.
type KeyPair struct {
	PublicKey []byte
	SecretKey []byte
}

// EncryptedPayload carries authenticated ciphertext plus the nonce used to
// produce it, both base64 (std) encoded for transport and storage.
type EncryptedPayload struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// GenerateKeyPair produces a cryptographically random 32/32-byte key pair.
// It fails only on catastrophic entropy failure.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEntropyFailure, err)
	}
	return &KeyPair{PublicKey: pub[:], SecretKey: priv[:]}, nil
}

// Encrypt seals plaintext under secretKey with a fresh random 24-byte nonce.
// Reusing a nonce with the same key would void confidentiality, so the nonce
// is drawn from the CSPRNG on every call and returned alongside the
// ciphertext.
func Encrypt(plaintext, secretKey []byte) (*EncryptedPayload, error) {
	key, err := asKey(secretKey)
	if err != nil {
		return nil, err
	}

	var nonce [NonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEntropyFailure, err)
	}

	sealed := secretbox.Seal(nil, plaintext, &nonce, key)

	return &EncryptedPayload{
		Ciphertext: base64.StdEncoding.EncodeToString(sealed),
		Nonce:      base64.StdEncoding.EncodeToString(nonce[:]),
	}, nil
}

// Decrypt opens an EncryptedPayload. Any authentication failure — tampered
// ciphertext, wrong key, wrong nonce, or undecodable transport encoding —
// yields common.ErrUnverifiable so callers can distinguish "this data is not
// authentic" from network-level failures. It never returns partial
// plaintext.
func Decrypt(p *EncryptedPayload, secretKey []byte) ([]byte, error) {
	key, err := asKey(secretKey)
	if err != nil {
		return nil, err
	}

	sealed, err := base64.StdEncoding.DecodeString(p.Ciphertext)
	if err != nil {
		return nil, common.ErrUnverifiable
	}
	rawNonce, err := base64.StdEncoding.DecodeString(p.Nonce)
	if err != nil || len(rawNonce) != NonceSize {
		return nil, common.ErrUnverifiable
	}

	var nonce [NonceSize]byte
	copy(nonce[:], rawNonce)

	plaintext, ok := secretbox.Open(nil, sealed, &nonce, key)
	if !ok {
		return nil, common.ErrUnverifiable
	}
	return plaintext, nil
}

// asKey validates the key length. Truncated or padded keys must never be
// silently accepted.
func asKey(secretKey []byte) (*[KeySize]byte, error) {
	if len(secretKey) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", common.ErrInvalidKeyLength, len(secretKey), KeySize)
	}
	var key [KeySize]byte
	copy(key[:], secretKey)
	return &key, nil
}
