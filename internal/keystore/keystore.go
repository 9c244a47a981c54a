// Package keystore persists the small pieces of device-local identity: the
// raw secret key, the generated device id, and the optional custom device
// name. Values live in the OS-native keychain (macOS Keychain, Windows
// Credential Manager, Secret Service on Linux) behind a KeyValueStore
// interface so tests and headless environments can swap in memory.
//
// The secret key is stored raw under a single constant name with no
// passphrase wrapping. Known weak point: a production hardening pass should
// wrap it with a user-supplied passphrase through a KDF before persisting.
package keystore

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"

	"github.com/photovault/photovault/internal/cryptox"
)

const (
	// ServiceName scopes our entries in the OS keychain.
	ServiceName = "photovault"

	secretKeyName  = "secret_key"
	deviceIDName   = "device_id"
	deviceNameName = "device_name"
)

// KeyValueStore is the minimal persistence surface the keystore needs.
// Get reports presence explicitly: a missing value is (_, false, nil),
// not an error. Delete of a missing value is a no-op.
type KeyValueStore interface {
	Get(name string) (value string, ok bool, err error)
	Set(name, value string) error
	Delete(name string) error
}

// Keystore wraps a KeyValueStore with the typed operations the client uses.
type Keystore struct {
	kv KeyValueStore
}

func New(kv KeyValueStore) *Keystore {
	return &Keystore{kv: kv}
}

// StoreSecretKey persists the raw 32-byte secret key.
func (k *Keystore) StoreSecretKey(secretKey []byte) error {
	if len(secretKey) != cryptox.KeySize {
		return fmt.Errorf("refusing to store secret key of %d bytes", len(secretKey))
	}
	return k.kv.Set(secretKeyName, base64.StdEncoding.EncodeToString(secretKey))
}

// LoadSecretKey returns the stored key, or ok=false when none is stored.
func (k *Keystore) LoadSecretKey() ([]byte, bool, error) {
	v, ok, err := k.kv.Get(secretKeyName)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load secret key: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	key, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, false, fmt.Errorf("stored secret key is corrupt: %w", err)
	}
	return key, true, nil
}

// ClearSecretKey removes the stored key. Safe to call when none exists.
func (k *Keystore) ClearSecretKey() error {
	return k.kv.Delete(secretKeyName)
}

// DeviceID returns the stable device identifier, generating and persisting
// one on first use.
func (k *Keystore) DeviceID() (string, error) {
	v, ok, err := k.kv.Get(deviceIDName)
	if err != nil {
		return "", fmt.Errorf("failed to load device id: %w", err)
	}
	if ok {
		return v, nil
	}

	id := uuid.NewString()
	if err := k.kv.Set(deviceIDName, id); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}
	return id, nil
}

// DeviceName returns the user-chosen device name, empty when unset.
func (k *Keystore) DeviceName() (string, error) {
	v, _, err := k.kv.Get(deviceNameName)
	if err != nil {
		return "", fmt.Errorf("failed to load device name: %w", err)
	}
	return v, nil
}

// SetDeviceName stores the custom device name.
func (k *Keystore) SetDeviceName(name string) error {
	return k.kv.Set(deviceNameName, name)
}
