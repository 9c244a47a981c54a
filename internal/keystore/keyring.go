package keystore

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// KeyringStore backs the keystore with the OS-native keychain.
type KeyringStore struct {
	service string
}

func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: ServiceName}
}

func (s *KeyringStore) Get(name string) (string, bool, error) {
	v, err := keyring.Get(s.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *KeyringStore) Set(name, value string) error {
	return keyring.Set(s.service, name, value)
}

func (s *KeyringStore) Delete(name string) error {
	err := keyring.Delete(s.service, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
