// Package common defines shared constants and sentinel errors used across
// client and server layers of PhotoVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Crypto errors (bad key material — fatal for the operation).
	ErrInvalidKeyLength = errors.New("invalid key length")
	ErrEntropyFailure   = errors.New("entropy source failure")

	// ErrUnverifiable marks data whose authentication tag did not check out:
	// tampered ciphertext, wrong key or wrong nonce. Callers must treat it as
	// "cannot verify, discard", never as empty plaintext, and must not retry
	// with the same key.
	ErrUnverifiable = errors.New("data could not be verified")

	// ErrMalformedPhrase is returned for recovery phrases that do not decode
	// to a full-length key.
	ErrMalformedPhrase = errors.New("malformed recovery phrase")

	// Storage errors.
	ErrBackendUnavailable = errors.New("storage backend unavailable")
	ErrInvalidCID         = errors.New("invalid content identifier")

	// ErrRateLimited is surfaced by endpoints when a caller exceeds its
	// request budget.
	ErrRateLimited = errors.New("rate limit exceeded")
)
