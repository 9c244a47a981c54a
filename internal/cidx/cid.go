// Package cidx provides structural validation of content identifiers and
// local synthesis of CIDv1 strings for backends that do not assign their
// own (the in-memory mock and the S3 archive mirror).
package cidx

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
)

// base58 alphabet used by CIDv0 (no 0, O, I, l).
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// lowercase base32 without padding, the multibase encoding behind "b..."
// CIDv1 strings.
var base32Lower = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)

// IsValid reports whether s is structurally plausible as a CID of a known
// version: CIDv0 ("Qm" + 44 base58 chars) or CIDv1 ("bafy.../bafk..."
// base32). This is a defensive shape check before network operations, not a
// cryptographic one.
func IsValid(s string) bool {
	if strings.HasPrefix(s, "Qm") {
		if len(s) != 46 {
			return false
		}
		for _, c := range s[2:] {
			if !strings.ContainsRune(base58Alphabet, c) {
				return false
			}
		}
		return true
	}

	if strings.HasPrefix(s, "bafy") || strings.HasPrefix(s, "bafk") {
		if len(s) < 10 {
			return false
		}
		for _, c := range s[1:] {
			if (c < 'a' || c > 'z') && (c < '2' || c > '7') {
				return false
			}
		}
		return true
	}

	return false
}

// FromBytes computes a genuine CIDv1 for the given content: multibase
// base32-lower of [version=1, codec=raw(0x55), multihash sha2-256]. Two
// identical blobs always map to the same CID; this is what makes the mirror
// and mock backends content-addressed.
func FromBytes(b []byte) string {
	digest := sha256.Sum256(b)

	// 0x01 cid version, 0x55 raw codec, 0x12 sha2-256, 0x20 digest length
	payload := make([]byte, 0, 4+len(digest))
	payload = append(payload, 0x01, 0x55, 0x12, 0x20)
	payload = append(payload, digest[:]...)

	return "b" + base32Lower.EncodeToString(payload)
}
