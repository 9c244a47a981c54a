package cryptox

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/photovault/photovault/internal/common"
)

const (
	phraseChunkSize = 4
	phraseSeparator = "-"
	// base64 of a 32-byte key is always 44 characters (43 + padding).
	phraseEncodedLen = 44
)

// KeyToRecoveryPhrase encodes a raw 32-byte secret key as a human-
// transcribable phrase: standard base64 split into fixed-width groups
// joined by dashes. The encoding is lossless and reversible.
func KeyToRecoveryPhrase(secretKey []byte) (string, error) {
	if len(secretKey) != KeySize {
		return "", fmt.Errorf("%w: got %d bytes, want %d", common.ErrInvalidKeyLength, len(secretKey), KeySize)
	}

	encoded := base64.StdEncoding.EncodeToString(secretKey)

	chunks := make([]string, 0, (len(encoded)+phraseChunkSize-1)/phraseChunkSize)
	for i := 0; i < len(encoded); i += phraseChunkSize {
		end := i + phraseChunkSize
		if end > len(encoded) {
			end = len(encoded)
		}
		chunks = append(chunks, encoded[i:end])
	}

	return strings.Join(chunks, phraseSeparator), nil
}

// RecoveryPhraseToKey reverses KeyToRecoveryPhrase. Separators and
// surrounding whitespace are tolerated; anything that does not decode to a
// full-length key fails fast with common.ErrMalformedPhrase rather than
// silently producing an unusable key.
func RecoveryPhraseToKey(phrase string) ([]byte, error) {
	compact := strings.ReplaceAll(strings.TrimSpace(phrase), phraseSeparator, "")
	compact = strings.Join(strings.Fields(compact), "")

	if len(compact) != phraseEncodedLen {
		return nil, fmt.Errorf("%w: expected %d encoded characters, got %d",
			common.ErrMalformedPhrase, phraseEncodedLen, len(compact))
	}

	key, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedPhrase, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: decoded to %d bytes, want %d", common.ErrMalformedPhrase, len(key), KeySize)
	}

	return key, nil
}
