package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photovault/photovault/internal/common"
)

func TestRecoveryPhrase_RoundTrip(t *testing.T) {
	for i := 0; i < 100; i++ {
		key := common.GenerateRandByteArray(KeySize)

		phrase, err := KeyToRecoveryPhrase(key)
		require.NoError(t, err)

		got, err := RecoveryPhraseToKey(phrase)
		require.NoError(t, err)
		require.Equal(t, key, got)
	}
}

func TestKeyToRecoveryPhrase_Format(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)

	phrase, err := KeyToRecoveryPhrase(key)
	require.NoError(t, err)

	chunks := strings.Split(phrase, phraseSeparator)
	assert.Len(t, chunks, 11) // 44 base64 chars in groups of 4
	for _, c := range chunks {
		assert.Len(t, c, phraseChunkSize)
	}
}

func TestKeyToRecoveryPhrase_RejectsWrongKeyLength(t *testing.T) {
	_, err := KeyToRecoveryPhrase(make([]byte, 16))
	assert.ErrorIs(t, err, common.ErrInvalidKeyLength)
}

func TestRecoveryPhraseToKey_ToleratesWhitespace(t *testing.T) {
	key := common.GenerateRandByteArray(KeySize)
	phrase, err := KeyToRecoveryPhrase(key)
	require.NoError(t, err)

	sloppy := "  " + strings.ReplaceAll(phrase, phraseSeparator, " ") + "\n"
	got, err := RecoveryPhraseToKey(sloppy)
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestRecoveryPhraseToKey_FailsFastOnMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
	}{
		{"empty", ""},
		{"too short", "abcd-efgh"},
		{"truncated", "AAAA-BBBB-CCCC"},
		{"not base64", strings.Repeat("!", phraseEncodedLen)},
		{"too long", strings.Repeat("AAAA-", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecoveryPhraseToKey(tt.phrase)
			assert.ErrorIs(t, err, common.ErrMalformedPhrase)
			assert.Nil(t, got)
		})
	}
}
