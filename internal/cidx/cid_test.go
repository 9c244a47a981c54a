package cidx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		cid  string
		want bool
	}{
		{"cid v0", "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", true},
		{"cid v1 bafy", "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi", true},
		{"cid v1 bafk", "bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy", true},
		{"v0 wrong length", "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbd", false},
		{"v0 invalid base58 char", "Qm0wAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", false},
		{"v1 uppercase body", "bafyBEIGDYRZT5SFP7UDM7HU76UH7Y26NF3EFUYLQABF3OCLGTQY55FBZDI", false},
		{"v1 too short", "bafy", false},
		{"empty", "", false},
		{"random string", "not-a-cid-at-all", false},
		{"https url", "https://example.com/ipfs/Qm", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.cid))
		})
	}
}

func TestFromBytes_DeterministicAndValid(t *testing.T) {
	a := FromBytes([]byte("same content"))
	b := FromBytes([]byte("same content"))
	c := FromBytes([]byte("other content"))

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)

	assert.True(t, strings.HasPrefix(a, "bafk"), "raw-codec sha2-256 CIDv1 starts with bafk, got %s", a)
	assert.True(t, IsValid(a))
	assert.True(t, IsValid(c))
}
