package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "photovault.db", cfg.CacheDSN)
	assert.Equal(t, []string{"https://ipfs.io", "https://dweb.link"}, cfg.PublicGateways)
	assert.Equal(t, 5*time.Minute, cfg.SyncInterval)
	assert.Empty(t, cfg.PinataToken)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-d", "/tmp/other.db", "-p", "https://proxy.example"}

	cfg := LoadConfig()
	assert.Equal(t, "/tmp/other.db", cfg.CacheDSN)
	assert.Equal(t, "https://proxy.example", cfg.ProxyBase)
	// Untouched fields keep their defaults.
	assert.Len(t, cfg.PublicGateways, 2)
}

func TestLoadConfig_JsonThenFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "conf.json")
	body := `{
		"cache_dsn": "/tmp/from-json.db",
		"proxy_base": "https://json-proxy.example",
		"pinata_token": "tok",
		"sync_interval": "90s",
		"public_gateways": ["https://gw.example"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"testbin", "-c", path, "-d", "/tmp/from-flag.db"}

	cfg := LoadConfig()

	// Flags beat JSON, JSON beats defaults.
	assert.Equal(t, "/tmp/from-flag.db", cfg.CacheDSN)
	assert.Equal(t, "https://json-proxy.example", cfg.ProxyBase)
	assert.Equal(t, "tok", cfg.PinataToken)
	assert.Equal(t, 90*time.Second, cfg.SyncInterval)
	assert.Equal(t, []string{"https://gw.example"}, cfg.PublicGateways)
}

func TestParseJson_MissingFileSkipped(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	assert.Equal(t, "photovault.db", cfg.CacheDSN)
}
