package config

import "time"

// Config holds runtime settings for the PhotoVault CLI.
//
// Backend credentials are optional: an empty group means that backend is not
// configured and the storage engine skips it.
type Config struct {
	CacheDSN  string
	ProxyBase string
	IndexBase string

	// SyncInterval is how often the client polls the metadata index for
	// photos backed up by other devices. Zero disables polling.
	SyncInterval time.Duration

	PublicGateways []string

	SelfHostedAPI      string
	SelfHostedGateway  string
	SelfHostedUser     string
	SelfHostedPassword string

	PinataGateway      string
	PinataToken        string
	PinataGatewayToken string

	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.CacheDSN = "photovault.db"
	c.PublicGateways = []string{"https://ipfs.io", "https://dweb.link"}
	c.SyncInterval = 5 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
