// Package config loads runtime configuration for the PhotoVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags (-d, -p, -i, -s), which override earlier values.
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "5m" or integer
// nanoseconds:
//
//	{
//	  "cache_dsn": "photovault.db",
//	  "proxy_base": "https://vault.example",
//	  "index_base": "https://index.example",
//	  "sync_interval": "5m",
//	  "public_gateways": ["https://ipfs.io"],
//	  "pinata_token": "...",
//	  "pinata_gateway": "https://example.mypinata.cloud",
//	  "selfhosted_api": "http://127.0.0.1:5001",
//	  "s3_bucket": "photovault-mirror"
//	}
//
// Backend credential groups left empty simply disable that backend.
package config
