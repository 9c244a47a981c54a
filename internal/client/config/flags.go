package config

import (
	"flag"
	"os"
	"time"

	"github.com/photovault/photovault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   path (or DSN) of the local photo cache database
//	-p string   base URL of the gateway daemon download proxy
//	-i string   base URL of the metadata index service
//	-s int      index sync interval in seconds (0 disables)
//
// Args are filtered with flagx.FilterArgs so flags owned by other components
// pass through untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-p", "-i", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.CacheDSN, "d", cfg.CacheDSN, "local cache database path")
	fs.StringVar(&cfg.ProxyBase, "p", cfg.ProxyBase, "download proxy base URL")
	fs.StringVar(&cfg.IndexBase, "i", cfg.IndexBase, "metadata index base URL")
	syncInterval := fs.Int("s", int(cfg.SyncInterval.Seconds()), "index sync interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
}
