package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/photovault/photovault/internal/cache"
	"github.com/photovault/photovault/internal/client/config"
	"github.com/photovault/photovault/internal/client/services"
	"github.com/photovault/photovault/internal/indexclient"
	"github.com/photovault/photovault/internal/keystore"
	"github.com/photovault/photovault/internal/logging"
	"github.com/photovault/photovault/internal/storage"
	"github.com/photovault/photovault/internal/syncmode"
)

// App is the interactive PhotoVault client. The secret key lives on the App
// only while the vault is unlocked.
type App struct {
	config    *config.Config
	syncCfg   syncmode.SyncConfig
	keys      *keystore.Keystore
	photos    *services.PhotoService
	secretKey []byte
	reader    *bufio.Reader
	log       logging.Logger
	db        *sql.DB
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewDefault(slog.LevelInfo)
	syncCfg := syncmode.Resolve(syncmode.NewOSProbe())

	photoCache, db, err := cache.Open(ctx, c.CacheDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}

	store, err := buildStore(ctx, c, syncCfg, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	keys := keystore.New(keystore.NewKeyringStore())

	deviceID, err := keys.DeviceID()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error resolving device id: %w", err)
	}

	var index indexclient.Index
	if c.IndexBase != "" {
		index = indexclient.NewClient(c.IndexBase, nil)
	}

	photos := services.NewPhotoService(store, photoCache, index, deviceID, log)

	return &App{
		config:  c,
		syncCfg: syncCfg,
		keys:    keys,
		photos:  photos,
		reader:  bufio.NewReader(os.Stdin),
		log:     log,
		db:      db,
	}, nil
}

// buildStore assembles the backend chain the resolved topology calls for.
// Upload order is the fallback order: the self-hosted node (when the local
// node is in play and configured), then the pinning service, then the S3
// mirror. Downloads race the proxy-less gateways; the proxy, when
// configured, is the fast path.
func buildStore(ctx context.Context, c *config.Config, syncCfg syncmode.SyncConfig, log logging.Logger) (*storage.Store, error) {
	httpClient := http.DefaultClient

	var uploaders []storage.Uploader
	var downloaders []storage.Downloader

	selfHosted := storage.SelfHostedConfig{
		APIBase:     c.SelfHostedAPI,
		GatewayBase: c.SelfHostedGateway,
		Username:    c.SelfHostedUser,
		Password:    c.SelfHostedPassword,
	}
	if syncCfg.UseLocalNode && selfHosted.Configured() {
		node := storage.NewSelfHosted(selfHosted, httpClient)
		uploaders = append(uploaders, node)
		downloaders = append(downloaders, node)
	}

	pinata := storage.PinataConfig{
		GatewayBase:  c.PinataGateway,
		Token:        c.PinataToken,
		GatewayToken: c.PinataGatewayToken,
	}
	if syncCfg.UsePinataBackup && pinata.Configured() {
		p := storage.NewPinata(pinata, httpClient)
		uploaders = append(uploaders, p)
		downloaders = append(downloaders, p)
	}

	s3cfg := storage.S3MirrorConfig{
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3Endpoint,
	}
	if s3cfg.Configured() {
		mirror, err := storage.NewS3Mirror(ctx, s3cfg)
		if err != nil {
			return nil, fmt.Errorf("error initializing s3 mirror: %w", err)
		}
		uploaders = append(uploaders, mirror)
		downloaders = append(downloaders, mirror)
	}

	for _, gw := range c.PublicGateways {
		downloaders = append(downloaders, storage.NewPublicGateway(gw, httpClient))
	}

	var proxy storage.Downloader
	if c.ProxyBase != "" {
		proxy = storage.NewProxyDownloader(c.ProxyBase, httpClient)
	}

	params := storage.StoreParams{
		Uploaders:   uploaders,
		Downloaders: downloaders,
		Proxy:       proxy,
		Logger:      log,
	}
	// Development fallback: with no real backend configured, blobs land in
	// an in-memory sink so the flows stay usable.
	if len(uploaders) == 0 {
		mock := storage.NewMock()
		params.Mock = mock
		params.Downloaders = append(params.Downloaders, mock)
	}

	return storage.NewStore(params), nil
}

func (a *App) isUnlocked() bool {
	return a.secretKey != nil
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	// A previously initialized vault unlocks silently from the keychain.
	if key, ok, err := a.keys.LoadSecretKey(); err == nil && ok {
		a.secretKey = key
	}

	if a.config.SyncInterval > 0 && a.config.IndexBase != "" {
		go a.startAutoSync(ctx, a.config.SyncInterval)
	}

	a.Root(ctx)
}

// startAutoSync polls the metadata index in the background so photos backed
// up by other devices show up without an explicit 'sync'. Skipped while the
// vault is locked.
func (a *App) startAutoSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !a.isUnlocked() {
				continue
			}
			sctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if _, err := a.photos.Sync(sctx, a.secretKey); err != nil {
				a.log.Warn(ctx, "background sync failed", "error", err)
			}
			cancel()

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
