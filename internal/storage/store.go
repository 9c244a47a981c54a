package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/photovault/photovault/internal/cidx"
	"github.com/photovault/photovault/internal/common"
	"github.com/photovault/photovault/internal/logging"
)

const (
	uploadBaseTimeout = 60 * time.Second
	uploadMaxTimeout  = 120 * time.Second
	gatewayTimeout    = 60 * time.Second
	proxyTimeout      = 15 * time.Second
)

// Store is the content-addressed storage engine. Uploaders are tried
// strictly in order (never concurrently — paid backends must not receive
// duplicate uploads); downloaders race and the first success cancels the
// rest. The optional proxy downloader is a fast path tried before the race.
// The optional mock uploader is only reachable when no real uploader is
// configured.
type Store struct {
	uploaders   []Uploader
	downloaders []Downloader
	proxy       Downloader
	mock        Uploader
	log         logging.Logger
}

// StoreParams configures a Store. Zero-value fields fall back to safe
// defaults (nop logger, no proxy, no mock).
type StoreParams struct {
	Uploaders   []Uploader
	Downloaders []Downloader
	Proxy       Downloader
	Mock        Uploader
	Logger      logging.Logger
}

func NewStore(p StoreParams) *Store {
	log := p.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{
		uploaders:   p.Uploaders,
		downloaders: p.Downloaders,
		proxy:       p.Proxy,
		mock:        p.Mock,
		log:         log,
	}
}

// attemptTimeout scales the per-backend upload budget with payload size:
// one minute base plus one second per MiB, capped at two minutes.
func attemptTimeout(size int) time.Duration {
	d := uploadBaseTimeout + time.Duration(size/(1<<20))*time.Second
	if d > uploadMaxTimeout {
		d = uploadMaxTimeout
	}
	return d
}

// Upload stores blob on the first backend that accepts it, in priority
// order. Individual failures are logged and swallowed; only when every
// uploader has failed does the call return an error wrapping
// common.ErrBackendUnavailable.
func (s *Store) Upload(ctx context.Context, blob []byte, opts UploadOptions) (string, error) {
	for _, u := range s.uploaders {
		actx, cancel := context.WithTimeout(ctx, attemptTimeout(len(blob)))
		cid, err := u.Upload(actx, blob, opts)
		cancel()

		if err != nil {
			s.log.Warn(ctx, "upload attempt failed", "backend", u.Name(), "error", err)
			continue
		}

		s.log.Info(ctx, "upload complete", "backend", u.Name(), "cid", cid, "size", len(blob))
		return cid, nil
	}

	if len(s.uploaders) == 0 && s.mock != nil {
		s.log.Warn(ctx, "no storage backend configured, storing in non-durable mock backend")
		return s.mock.Upload(ctx, blob, opts)
	}

	return "", fmt.Errorf("upload failed on every backend: %w", common.ErrBackendUnavailable)
}

type raceResult struct {
	backend string
	data    []byte
	err     error
}

// Download fetches the blob addressed by cid. The proxy fast path is tried
// first when configured; otherwise all gateways race concurrently and the
// losers are cancelled as soon as one returns a success. Exhaustion yields
// *StorageUnavailableError.
func (s *Store) Download(ctx context.Context, cid string) ([]byte, error) {
	if !cidx.IsValid(cid) {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidCID, cid)
	}

	if s.proxy != nil {
		pctx, cancel := context.WithTimeout(ctx, proxyTimeout)
		data, err := s.proxy.Download(pctx, cid)
		cancel()
		if err == nil {
			s.log.Debug(ctx, "download served by proxy", "cid", cid)
			return data, nil
		}
		s.log.Warn(ctx, "proxy download failed, falling back to gateway race", "cid", cid, "error", err)
	}

	if len(s.downloaders) == 0 {
		return nil, &StorageUnavailableError{CID: cid}
	}

	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan raceResult, len(s.downloaders))
	for _, d := range s.downloaders {
		go func(d Downloader) {
			dctx, dcancel := context.WithTimeout(rctx, gatewayTimeout)
			defer dcancel()

			data, err := d.Download(dctx, cid)
			results <- raceResult{backend: d.Name(), data: data, err: err}
		}(d)
	}

	for range s.downloaders {
		r := <-results
		if r.err == nil {
			// First success wins; cancelling rctx aborts the in-flight losers.
			cancel()
			s.log.Info(ctx, "download complete", "backend", r.backend, "cid", cid, "size", len(r.data))
			return r.data, nil
		}
		s.log.Warn(ctx, "gateway download failed", "backend", r.backend, "cid", cid, "error", r.err)
	}

	return nil, &StorageUnavailableError{CID: cid}
}

// Exists issues a metadata-only probe against the preferred gateway. Any
// error counts as absent: a false negative is acceptable, this is a hint,
// not a consistency guarantee.
func (s *Store) Exists(ctx context.Context, cid string) bool {
	if !cidx.IsValid(cid) {
		return false
	}

	for _, d := range s.downloaders {
		p, ok := d.(Prober)
		if !ok {
			continue
		}

		exists, err := p.Exists(ctx, cid)
		if err != nil {
			s.log.Debug(ctx, "existence probe failed", "backend", p.Name(), "cid", cid, "error", err)
			return false
		}
		return exists
	}

	return false
}

// Unpin releases the blob on every unpin-capable backend. Best effort only:
// failures are logged and never propagated — storage cost leakage is
// acceptable, data loss is not.
func (s *Store) Unpin(ctx context.Context, cid string) {
	for _, u := range s.uploaders {
		up, ok := u.(Unpinner)
		if !ok {
			continue
		}
		if err := up.Unpin(ctx, cid); err != nil {
			s.log.Warn(ctx, "unpin failed", "backend", up.Name(), "cid", cid, "error", err)
		}
	}
}
