// Package storage moves opaque ciphertext blobs to and from durable remote
// storage, addressed by CID, while tolerating backend outages. One Store is
// configured with an ordered list of backends, polymorphic over the
// capability set {upload, download, exists, unpin}. Uploads try backends
// sequentially in priority order; downloads race all gateways concurrently
// and keep the first success.
//
// Backends never receive plaintext, keys, or identifying metadata — only
// ciphertext and opaque part names.
package storage

import (
	"context"
	"io"
)

// ProgressFunc reports upload progress as bytes sent out of total.
type ProgressFunc func(sent, total int64)

// UploadOptions tunes a single upload. FileName is advisory and is never
// forwarded to a backend (profiling hygiene); backends use opaque part
// names instead.
type UploadOptions struct {
	FileName   string
	OnProgress ProgressFunc
}

// Backend is the common surface of every storage variant.
type Backend interface {
	Name() string
}

// Uploader stores a blob and returns the CID addressing it. The CID format
// is backend-local; equal blobs uploaded to different backends may yield
// different CIDs, so callers must not rely on cross-backend deduplication.
type Uploader interface {
	Backend
	Upload(ctx context.Context, blob []byte, opts UploadOptions) (string, error)
}

// Downloader fetches the blob addressed by cid.
type Downloader interface {
	Backend
	Download(ctx context.Context, cid string) ([]byte, error)
}

// Prober answers best-effort existence checks.
type Prober interface {
	Backend
	Exists(ctx context.Context, cid string) (bool, error)
}

// Unpinner releases a pinned blob. Always advisory; failures are swallowed
// by the Store.
type Unpinner interface {
	Backend
	Unpin(ctx context.Context, cid string) error
}

// progressReader wraps a reader and reports cumulative bytes read.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	fn    ProgressFunc
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	if fn == nil {
		return r
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}
