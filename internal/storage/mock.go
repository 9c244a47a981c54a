package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/photovault/photovault/internal/cidx"
	"github.com/photovault/photovault/internal/common"
)

// Mock is an in-memory, NON-DURABLE backend that lets the rest of the
// pipeline run in tests and development environments with no storage
// credentials. The Store only reaches it when no real uploader is
// configured.
type Mock struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMock() *Mock {
	return &Mock{blobs: make(map[string][]byte)}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Upload(ctx context.Context, blob []byte, opts UploadOptions) (string, error) {
	cid := cidx.FromBytes(blob)

	m.mu.Lock()
	m.blobs[cid] = append([]byte(nil), blob...)
	m.mu.Unlock()

	if opts.OnProgress != nil {
		opts.OnProgress(int64(len(blob)), int64(len(blob)))
	}
	return cid, nil
}

func (m *Mock) Download(ctx context.Context, cid string) ([]byte, error) {
	m.mu.Lock()
	blob, ok := m.blobs[cid]
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("mock: cid %s: %w", cid, common.ErrBackendUnavailable)
	}
	return append([]byte(nil), blob...), nil
}

func (m *Mock) Exists(ctx context.Context, cid string) (bool, error) {
	m.mu.Lock()
	_, ok := m.blobs[cid]
	m.mu.Unlock()
	return ok, nil
}

func (m *Mock) Unpin(ctx context.Context, cid string) error {
	m.mu.Lock()
	delete(m.blobs, cid)
	m.mu.Unlock()
	return nil
}
