// Package services contains the client-side orchestration layer: the photo
// service ties the cipher engine, the content-addressed store, the local
// cache and the metadata index together into the backup/restore flows.
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/photovault/photovault/internal/cache"
	"github.com/photovault/photovault/internal/cryptox"
	"github.com/photovault/photovault/internal/indexclient"
	"github.com/photovault/photovault/internal/logging"
	"github.com/photovault/photovault/internal/storage"
)

// BlobStore is the slice of the storage engine the photo service uses.
type BlobStore interface {
	Upload(ctx context.Context, blob []byte, opts storage.UploadOptions) (string, error)
	Download(ctx context.Context, cid string) ([]byte, error)
	Unpin(ctx context.Context, cid string)
}

// PhotoCache is the slice of the local cache the photo service uses.
type PhotoCache interface {
	SavePhoto(ctx context.Context, rec *cache.PhotoRecord) (int64, error)
	GetAllPhotos(ctx context.Context) ([]*cache.PhotoRecord, error)
	GetPhotoByCID(ctx context.Context, cid string) (*cache.PhotoRecord, error)
	DeletePhoto(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// PhotoService implements the end-to-end photo flows. The secret key is
// passed per call rather than held on the struct, so a locked vault keeps no
// key material resident.
type PhotoService struct {
	store    BlobStore
	cache    PhotoCache
	index    indexclient.Index // nil disables index sync
	deviceID string
	log      logging.Logger
}

func NewPhotoService(store BlobStore, cache PhotoCache, index indexclient.Index, deviceID string, log logging.Logger) *PhotoService {
	return &PhotoService{store: store, cache: cache, index: index, deviceID: deviceID, log: log}
}

// Backup encrypts a photo, uploads the ciphertext, and records it locally.
// The index insert is best-effort: a dead index never fails a backup.
// On upload failure nothing is recorded and the caller may retry; the
// returned error wraps common.ErrBackendUnavailable.
func (s *PhotoService) Backup(ctx context.Context, fileName string, data []byte, mimeType string, secretKey []byte) (*cache.PhotoRecord, error) {
	payload, err := cryptox.EncryptFile(data, mimeType, secretKey)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	blob, err := base64.StdEncoding.DecodeString(payload.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}

	cid, err := s.store.Upload(ctx, blob, storage.UploadOptions{FileName: fileName})
	if err != nil {
		return nil, fmt.Errorf("upload error: %w", err)
	}

	rec := &cache.PhotoRecord{
		CID:           cid,
		Nonce:         payload.Nonce,
		FileName:      fileName,
		MimeType:      mimeType,
		FileSize:      int64(len(data)),
		UploadedAt:    time.Now().UTC(),
		EncryptedBlob: blob,
	}

	id, err := s.cache.SavePhoto(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	rec.ID = id

	if s.index != nil {
		row := indexclient.Row{
			CID:           cid,
			DeviceID:      s.deviceID,
			FileSizeBytes: rec.FileSize,
			Nonce:         rec.Nonce,
			MimeType:      mimeType,
			UserKeyHash:   indexclient.UserKeyHash(secretKey),
			UploadedAt:    rec.UploadedAt,
		}
		if err := s.index.Insert(ctx, row); err != nil {
			s.log.Warn(ctx, "index insert failed, photo is backed up but not linked", "cid", cid, "error", err)
		}
	}

	return rec, nil
}

// Restore returns the decrypted photo bytes and MIME type for a CID. Cached
// ciphertext is served without touching the network; otherwise the blob is
// fetched through the store's gateway race. A blob that downloads but fails
// authentication surfaces common.ErrUnverifiable, distinct from the
// *storage.StorageUnavailableError of an unreachable blob.
func (s *PhotoService) Restore(ctx context.Context, cid string, secretKey []byte) ([]byte, string, error) {
	rec, err := s.cache.GetPhotoByCID(ctx, cid)
	if err != nil {
		return nil, "", fmt.Errorf("cache lookup error: %w", err)
	}

	blob := rec.EncryptedBlob
	if blob == nil {
		blob, err = s.store.Download(ctx, cid)
		if err != nil {
			return nil, "", err
		}
	}

	payload := &cryptox.EncryptedPayload{
		Ciphertext: base64.StdEncoding.EncodeToString(blob),
		Nonce:      rec.Nonce,
	}

	data, mimeType, err := cryptox.DecryptFile(payload, secretKey)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}

// List returns the local photo library, newest first. Offline-first: the
// network is never consulted.
func (s *PhotoService) List(ctx context.Context) ([]*cache.PhotoRecord, error) {
	return s.cache.GetAllPhotos(ctx)
}

// Delete removes a photo from the local cache and asks the pinning backends
// to release the blob. Unpin is best-effort; a dead backend never blocks the
// local delete.
func (s *PhotoService) Delete(ctx context.Context, cid string) error {
	rec, err := s.cache.GetPhotoByCID(ctx, cid)
	if err != nil {
		return fmt.Errorf("cache lookup error: %w", err)
	}

	if err := s.cache.DeletePhoto(ctx, rec.ID); err != nil {
		return fmt.Errorf("error deleting photo: %w", err)
	}

	s.store.Unpin(ctx, cid)
	return nil
}

// Reset drops the whole local library in one transaction. Remote blobs are
// untouched: with the key and the index they remain restorable.
func (s *PhotoService) Reset(ctx context.Context) error {
	if err := s.cache.ClearAll(ctx); err != nil {
		return fmt.Errorf("error clearing cache: %w", err)
	}
	return nil
}

// Count reports the size of the local library.
func (s *PhotoService) Count(ctx context.Context) (int64, error) {
	return s.cache.Count(ctx)
}

// Sync pulls the index rows for this user and records any photo backed up
// by another device that the local cache has not seen. Only metadata is
// recorded; ciphertext is fetched lazily on Restore.
func (s *PhotoService) Sync(ctx context.Context, secretKey []byte) (int, error) {
	if s.index == nil {
		return 0, nil
	}

	rows, err := s.index.QueryByUserKeyHash(ctx, indexclient.UserKeyHash(secretKey))
	if err != nil {
		return 0, fmt.Errorf("index query error: %w", err)
	}

	added := 0
	for _, row := range rows {
		if _, err := s.cache.GetPhotoByCID(ctx, row.CID); err == nil {
			continue
		}

		rec := &cache.PhotoRecord{
			CID:        row.CID,
			Nonce:      row.Nonce,
			MimeType:   row.MimeType,
			FileSize:   row.FileSizeBytes,
			UploadedAt: row.UploadedAt,
		}
		if _, err := s.cache.SavePhoto(ctx, rec); err != nil {
			return added, fmt.Errorf("saving error: %w", err)
		}
		added++
	}

	return added, nil
}
