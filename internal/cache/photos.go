// Package cache is the offline-first local store of everything this device
// has backed up: encrypted blobs plus the CID/nonce/metadata needed to fetch
// and decrypt them later. Losing it is not data loss as long as the CID is
// also recorded in the external metadata index; losing the secret key is.
package cache

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/photovault/photovault/internal/common"
	"github.com/photovault/photovault/internal/dbx"
)

// PhotoCache persists PhotoRecords in SQLite.
//
// The optional ciphertext blob is stored as a base64 TEXT column rather than
// a BLOB: the original client hit blob-type corruption on iOS WebKit storage
// engines, so records cross the storage boundary in a text-safe buffer
// representation. The conversion is lossless and invisible to callers.
type PhotoCache struct {
	db *sql.DB
}

func NewPhotoCache(db *sql.DB) *PhotoCache {
	return &PhotoCache{db: db}
}

func encodeBlob(b []byte) any {
	if b == nil {
		return nil
	}
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBlob(s sql.NullString) ([]byte, error) {
	if !s.Valid {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cached blob: %w", err)
	}
	return b, nil
}

// SavePhoto inserts a record and returns its auto-increment id.
func (c *PhotoCache) SavePhoto(ctx context.Context, rec *PhotoRecord) (int64, error) {
	query := `INSERT INTO photos (cid, nonce, file_name, mime_type, file_size, width, height, uploaded_at, encrypted_blob)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := c.db.ExecContext(ctx, query,
		rec.CID, rec.Nonce, rec.FileName, rec.MimeType, rec.FileSize,
		rec.Width, rec.Height, rec.UploadedAt, encodeBlob(rec.EncryptedBlob))
	if err != nil {
		return 0, fmt.Errorf("failed to insert photo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted photo id: %w", err)
	}

	rec.ID = id
	return id, nil
}

const photoColumns = `id, cid, nonce, file_name, mime_type, file_size, width, height, uploaded_at, encrypted_blob`

func scanPhoto(scan func(...any) error) (*PhotoRecord, error) {
	rec := &PhotoRecord{}
	var blob sql.NullString
	err := scan(&rec.ID, &rec.CID, &rec.Nonce, &rec.FileName, &rec.MimeType,
		&rec.FileSize, &rec.Width, &rec.Height, &rec.UploadedAt, &blob)
	if err != nil {
		return nil, err
	}

	rec.EncryptedBlob, err = decodeBlob(blob)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetAllPhotos returns every record, newest first.
func (c *PhotoCache) GetAllPhotos(ctx context.Context) ([]*PhotoRecord, error) {
	query := `SELECT ` + photoColumns + ` FROM photos ORDER BY uploaded_at DESC, id DESC`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	var result []*PhotoRecord
	for rows.Next() {
		rec, err := scanPhoto(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate photo rows: %w", err)
	}

	return result, nil
}

// GetPhotoByCID returns the record addressing cid, or common.ErrNotFound.
func (c *PhotoCache) GetPhotoByCID(ctx context.Context, cid string) (*PhotoRecord, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE cid = ? ORDER BY id DESC LIMIT 1`

	row := c.db.QueryRowContext(ctx, query, cid)
	rec, err := scanPhoto(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo by cid: %w", err)
	}

	return rec, nil
}

// DeletePhoto removes a record by id.
func (c *PhotoCache) DeletePhoto(ctx context.Context, id int64) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// EvictBlob drops the cached ciphertext of a record while keeping the
// CID/nonce/metadata needed to re-fetch it.
func (c *PhotoCache) EvictBlob(ctx context.Context, id int64) error {
	_, err := c.db.ExecContext(ctx, `UPDATE photos SET encrypted_blob = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to evict blob: %w", err)
	}
	return nil
}

// ClearAll wipes the cache.
func (c *PhotoCache) ClearAll(ctx context.Context) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM photos`); err != nil {
			return fmt.Errorf("failed to clear photos: %w", err)
		}
		return nil
	})
}

// Count returns the number of cached records.
func (c *PhotoCache) Count(ctx context.Context) (int64, error) {
	var n int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return n, nil
}
