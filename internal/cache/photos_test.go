package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/photovault/photovault/internal/common"
)

func setupCache(t *testing.T) *PhotoCache {
	t.Helper()

	ctx := context.Background()
	c, db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return c
}

func record(cid string, uploadedAt time.Time, blob []byte) *PhotoRecord {
	return &PhotoRecord{
		CID:           cid,
		Nonce:         "bm9uY2U=",
		FileName:      "holiday.jpg",
		MimeType:      "image/jpeg",
		FileSize:      int64(len(blob)),
		UploadedAt:    uploadedAt,
		EncryptedBlob: blob,
	}
}

func TestSavePhoto_BlobRoundTrip(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	blob := common.GenerateRandByteArray(2048)
	rec := record("QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", time.Now().UTC(), blob)

	id, err := c.SavePhoto(ctx, rec)
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := c.GetPhotoByCID(ctx, rec.CID)
	require.NoError(t, err)
	assert.Equal(t, blob, got.EncryptedBlob, "cached ciphertext must round-trip byte-identical")
	assert.Equal(t, "image/jpeg", got.MimeType)
	assert.Equal(t, rec.FileName, got.FileName)
	assert.Equal(t, rec.FileSize, got.FileSize)
	assert.Nil(t, got.Width)
	assert.Nil(t, got.Height)
}

func TestSavePhoto_NilBlobStaysNil(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	rec := record("bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy", time.Now().UTC(), nil)
	_, err := c.SavePhoto(ctx, rec)
	require.NoError(t, err)

	got, err := c.GetPhotoByCID(ctx, rec.CID)
	require.NoError(t, err)
	assert.Nil(t, got.EncryptedBlob)
}

func TestGetAllPhotos_NewestFirst(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, cid := range []string{"cid-a", "cid-b", "cid-c"} {
		_, err := c.SavePhoto(ctx, record(cid, base.Add(time.Duration(i)*time.Hour), nil))
		require.NoError(t, err)
	}

	got, err := c.GetAllPhotos(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "cid-c", got[0].CID)
	assert.Equal(t, "cid-b", got[1].CID)
	assert.Equal(t, "cid-a", got[2].CID)
}

func TestGetPhotoByCID_NotFound(t *testing.T) {
	c := setupCache(t)

	_, err := c.GetPhotoByCID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeletePhoto(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	id, err := c.SavePhoto(ctx, record("cid-del", time.Now().UTC(), nil))
	require.NoError(t, err)

	require.NoError(t, c.DeletePhoto(ctx, id))

	_, err = c.GetPhotoByCID(ctx, "cid-del")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, c.DeletePhoto(ctx, id), common.ErrNotFound)
}

func TestEvictBlob_KeepsMetadata(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	rec := record("cid-evict", time.Now().UTC(), []byte("ciphertext"))
	id, err := c.SavePhoto(ctx, rec)
	require.NoError(t, err)

	require.NoError(t, c.EvictBlob(ctx, id))

	got, err := c.GetPhotoByCID(ctx, "cid-evict")
	require.NoError(t, err)
	assert.Nil(t, got.EncryptedBlob)
	assert.Equal(t, "cid-evict", got.CID)
	assert.Equal(t, rec.Nonce, got.Nonce)
}

func TestClearAllAndCount(t *testing.T) {
	c := setupCache(t)
	ctx := context.Background()

	for _, cid := range []string{"c1", "c2"} {
		_, err := c.SavePhoto(ctx, record(cid, time.Now().UTC(), nil))
		require.NoError(t, err)
	}

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, c.ClearAll(ctx))

	n, err = c.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
