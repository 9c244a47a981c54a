package cache

import "time"

// PhotoRecord is what this device knows about one backed-up photo. CID,
// nonce and MIME type are immutable once written; the only mutations are
// deletion of the record and eviction of the optional cached ciphertext.
// The cache never holds plaintext image bytes.
type PhotoRecord struct {
	ID            int64
	CID           string
	Nonce         string
	FileName      string
	MimeType      string
	FileSize      int64
	Width         *int64
	Height        *int64
	UploadedAt    time.Time
	EncryptedBlob []byte // optional local copy of the ciphertext
}
