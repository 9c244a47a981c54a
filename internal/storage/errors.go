package storage

import "fmt"

// StorageUnavailableError means every configured backend and gateway was
// tried and none could serve the blob. It is a hard failure for the single
// operation only; the caller may retry later.
type StorageUnavailableError struct {
	CID string
}

func (e *StorageUnavailableError) Error() string {
	if e.CID == "" {
		return "all storage backends unavailable"
	}
	return fmt.Sprintf("all storage backends unavailable for cid %s", e.CID)
}
