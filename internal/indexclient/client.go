// Package indexclient is the boundary client of the external metadata
// index. The index itself is an opaque service; it links CIDs across a
// user's devices and never receives plaintext or the secret key — only a
// hash of the key.
package indexclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Row is one backed-up photo as the index sees it.
type Row struct {
	CID           string    `json:"cid"`
	DeviceID      string    `json:"device_id"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	Nonce         string    `json:"nonce"`
	MimeType      string    `json:"mime_type"`
	UserKeyHash   string    `json:"user_key_hash"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// Index is what callers depend on; Client is the HTTP implementation.
type Index interface {
	Insert(ctx context.Context, row Row) error
	QueryByUserKeyHash(ctx context.Context, userKeyHash string) ([]Row, error)
}

// UserKeyHash derives the multi-device linkage value from the raw secret
// key. Only this hash ever leaves the device.
func UserKeyHash(secretKey []byte) string {
	h := sha256.Sum256(secretKey)
	return hex.EncodeToString(h[:])
}

type Client struct {
	base   string
	client *http.Client
}

func NewClient(base string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{base: strings.TrimRight(base, "/"), client: client}
}

func (c *Client) Insert(ctx context.Context, row Row) error {
	body, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("index: marshal row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/photos", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("index: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("index: insert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("index: insert status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) QueryByUserKeyHash(ctx context.Context, userKeyHash string) ([]Row, error) {
	u := c.base + "/photos?user_key_hash=" + url.QueryEscape(userKeyHash)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("index: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index: query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("index: query status %d", resp.StatusCode)
	}

	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("index: decode rows: %w", err)
	}
	return rows, nil
}
