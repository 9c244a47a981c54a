package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/photovault/photovault/internal/common"
)

// SelfHosted talks to a self-hosted IPFS node: uploads through its HTTP API
// (POST /api/v0/add), downloads through its gateway (GET /ipfs/{cid}).
type SelfHosted struct {
	apiBase     string
	gatewayBase string
	username    string
	password    string
	client      *http.Client
}

// SelfHostedConfig carries the node endpoints and Basic-Auth credentials.
type SelfHostedConfig struct {
	APIBase     string
	GatewayBase string
	Username    string
	Password    string
}

// Configured reports whether enough is present to attempt uploads.
func (c SelfHostedConfig) Configured() bool {
	return c.APIBase != ""
}

func NewSelfHosted(cfg SelfHostedConfig, client *http.Client) *SelfHosted {
	if client == nil {
		client = http.DefaultClient
	}
	return &SelfHosted{
		apiBase:     strings.TrimRight(cfg.APIBase, "/"),
		gatewayBase: strings.TrimRight(cfg.GatewayBase, "/"),
		username:    cfg.Username,
		password:    cfg.Password,
		client:      client,
	}
}

func (s *SelfHosted) Name() string { return "selfhosted" }

// addResponse is one NDJSON object from /api/v0/add; the last one carries
// the root CID.
type addResponse struct {
	Hash string `json:"Hash"`
}

func (s *SelfHosted) Upload(ctx context.Context, blob []byte, opts UploadOptions) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	// Opaque part name: the node never learns the real file name.
	part, err := mw.CreateFormFile("file", uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("selfhosted: build form: %w", err)
	}
	if _, err := part.Write(blob); err != nil {
		return "", fmt.Errorf("selfhosted: write form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("selfhosted: close form: %w", err)
	}

	url := s.apiBase + "/api/v0/add?cid-version=1"
	total := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		newProgressReader(&body, total, opts.OnProgress))
	if err != nil {
		return "", fmt.Errorf("selfhosted: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("selfhosted: %v: %w", err, common.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("selfhosted: status %d: %w", resp.StatusCode, common.ErrBackendUnavailable)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("selfhosted: read response: %w", common.ErrBackendUnavailable)
	}

	// Newline-delimited JSON; the last object is the root entry.
	var last addResponse
	found := false
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var r addResponse
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return "", fmt.Errorf("selfhosted: malformed add response: %w", common.ErrBackendUnavailable)
		}
		if r.Hash != "" {
			last = r
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("selfhosted: add response missing hash: %w", common.ErrBackendUnavailable)
	}

	return last.Hash, nil
}

func (s *SelfHosted) Download(ctx context.Context, cid string) ([]byte, error) {
	return gatewayFetch(ctx, s.client, s.gatewayBase+"/ipfs/"+cid, s.Name())
}

func (s *SelfHosted) Exists(ctx context.Context, cid string) (bool, error) {
	return gatewayProbe(ctx, s.client, s.gatewayBase+"/ipfs/"+cid)
}
