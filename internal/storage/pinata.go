package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/photovault/photovault/internal/common"
)

const pinataDefaultAPIBase = "https://api.pinata.cloud"

// Pinata is the remote pinning-service backend. Uploads and unpins go to
// the pinning API with Bearer auth; downloads go through the dedicated
// gateway, optionally signed with a gateway access token.
//
// Deliberately no pinataMetadata is attached and the multipart part name is
// opaque: the provider must not be able to profile the user by app name,
// file names, or content types.
type Pinata struct {
	apiBase      string
	gatewayBase  string
	token        string
	gatewayToken string
	client       *http.Client
}

// PinataConfig carries the pinning-service credentials and endpoints.
type PinataConfig struct {
	APIBase      string // defaults to the public Pinata API
	GatewayBase  string
	Token        string // Bearer token (JWT issued by the service)
	GatewayToken string // optional gateway access token
}

// Configured reports whether uploads can be attempted.
func (c PinataConfig) Configured() bool {
	return c.Token != "" && c.GatewayBase != ""
}

func NewPinata(cfg PinataConfig, client *http.Client) *Pinata {
	if client == nil {
		client = http.DefaultClient
	}
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = pinataDefaultAPIBase
	}
	return &Pinata{
		apiBase:      strings.TrimRight(apiBase, "/"),
		gatewayBase:  strings.TrimRight(cfg.GatewayBase, "/"),
		token:        cfg.Token,
		gatewayToken: cfg.GatewayToken,
		client:       client,
	}
}

func (p *Pinata) Name() string { return "pinata" }

type pinataPinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

func (p *Pinata) Upload(ctx context.Context, blob []byte, opts UploadOptions) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("pinata: build form: %w", err)
	}
	if _, err := part.Write(blob); err != nil {
		return "", fmt.Errorf("pinata: write form: %w", err)
	}
	// CID version is the only option sent; it identifies nothing.
	if err := mw.WriteField("pinataOptions", `{"cidVersion":1}`); err != nil {
		return "", fmt.Errorf("pinata: write options: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("pinata: close form: %w", err)
	}

	total := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.apiBase+"/pinning/pinFileToIPFS",
		newProgressReader(&body, total, opts.OnProgress))
	if err != nil {
		return "", fmt.Errorf("pinata: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.ContentLength = total

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata: %v: %w", err, common.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("pinata: status %d: %w", resp.StatusCode, common.ErrBackendUnavailable)
	}

	var pinned pinataPinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", fmt.Errorf("pinata: malformed pin response: %w", common.ErrBackendUnavailable)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("pinata: pin response missing hash: %w", common.ErrBackendUnavailable)
	}

	return pinned.IpfsHash, nil
}

func (p *Pinata) Download(ctx context.Context, cid string) ([]byte, error) {
	u := p.gatewayBase + "/ipfs/" + cid
	if p.gatewayToken != "" {
		u += "?pinataGatewayToken=" + url.QueryEscape(p.gatewayToken)
	}
	return gatewayFetch(ctx, p.client, u, p.Name())
}

func (p *Pinata) Exists(ctx context.Context, cid string) (bool, error) {
	u := p.gatewayBase + "/ipfs/" + cid
	if p.gatewayToken != "" {
		u += "?pinataGatewayToken=" + url.QueryEscape(p.gatewayToken)
	}
	return gatewayProbe(ctx, p.client, u)
}

// Unpin asks the pinning service to release the blob. The Store treats this
// as advisory cleanup.
func (p *Pinata) Unpin(ctx context.Context, cid string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.apiBase+"/pinning/unpin/"+cid, nil)
	if err != nil {
		return fmt.Errorf("pinata: build unpin request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("pinata: unpin: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("pinata: unpin status %d", resp.StatusCode)
	}
	return nil
}
