package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/photovault/photovault/internal/common"
)

// gatewayFetch GETs a blob from an /ipfs/ style URL. Non-2xx responses and
// transport errors come back as recoverable common.ErrBackendUnavailable so
// the caller's fallback/race machinery keeps going.
func gatewayFetch(ctx context.Context, client *http.Client, rawURL, backend string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", backend, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", backend, err, common.ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: status %d: %w", backend, resp.StatusCode, common.ErrBackendUnavailable)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", backend, common.ErrBackendUnavailable)
	}

	return data, nil
}

// gatewayProbe is the HEAD-equivalent existence check.
func gatewayProbe(ctx context.Context, client *http.Client, rawURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}

// PublicGateway is a last-resort, download-only redundancy gateway. Public
// gateways are never used for uploads.
type PublicGateway struct {
	base   string
	client *http.Client
}

func NewPublicGateway(base string, client *http.Client) *PublicGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &PublicGateway{base: strings.TrimRight(base, "/"), client: client}
}

func (g *PublicGateway) Name() string {
	return "gateway:" + g.base
}

func (g *PublicGateway) Download(ctx context.Context, cid string) ([]byte, error) {
	return gatewayFetch(ctx, g.client, g.base+"/ipfs/"+cid, g.Name())
}

func (g *PublicGateway) Exists(ctx context.Context, cid string) (bool, error) {
	return gatewayProbe(ctx, g.client, g.base+"/ipfs/"+cid)
}

// ProxyDownloader goes through the backend proxy endpoint
// (GET {base}/api/ipfs/download?cid=...), the fast path that sidesteps
// browser cross-origin restrictions.
type ProxyDownloader struct {
	base   string
	client *http.Client
}

func NewProxyDownloader(base string, client *http.Client) *ProxyDownloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &ProxyDownloader{base: strings.TrimRight(base, "/"), client: client}
}

func (p *ProxyDownloader) Name() string { return "proxy" }

func (p *ProxyDownloader) Download(ctx context.Context, cid string) ([]byte, error) {
	u := p.base + "/api/ipfs/download?cid=" + url.QueryEscape(cid)
	return gatewayFetch(ctx, p.client, u, p.Name())
}
