package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photovault/photovault/internal/common"
)

func TestSelfHosted_Upload(t *testing.T) {
	var gotAuth, gotQuery, gotFileName string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v0/add", r.URL.Path)
		gotQuery = r.URL.RawQuery

		user, pass, ok := r.BasicAuth()
		if ok {
			gotAuth = user + ":" + pass
		}

		require.NoError(t, r.ParseMultipartForm(1<<20))
		fh := r.MultipartForm.File["file"]
		require.Len(t, fh, 1)
		gotFileName = fh[0].Filename

		f, err := fh[0].Open()
		require.NoError(t, err)
		defer f.Close()
		body, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, []byte("ciphertext"), body)

		// Node responses are newline-delimited JSON; the last object wins.
		w.Write([]byte(`{"Name":"wrap","Hash":"QmWrapperWrapperWrapperWrapperWrapperWrapper12"}` + "\n"))
		w.Write([]byte(`{"Name":"root","Hash":"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"}` + "\n"))
	}))
	defer srv.Close()

	b := NewSelfHosted(SelfHostedConfig{
		APIBase:  srv.URL,
		Username: "vault",
		Password: "hunter2",
	}, srv.Client())

	var lastSent, total int64
	cid, err := b.Upload(context.Background(), []byte("ciphertext"), UploadOptions{
		FileName: "summer-trip.jpg",
		OnProgress: func(sent, t int64) {
			lastSent, total = sent, t
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", cid)
	assert.Equal(t, "cid-version=1", gotQuery)
	assert.Equal(t, "vault:hunter2", gotAuth)

	// Metadata hygiene: the real file name must not reach the backend.
	assert.NotEqual(t, "summer-trip.jpg", gotFileName)
	assert.NotEmpty(t, gotFileName)

	assert.Equal(t, total, lastSent, "progress must end at the full body size")
	assert.Positive(t, total)
}

func TestSelfHosted_UploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := NewSelfHosted(SelfHostedConfig{APIBase: srv.URL}, srv.Client())

	_, err := b.Upload(context.Background(), []byte("x"), UploadOptions{})
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
}

func TestSelfHosted_UploadMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	b := NewSelfHosted(SelfHostedConfig{APIBase: srv.URL}, srv.Client())

	_, err := b.Upload(context.Background(), []byte("x"), UploadOptions{})
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
}

func TestSelfHosted_DownloadAndExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/ipfs/") {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, testCID) {
			w.Write([]byte("blob bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	b := NewSelfHosted(SelfHostedConfig{APIBase: srv.URL, GatewayBase: srv.URL}, srv.Client())

	data, err := b.Download(context.Background(), testCID)
	require.NoError(t, err)
	assert.Equal(t, []byte("blob bytes"), data)

	exists, err := b.Exists(context.Background(), testCID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = b.Exists(context.Background(), "QmMissingMissingMissingMissingMissingMissing12")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPinata_Upload(t *testing.T) {
	var gotAuth, gotFileName string
	var sawMetadataField bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pinning/pinFileToIPFS", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		fh := r.MultipartForm.File["file"]
		require.Len(t, fh, 1)
		gotFileName = fh[0].Filename
		_, sawMetadataField = r.MultipartForm.Value["pinataMetadata"]

		w.Write([]byte(`{"IpfsHash":"bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy","PinSize":10}`))
	}))
	defer srv.Close()

	b := NewPinata(PinataConfig{
		APIBase:     srv.URL,
		GatewayBase: srv.URL,
		Token:       "jwt-token",
	}, srv.Client())

	cid, err := b.Upload(context.Background(), []byte("ciphertext"), UploadOptions{FileName: "cat.png"})
	require.NoError(t, err)
	assert.Equal(t, "bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy", cid)
	assert.Equal(t, "Bearer jwt-token", gotAuth)

	// Anti-profiling: no pinataMetadata, no real file name.
	assert.False(t, sawMetadataField, "pinataMetadata must not be attached")
	assert.NotEqual(t, "cat.png", gotFileName)
}

func TestPinata_DownloadWithGatewayToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ipfs/"+testCID, r.URL.Path)
		require.Equal(t, "gw-token", r.URL.Query().Get("pinataGatewayToken"))
		w.Write([]byte("gated blob"))
	}))
	defer srv.Close()

	b := NewPinata(PinataConfig{
		APIBase:      srv.URL,
		GatewayBase:  srv.URL,
		Token:        "jwt-token",
		GatewayToken: "gw-token",
	}, srv.Client())

	data, err := b.Download(context.Background(), testCID)
	require.NoError(t, err)
	assert.Equal(t, []byte("gated blob"), data)
}

func TestPinata_Unpin(t *testing.T) {
	var gotMethod, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b := NewPinata(PinataConfig{APIBase: srv.URL, GatewayBase: srv.URL, Token: "t"}, srv.Client())

	require.NoError(t, b.Unpin(context.Background(), testCID))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/pinning/unpin/"+testCID, gotPath)
}

func TestPublicGateway_DownloadOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ipfs/"+testCID, r.URL.Path)
		w.Write([]byte("public blob"))
	}))
	defer srv.Close()

	g := NewPublicGateway(srv.URL, srv.Client())

	data, err := g.Download(context.Background(), testCID)
	require.NoError(t, err)
	assert.Equal(t, []byte("public blob"), data)

	// Public gateways must never be eligible for uploads.
	_, isUploader := interface{}(g).(Uploader)
	assert.False(t, isUploader)
}

func TestProxyDownloader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ipfs/download", r.URL.Path)
		require.Equal(t, testCID, r.URL.Query().Get("cid"))
		w.Write([]byte("proxied blob"))
	}))
	defer srv.Close()

	p := NewProxyDownloader(srv.URL, srv.Client())

	data, err := p.Download(context.Background(), testCID)
	require.NoError(t, err)
	assert.Equal(t, []byte("proxied blob"), data)
}
