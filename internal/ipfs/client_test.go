package ipfs

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/apperr"
)

func ipfsError(t *testing.T, err error) *apperr.Error {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected *apperr.Error, got %v", err)
	assert.Equal(t, "IpfsError", appErr.Code)
	return appErr
}

func TestPinBytes(t *testing.T) {
	var pinned string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v0/add":
			require.NoError(t, r.ParseMultipartForm(1<<20))
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.NotEmpty(t, header.Filename)
			w.Write([]byte(`{"Name":"watermarked_image.jpg","Hash":"QmTestCid","Size":"42"}`))
		case "/api/v0/pin/add":
			pinned = r.URL.Query().Get("arg")
			w.Write([]byte(`{"Pins":["QmTestCid"]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	cid, err := c.PinBytes(context.Background(), []byte("image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "QmTestCid", cid)
	assert.Equal(t, "QmTestCid", pinned)
}

func TestPinBytesMissingHash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Name":"watermarked_image.jpg"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	_, err := c.PinBytes(context.Background(), []byte("image bytes"))
	require.Error(t, err)
	ipfsError(t, err)
}

func TestPinBytesAddFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	_, err := c.PinBytes(context.Background(), []byte("image bytes"))
	require.Error(t, err)
	ipfsError(t, err)
}

func TestPinBase64RejectsBadInput(t *testing.T) {
	c := NewClient("http://unused.invalid", zap.NewNop())
	_, err := c.PinBase64(context.Background(), "!!! not base64 !!!")
	require.Error(t, err)
	ipfsError(t, err)
}

func TestCatAsBase64RoundTrip(t *testing.T) {
	content := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v0/cat", r.URL.Path)
		require.Equal(t, "QmTestCid", r.URL.Query().Get("arg"))
		w.Write(content)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	got, err := c.CatAsBase64(context.Background(), "QmTestCid")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(content), got)
}

func TestCatNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	_, err := c.Cat(context.Background(), "QmMissing")
	require.Error(t, err)
	ipfsError(t, err)
}

func TestTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", zap.NewNop())
	_, err := c.PinBytes(context.Background(), []byte("x"))
	require.Error(t, err)
	ipfsError(t, err)
}
