// Package ipfs talks to the content-addressed store over its HTTP API.
package ipfs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kenijima/chainmark/internal/apperr"
)

// Client for the IPFS node holding watermarked images. The node is
// expected to retain pinned content indefinitely; nothing here unpins.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type addResponse struct {
	Hash string `json:"Hash"`
}

// PinBytes uploads data to the store and pins the resulting content
// identifier. Returns the identifier.
func (c *Client) PinBytes(ctx context.Context, data []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "watermarked_image.jpg")
	if err != nil {
		return "", apperr.IPFS("Failed to build upload form", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", apperr.IPFS("Failed to build upload form", err)
	}
	if err := writer.Close(); err != nil {
		return "", apperr.IPFS("Failed to build upload form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v0/add", body)
	if err != nil {
		return "", apperr.IPFS("Failed to create upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperr.IPFS("Failed to upload file to ipfs", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperr.IPFS(fmt.Sprintf("Ipfs add returned status %d", resp.StatusCode), nil)
	}

	var parsed addResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperr.IPFS("Failed to parse ipfs add response", err)
	}
	if parsed.Hash == "" {
		return "", apperr.IPFS("Ipfs add response missing Hash", nil)
	}

	if err := c.pin(ctx, parsed.Hash); err != nil {
		return "", err
	}

	c.logger.Info("File uploaded and pinned", zap.String("cid", parsed.Hash))
	return parsed.Hash, nil
}

// PinBase64 decodes base64 content and pins the bytes.
func (c *Client) PinBase64(ctx context.Context, base64Data string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", apperr.IPFS("Failed to decode base64 content", err)
	}
	return c.PinBytes(ctx, data)
}

func (c *Client) pin(ctx context.Context, cid string) error {
	pinURL := fmt.Sprintf("%s/api/v0/pin/add?arg=%s", c.baseURL, url.QueryEscape(cid))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pinURL, nil)
	if err != nil {
		return apperr.IPFS("Failed to create pin request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.IPFS("Failed to pin file", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.IPFS(fmt.Sprintf("Ipfs pin returned status %d", resp.StatusCode), nil)
	}
	return nil
}

// Cat fetches the bytes stored under a content identifier.
func (c *Client) Cat(ctx context.Context, cid string) ([]byte, error) {
	catURL := fmt.Sprintf("%s/api/v0/cat?arg=%s", c.baseURL, url.QueryEscape(cid))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, catURL, nil)
	if err != nil {
		return nil, apperr.IPFS("Failed to create cat request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.IPFS("Failed to download file", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.IPFS(fmt.Sprintf("Failed to download file: HTTP %d", resp.StatusCode), nil)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.IPFS("Failed to read file content", err)
	}
	return content, nil
}

// CatAsBase64 fetches content and returns it base64-encoded.
func (c *Client) CatAsBase64(ctx context.Context, cid string) (string, error) {
	content, err := c.Cat(ctx, cid)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(content), nil
}
