// Package blobstore talks to the object-storage half of the hosted
// backend: bytes in, public URL out. The core never inspects file
// contents.
package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chileadicto/internal/adapters/observability"
	"chileadicto/internal/domain"
)

type Client struct {
	base   string
	key    string
	bucket string
	hc     *http.Client
}

func New(base, key, bucket string) (*Client, error) {
	if base == "" || bucket == "" {
		return nil, fmt.Errorf("storage base URL and bucket are required")
	}
	return &Client{
		base:   strings.TrimSuffix(base, "/"),
		key:    key,
		bucket: bucket,
		hc:     &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	u := fmt.Sprintf("%s/object/%s/%s", c.base, c.bucket, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	c.auth(req)
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("storage", "upload", resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("storage upload: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return c.PublicURL(path), nil
}

// PublicURL is derivable without a round-trip; the bucket is public.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.base, c.bucket, path)
}

type listEntry struct {
	Name     string `json:"name"`
	Metadata struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

func (c *Client) List(ctx context.Context, prefix string) ([]domain.MediaObject, error) {
	u := fmt.Sprintf("%s/object/list/%s", c.base, c.bucket)
	body, err := json.Marshal(map[string]any{
		"prefix": prefix,
		"limit":  1000,
		"sortBy": map[string]string{"column": "name", "order": "asc"},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.auth(req)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("storage", "list", resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("storage list: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var entries []listEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, err
	}
	out := make([]domain.MediaObject, 0, len(entries))
	for _, e := range entries {
		full := e.Name
		if prefix != "" {
			full = prefix + "/" + e.Name
		}
		out = append(out, domain.MediaObject{
			Name: e.Name,
			URL:  c.PublicURL(full),
			Size: e.Metadata.Size,
		})
	}
	return out, nil
}

func (c *Client) auth(req *http.Request) {
	if c.key != "" {
		req.Header.Set("apikey", c.key)
		req.Header.Set("Authorization", "Bearer "+c.key)
	}
}
