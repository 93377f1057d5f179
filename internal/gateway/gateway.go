// Package gateway fetches listing content from an HTTP content gateway by
// its content identifier. The gateway only serves bytes; whether the caller
// is entitled to them is decided against the contract before coming here.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches content-addressed files over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the gateway at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 5 * time.Minute, // generous for large files
		},
	}
}

// Fetch streams the content behind cid. The caller owns closing the reader.
func (c *Client) Fetch(ctx context.Context, cid string) (io.ReadCloser, int64, error) {
	if strings.TrimSpace(cid) == "" {
		return nil, 0, fmt.Errorf("empty content identifier")
	}
	url := c.baseURL + "/ipfs/" + cid
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, 0, fmt.Errorf("gateway returned %d for %s", resp.StatusCode, cid)
	}
	return resp.Body, resp.ContentLength, nil
}
