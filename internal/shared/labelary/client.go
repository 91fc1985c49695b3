// Package labelary is a thin client for the Labelary ZPL rasterization API
// (http://labelary.com). It converts one raw ZPL page into a PNG image.
// Retry policy is left to the caller.
package labelary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "http://api.labelary.com/v1/printers"

// Client talks to one Labelary endpoint with a fixed print density and
// label size.
type Client struct {
	baseURL    string
	density    string // dots per mm, e.g. "8dpmm"
	size       string // label size in inches, e.g. "4x6"
	httpClient *http.Client
}

// NewClient creates a Labelary client. Empty baseURL selects the public API;
// a non-positive timeout falls back to 30s.
func NewClient(baseURL, density, size string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if density == "" {
		density = "8dpmm"
	}
	if size == "" {
		size = "4x6"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		density: density,
		size:    size,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Render rasterizes one ZPL page into a PNG. The page index of the request is
// always 0: callers submit one ^XA...^XZ block at a time.
func (c *Client) Render(ctx context.Context, zpl string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/labels/%s/0/", c.baseURL, c.density, c.size)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(zpl))
	if err != nil {
		return nil, fmt.Errorf("criar requisicao de renderizacao: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "image/png")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chamar rasterizador: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ler resposta do rasterizador: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rasterizador retornou %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
