// Package httpc performs the blocking HTTP requests scripts make.
package httpc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// maxBody caps a decoded response body.
const maxBody = 64 << 20

// Client issues requests with a fixed timeout and user agent.
type Client struct {
	hc        *http.Client
	userAgent string
}

// Response is a fully read response.
type Response struct {
	Status  int
	Body    string
	Headers map[string]string
}

func New(timeout time.Duration, userAgent string) *Client {
	// compression is negotiated here so zstd can be offered as well
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.DisableCompression = true
	return &Client{
		hc:        &http.Client{Timeout: timeout, Transport: tr},
		userAgent: userAgent,
	}
}

// Get requests scheme://host/path.
func (c *Client) Get(ctx context.Context, scheme, host, path string, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodGet, scheme, host, path, headers, nil, "")
}

// Post sends body with the given content type.
func (c *Client) Post(ctx context.Context, scheme, host, path string, headers map[string]string, body, contentType string) (*Response, error) {
	return c.do(ctx, http.MethodPost, scheme, host, path, headers, strings.NewReader(body), contentType)
}

func buildURL(scheme, host, path string) (string, error) {
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", scheme)
	}
	if host == "" {
		return "", fmt.Errorf("empty host")
	}
	u, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	u.Scheme = scheme
	u.Host = host
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method, scheme, host, path string, headers map[string]string, body io.Reader, contentType string) (*Response, error) {
	target, err := buildURL(scheme, host, path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept-Encoding", "gzip, zstd")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := decode(resp)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}
	out := &Response{Status: resp.StatusCode, Body: string(raw), Headers: make(map[string]string, len(resp.Header))}
	for k := range resp.Header {
		out.Headers[k] = resp.Header.Get(k)
	}
	return out, nil
}

func decode(resp *http.Response) ([]byte, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "", "identity":
		return io.ReadAll(io.LimitReader(resp.Body, maxBody))
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		resp.Header.Del("Content-Encoding")
		return io.ReadAll(io.LimitReader(zr, maxBody))
	case "zstd":
		dec, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		resp.Header.Del("Content-Encoding")
		return io.ReadAll(io.LimitReader(dec, maxBody))
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}
