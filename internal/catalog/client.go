package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/text/encoding/htmlindex"

	"equipment-catalog/internal"
	"equipment-catalog/internal/config"
)

type Client struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond},
	}
}

// FetchSource downloads the compendium once. There is no retry: any transport
// or status failure is returned as ErrFetch, a bad payload as ErrParse.
func (c *Client) FetchSource(ctx context.Context) ([]internal.RawItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.SourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internal.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internal.ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", internal.ErrFetch, c.cfg.SourceURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s status=%d body=%s", internal.ErrFetch, c.cfg.SourceURL, resp.StatusCode, snippet(body, 300))
	}

	text, err := decodeCharset(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internal.ErrFetch, err)
	}
	return ParseRawItems(text)
}

// ParseRawItems decodes a JSON array of records, keeping numbers as json.Number.
func ParseRawItems(data []byte) ([]internal.RawItem, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: payload is not a JSON array", internal.ErrParse)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var items []internal.RawItem
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %w", internal.ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON array", internal.ErrParse)
	}
	return items, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		r = resp.Body
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	case "br":
		r = brotli.NewReader(resp.Body)
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
	return io.ReadAll(r)
}

// decodeCharset converts body to UTF-8 using the charset declared in the
// Content-Type header. Undeclared means UTF-8.
func decodeCharset(body []byte, contentType string) ([]byte, error) {
	if strings.TrimSpace(contentType) == "" {
		return body, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	label := strings.ToLower(strings.TrimSpace(params["charset"]))
	if label == "" || label == "utf-8" || label == "utf8" {
		return body, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Bytes(body)
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
