package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ghalamif/vitalsync/internal/domain"
	"github.com/ghalamif/vitalsync/internal/ports"
)

// DefaultPath is the collection endpoint path on the remote server.
const DefaultPath = "/hh/receive"

// maxErrorBodySize caps how much of a failed response ends up in the error.
const maxErrorBodySize = 500

// Config locates the collection endpoint. BaseURL may be a bare host:port.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if _, err := c.EndpointURL(); err != nil {
		return err
	}
	return nil
}

// EndpointURL joins BaseURL and Path, defaulting the scheme to http.
func (c *Config) EndpointURL() (string, error) {
	base := strings.TrimSpace(c.BaseURL)
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("base_url %q: unsupported scheme %q", c.BaseURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base_url %q: missing host", c.BaseURL)
	}
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	return u.String(), nil
}

// HTTPTransmitter posts the JSON payload once; it never retries.
type HTTPTransmitter struct {
	client *http.Client
	url    string
}

// NewHTTPTransmitter builds a transmitter for cfg. A nil client gets one with
// cfg.Timeout; callers wanting shared connection pools pass their own.
func NewHTTPTransmitter(cfg Config, client *http.Client) (*HTTPTransmitter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	endpoint, err := cfg.EndpointURL()
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPTransmitter{client: client, url: endpoint}, nil
}

func (t *HTTPTransmitter) Name() string { return "http" }

// URL returns the resolved endpoint.
func (t *HTTPTransmitter) URL() string { return t.url }

func (t *HTTPTransmitter) Send(ctx context.Context, p domain.SyncPayload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return &domain.TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return &domain.TransportError{Op: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := t.client.Do(req)
	if err != nil {
		return &domain.TransportError{Op: "post", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.TransportError{Op: "status", StatusCode: resp.StatusCode, Err: responseError(resp)}
	}
	// response body is not part of the protocol; drain it for connection reuse
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return nil
}

func responseError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize+1))
	msg := strings.TrimSpace(string(b))
	if len(msg) > maxErrorBodySize {
		msg = msg[:maxErrorBodySize] + "..."
	}
	if msg == "" {
		return fmt.Errorf("%s", http.StatusText(resp.StatusCode))
	}
	return fmt.Errorf("%s: %s", http.StatusText(resp.StatusCode), msg)
}

var _ ports.Transmitter = (*HTTPTransmitter)(nil)
