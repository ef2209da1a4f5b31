package docapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ocrflow/docflow/pkg/settings"
)

const (
	// DefaultBaseURL is used when no settings are available at all.
	DefaultBaseURL = "http://localhost:8010/api"

	// DefaultTimeout applies to every request issued by a Client.
	DefaultTimeout = 30 * time.Second

	contentTypeJSON = "application/json"
)

// Config contains configuration for a Client.
type Config struct {
	// BaseURL is prepended to every request path.
	// Default: DefaultBaseURL
	BaseURL string

	// Timeout bounds each request, including reading the response body.
	// Default: 30 seconds
	Timeout time.Duration

	// Logger receives one entry per failed request.
	// Default: null logger
	Logger hclog.Logger

	// Transport overrides the HTTP transport (tests, proxies).
	Transport http.RoundTripper
}

// Client issues requests against the document API. The zero value is not
// usable; construct one with New or NewClient.
type Client struct {
	baseURL string
	headers http.Header
	http    *http.Client
	logger  hclog.Logger
}

// BaseURL returns the API base URL from s, or DefaultBaseURL when s is nil.
func BaseURL(s *settings.Settings) string {
	if s == nil || s.APIBaseURL == "" {
		return DefaultBaseURL
	}
	return s.APIBaseURL
}

// New creates a client from resolved settings. The base URL is read once
// here and never again.
func New(s *settings.Settings, logger hclog.Logger) *Client {
	return NewClient(Config{
		BaseURL: BaseURL(s),
		Logger:  logger,
	})
}

// NewClient creates a client from an explicit Config.
func NewClient(cfg Config) *Client {
	// Apply defaults
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
	}

	headers := make(http.Header)
	headers.Set("Content-Type", contentTypeJSON)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		headers: headers,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: cfg.Logger.Named("docapi"),
	}
}

// BaseURL returns the base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// request describes one call. At most one of body and form is set.
type request struct {
	method string
	path   string
	body   any
	form   *formFile
}

// formFile is a single file sent as multipart form data.
type formFile struct {
	field    string
	filename string
	content  io.Reader
}

// do sends r and returns the response, or the normalized error.
func (c *Client) do(ctx context.Context, r request) (*Response, error) {
	resp, err := c.roundTrip(ctx, r)
	if err != nil {
		return nil, c.normalize(r, err)
	}
	return resp, nil
}

// roundTrip performs the request. Its errors are one of the unexported
// failure types in errors.go and are turned into public errors by
// normalize.
func (c *Client) roundTrip(ctx context.Context, r request) (*Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, &buildFailure{err: err}
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, &transportFailure{err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &transportFailure{err: fmt.Errorf("failed to read response: %w", err)}
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusFailure{resp: resp}
	}

	return resp, nil
}

// newRequest builds the HTTP request for r, encoding its body.
func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	endpoint := c.baseURL + r.path

	var (
		bodyReader  io.Reader
		contentType string
	)
	switch {
	case r.form != nil:
		buf, formType, err := encodeForm(r.form)
		if err != nil {
			return nil, err
		}
		bodyReader = buf
		contentType = formType
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported protocol scheme %q in %s", req.URL.Scheme, endpoint)
	}
	if req.URL.Host == "" {
		return nil, fmt.Errorf("no host in request URL %s", endpoint)
	}

	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeForm renders f as a multipart/form-data body and returns it with
// the matching Content-Type (including the boundary).
func encodeForm(f *formFile) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	partType := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.filename)))
	if partType == "" {
		partType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.field), quoteEscaper.Replace(f.filename)))
	h.Set("Content-Type", partType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, f.content); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", f.filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form data: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}
