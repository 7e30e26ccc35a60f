// Package motion fetches motion timelines from remote or local sources and
// installs the newest result for the render loop to poll.
package motion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"avatar-retarget/internal/timeline"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxDocumentBytes   = 64 << 20
)

// ErrUnavailable marks a motion source that could not be fetched or
// decoded. The source stays unavailable until it is selected again.
var ErrUnavailable = errors.New("motion data unavailable")

// Source fetches one motion document by reference.
type Source interface {
	Fetch(ctx context.Context, ref string) (*timeline.Timeline, error)
}

// HTTPSource fetches documents over HTTP. Relative references are joined
// onto BaseURL.
type HTTPSource struct {
	BaseURL    string
	httpClient *http.Client
}

// Option customizes an HTTPSource.
type Option func(*HTTPSource)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *HTTPSource) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		if d > 0 {
			s.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewHTTPSource builds an HTTP source rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		BaseURL:    strings.TrimSpace(baseURL),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// URL resolves ref against the base URL.
func (s *HTTPSource) URL(ref string) (string, error) {
	if isHTTP(ref) {
		return ref, nil
	}
	if s.BaseURL == "" {
		return "", fmt.Errorf("relative motion reference %q without base url", ref)
	}
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse motion reference: %w", err)
	}
	return base.ResolveReference(rel).String(), nil
}

func (s *HTTPSource) Fetch(ctx context.Context, ref string) (*timeline.Timeline, error) {
	endpoint, err := s.URL(ref)
	if err != nil {
		return nil, wrap("build url", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, wrap("new request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, wrap("http error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, wrap("read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, wrap("fetch "+endpoint, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		})
	}
	tl, err := timeline.Unmarshal(body)
	if err != nil {
		return nil, wrap("decode "+endpoint, err)
	}
	return tl, nil
}

// FileSource reads documents from the local filesystem.
type FileSource struct{}

func (FileSource) Fetch(ctx context.Context, ref string) (*timeline.Timeline, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("read "+ref, err)
	}
	path := strings.TrimPrefix(ref, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap("open", err)
	}
	defer f.Close()

	tl, err := timeline.Decode(f)
	if err != nil {
		return nil, wrap("decode "+path, err)
	}
	return tl, nil
}

// Router sends http(s) references, and root-relative references when a
// base URL is configured, to HTTP; everything else is a local file.
type Router struct {
	HTTP *HTTPSource
	File FileSource
}

// NewRouter builds a router whose HTTP side uses baseURL.
func NewRouter(baseURL string, opts ...Option) *Router {
	return &Router{HTTP: NewHTTPSource(baseURL, opts...)}
}

func (r *Router) Fetch(ctx context.Context, ref string) (*timeline.Timeline, error) {
	if r.HTTP != nil && (isHTTP(ref) || (r.HTTP.BaseURL != "" && strings.HasPrefix(ref, "/") && !fileExists(ref))) {
		return r.HTTP.Fetch(ctx, ref)
	}
	return r.File.Fetch(ctx, ref)
}

func isHTTP(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
