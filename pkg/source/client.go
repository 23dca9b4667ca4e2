package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/buildinfo"
	"github.com/matzehuels/treemap/pkg/cache"
	apperr "github.com/matzehuels/treemap/pkg/errors"
	"github.com/matzehuels/treemap/pkg/hierarchy"
	"github.com/matzehuels/treemap/pkg/httputil"
	"github.com/matzehuels/treemap/pkg/observability"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 30 * time.Second

	// MaxBodySize caps how much of a response is read.
	MaxBodySize = 64 << 20
)

// Client fetches datasets over HTTP or from disk, caching remote bodies.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	attempts int
	delay    time.Duration
	headers  map[string]string
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithCache stores remote bodies in ch under keys built by keyer.
func WithCache(ch cache.Cache, keyer cache.Keyer) Option {
	return func(c *Client) {
		if ch != nil {
			c.cache = ch
		}
		if keyer != nil {
			c.keyer = keyer
		}
	}
}

// WithTTL sets how long fetched bodies stay cached.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) { c.ttl = ttl }
}

// WithAttempts enables retrying transient failures. The default of one
// attempt fetches exactly once.
func WithAttempts(n int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = max(n, 1)
		if delay > 0 {
			c.delay = delay
		}
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client. Without options it does not cache and makes a
// single attempt per fetch.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		ttl:      cache.DatasetTTL,
		attempts: 1,
		delay:    time.Second,
		headers: map[string]string{
			"Accept":     "application/json",
			"User-Agent": buildinfo.UserAgent(),
		},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch resolves location, retrieves the document and decodes it.
// It returns the decoded record together with the raw bytes.
func (c *Client) Fetch(ctx context.Context, location string) (hierarchy.RawRecord, []byte, error) {
	body, _, err := c.FetchBytes(ctx, location)
	if err != nil {
		return hierarchy.RawRecord{}, nil, err
	}
	raw, err := hierarchy.Parse(body)
	if err != nil {
		return hierarchy.RawRecord{}, nil, apperr.Wrap(apperr.ErrCodeMalformedRecord, err, "dataset %s", location)
	}
	return raw, body, nil
}

// FetchBytes returns the raw document at location and whether it came
// from the cache.
func (c *Client) FetchBytes(ctx context.Context, location string) (data []byte, cached bool, err error) {
	resolved := Resolve(location)
	start := time.Now()
	observability.Pipeline().OnFetchStart(ctx, resolved)
	defer func() {
		observability.Pipeline().OnFetchComplete(ctx, resolved, len(data), cached, time.Since(start), err)
	}()

	if !IsRemote(resolved) {
		data, err = readLocal(resolved)
		return data, false, err
	}

	if err := apperr.ValidateURL(resolved); err != nil {
		return nil, false, apperr.Wrap(apperr.ErrCodeFetchFailed, err, "invalid dataset url")
	}

	key := c.keyer.DatasetKey(resolved)
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("dataset cache read failed", "err", err)
	} else if ok {
		observability.Cache().OnCacheHit(ctx, "dataset")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "dataset")

	err = httputil.Retry(ctx, c.attempts, c.delay, func() error {
		var ferr error
		data, ferr = c.get(ctx, resolved)
		if ferr != nil && httputil.IsRetryable(ferr) && c.attempts > 1 {
			c.logger.Debug("retrying dataset fetch", "url", resolved, "err", ferr)
		}
		return ferr
	})
	if err != nil {
		return nil, false, apperr.Wrap(apperr.ErrCodeFetchFailed, err, "fetch %s", resolved)
	}

	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("dataset cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "dataset", len(data))
	}
	return data, false, nil
}

// Invalidate drops the cached body for location so the next Fetch
// downloads it again.
func (c *Client) Invalidate(ctx context.Context, location string) error {
	resolved := Resolve(location)
	if !IsRemote(resolved) {
		return nil
	}
	return c.cache.Delete(ctx, c.keyer.DatasetKey(resolved))
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := req.URL.Host, req.URL.Path
	start := time.Now()
	observability.HTTP().OnRequest(ctx, req.Method, host, path)

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		return nil, httputil.Retryable(apperr.Wrap(apperr.ErrCodeNetwork, err, "request failed"))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, httputil.Retryable(apperr.Wrap(apperr.ErrCodeNetwork, err, "read body"))
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return apperr.New(apperr.ErrCodeNotFound, "dataset not found")
	case code == http.StatusTooManyRequests || code >= 500:
		return httputil.Retryable(apperr.New(apperr.ErrCodeNetwork, "status %d", code))
	default:
		return apperr.New(apperr.ErrCodeNetwork, "status %d", code)
	}
}

// LocalPath returns the filesystem path for a non-remote location,
// accepting an optional file:// prefix.
func LocalPath(location string) string {
	if strings.HasPrefix(location, "file://") {
		if u, err := url.Parse(location); err == nil {
			return u.Path
		}
	}
	return location
}

func readLocal(location string) ([]byte, error) {
	path := LocalPath(location)
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeFetchFailed, err, "open %s", path)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxBodySize))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeFetchFailed, err, "read %s", path)
	}
	return data, nil
}

// Describe returns a human label for a location: the preset title when it
// names one, otherwise the location itself.
func Describe(location string) string {
	if location == "" {
		location = DefaultPreset
	}
	if p, ok := LookupPreset(location); ok {
		return fmt.Sprintf("%s (%s)", p.Title, p.Name)
	}
	return location
}
