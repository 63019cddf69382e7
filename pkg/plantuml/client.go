package plantuml

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/protouml/protouml/pkg/cache"
	"github.com/protouml/protouml/pkg/errors"
	"github.com/protouml/protouml/pkg/httputil"
	"github.com/protouml/protouml/pkg/observability"
)

// DefaultEndpoint is the public PlantUML rendering server.
const DefaultEndpoint = "https://www.plantuml.com/plantuml"

// DefaultCacheTTL bounds how long fetched renders stay cached. Tokens are
// content-addressed, so entries never go stale; the TTL just caps disk use.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Formats the render server can produce.
var Formats = []string{"png", "svg", "txt"}

// ValidFormat reports whether format is a supported render output.
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Client fetches rendered diagrams from a PlantUML server.
// The zero value is not usable; create one with NewClient.
type Client struct {
	endpoint string
	hc       *http.Client
	cache    cache.Cache
	ttl      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithCache stores fetched renders in the given cache.
func WithCache(ca cache.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache, c.ttl = ca, ttl }
}

// NewClient creates a render client for the given server endpoint.
// An empty endpoint selects DefaultEndpoint. Without WithCache, responses
// are not cached.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		hc:       &http.Client{Timeout: 30 * time.Second},
		cache:    cache.NewNullCache(),
		ttl:      DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the render URL for an encoded diagram in the given format.
// Hex tokens get the distinguishing prefix the server requires.
func (c *Client) URL(res Result, format string) string {
	token := res.Token
	if res.Encoding == EncodingHex {
		token = HexPrefix + token
	}
	return fmt.Sprintf("%s/%s/%s", c.endpoint, format, token)
}

// Fetch retrieves the rendered diagram bytes, consulting the cache first.
// Server errors in the 5xx range and transport failures are retried with
// exponential backoff; 4xx responses fail immediately.
func (c *Client) Fetch(ctx context.Context, res Result, format string) ([]byte, error) {
	if !ValidFormat(format) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported render format %q", format)
	}

	key := cache.Key("render", res.Token, string(res.Encoding), format)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "render")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	url := c.URL(res, format)
	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var fetchErr error
		body, fetchErr = c.get(ctx, url)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	// Cache failures only cost the next fetch.
	_ = c.cache.Set(ctx, key, body, c.ttl)
	observability.Cache().OnCacheSet(ctx, "render", len(body))
	return body, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}

	observability.HTTP().OnRequest(ctx, http.MethodGet, url)
	start := time.Now()

	resp, err := c.hc.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, url, err)
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "fetch render"))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, url, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return nil, &errors.RateLimitedError{RetryAfter: retryAfter}
	case resp.StatusCode >= 500:
		return nil, httputil.Retryable(errors.New(errors.ErrCodeNetwork, "render server returned %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeNetwork, "render server returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read render response"))
	}
	return body, nil
}
