// Package client is the Go SDK for the InsightSphere news aggregation API.
// It wraps the auth, news and analysis endpoint groups behind typed methods
// and centralizes base configuration, bearer-token injection and error
// classification. The adapter performs a single request per call: no retries,
// no caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// TokenSource yields the current session token, or "" when no session is
// active. The durable credential store implements this; requests made while
// a token is present carry it as a bearer Authorization header.
type TokenSource interface {
	Token() string
}

// --------------------------------------------------------------------
// debugTransport – optional HTTP round-trip logger
// --------------------------------------------------------------------

type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if os.Getenv("INSIGHT_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		reqDump, err := httputil.DumpRequestOut(req, true)
		if err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
		}
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		if os.Getenv("INSIGHT_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
			log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		}
		return nil, err
	}

	if os.Getenv("INSIGHT_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		respDump, err := httputil.DumpResponse(resp, true)
		if err == nil {
			log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
		}
	}
	return resp, nil
}

// --------------------------------------------------------------------
// Client core
// --------------------------------------------------------------------

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New constructs a Client with optional functional arguments.
func New(base string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if os.Getenv("INSIGHT_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			panic(err)
		}
	}
	return c
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// do executes one request and returns the raw response body. A session token
// obtained from the TokenSource (when configured and non-empty) is attached
// as a bearer Authorization header. Non-2xx responses are converted into
// *APIError carrying the server detail message; transport failures are
// classified as network errors. Exactly one attempt is made.
func (c *Client) do(ctx context.Context, method, path string, body any, params url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	group := endpointGroup(path)

	var rdr *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewBuffer(raw)
	} else {
		rdr = &bytes.Buffer{}
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			httpReq.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	requestDuration.WithLabelValues(group).Observe(time.Since(start).Seconds())
	requestsTotal.WithLabelValues(group).Inc()
	if err != nil {
		requestFailuresTotal.WithLabelValues(group).Inc()
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		requestFailuresTotal.WithLabelValues(group).Inc()
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	raw := buf.Bytes()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		requestFailuresTotal.WithLabelValues(group).Inc()
		return nil, newAPIError(resp.StatusCode, raw)
	}
	return raw, nil
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, nil, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// WaitReady polls the service root until it answers, using exponential
// backoff bounded by ctx. Intended for CLIs and tests that start before the
// backend; the regular request path never retries.
func (c *Client) WaitReady(ctx context.Context) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		_ = resp.Body.Close()
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
}

// endpointGroup maps a request path to its metric label.
func endpointGroup(path string) string {
	switch {
	case strings.HasPrefix(path, "/auth/"):
		return "auth"
	case strings.HasPrefix(path, "/news/"):
		return "news"
	case strings.HasPrefix(path, "/analysis/"):
		return "analysis"
	default:
		return "other"
	}
}
