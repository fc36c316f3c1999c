// Package api is the single chokepoint for talking to the remote transit
// backend: URL construction, bearer injection, timeouts, and classification
// of every failure into one normalized error shape.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mediride/transit-client/internal/core/domain"
	"github.com/mediride/transit-client/internal/core/ports"
	"github.com/mediride/transit-client/internal/infrastructure/api/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// Request describes one outgoing call. When RequiresAuth is false no token
// is attached even if one is stored; when true and no token exists, the
// request is sent without an Authorization header and the server's 401 does
// the rejecting.
type Request struct {
	Method       string
	Path         string
	Body         any
	RequiresAuth bool
}

// Client owns the outgoing HTTP pipeline. Each call is attempted exactly
// once; retry policy, if any, belongs to callers.
type Client struct {
	baseURL        string
	http           *http.Client
	creds          ports.CredentialStore
	log            zerolog.Logger
	onUnauthorized func(context.Context)
}

// New builds a Client for the given base URL. A zero timeout falls back to
// 15 seconds; after the timeout the attempt is abandoned and classified as a
// network error.
func New(baseURL string, timeout time.Duration, creds ports.CredentialStore, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		creds: creds,
		log:   log.With().Str("component", "api").Logger(),
	}
}

// SetUnauthorizedHandler registers the hook invoked after a 401 response,
// once the credential store has already been cleared. The session uses it to
// drop its in-memory state.
func (c *Client) SetUnauthorizedHandler(fn func(context.Context)) {
	c.onUnauthorized = fn
}

// Do executes req and, when out is non-nil, decodes the success body into
// it. Every failure is returned as a *domain.APIError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("api: encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.url(req.Path), body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	c.attachToken(ctx, httpReq, req.RequiresAuth)

	return c.send(ctx, httpReq, out)
}

// send performs the one attempt and classifies the result. Shared by Do and
// Upload.
func (c *Client) send(ctx context.Context, httpReq *http.Request, out any) error {
	method := httpReq.Method
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "network_error").Inc()
		c.log.Warn().Err(err).Str("method", method).Str("url", httpReq.URL.String()).
			Msg("request failed before a response arrived")
		return domain.NetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "network_error").Inc()
		return domain.NetworkError(err)
	}

	if resp.StatusCode >= 400 {
		return c.classifyFailure(ctx, method, resp.StatusCode, raw)
	}

	metrics.RequestsTotal.WithLabelValues(method, "success").Inc()
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("api: decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) classifyFailure(ctx context.Context, method string, status int, raw []byte) error {
	outcome := "client_error"
	if status >= 500 {
		outcome = "server_error"
	}
	metrics.RequestsTotal.WithLabelValues(method, outcome).Inc()

	// 401 means the held token is no longer valid: drop the stored
	// credential and tell the session. 403 is insufficient privilege with a
	// still-valid token and must NOT clear anything.
	if status == http.StatusUnauthorized {
		metrics.SessionInvalidationsTotal.Inc()
		c.log.Info().Msg("401 received, invalidating session")
		c.creds.Clear(ctx)
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
	}

	return domain.HTTPError(status, serverMessage(raw))
}

// attachToken injects the bearer credential when the request requires auth
// and a token is stored. The stored token is scheme-free (the keychain
// normalizes it), so the prefix is added in exactly one place.
func (c *Client) attachToken(ctx context.Context, httpReq *http.Request, requiresAuth bool) {
	if !requiresAuth {
		return
	}
	cred, ok := c.creds.Get(ctx)
	if !ok {
		return
	}
	httpReq.Header.Set("Authorization", "Bearer "+cred.Token)
}

// url joins the base URL and a relative path with exactly one separator.
func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// serverMessage pulls the human-readable message out of an error body.
// The backend answers with either {"error": "…"} or {"message": "…"}.
func serverMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return ""
}
