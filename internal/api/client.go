package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"RocketClient/internal/backend"
	"RocketClient/internal/config"
	"RocketClient/internal/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// SessionCookie is the cookie the backend sets on login
const SessionCookie = "jwt_token"

// Client talks to the Rocket REST API. Public endpoints live under
// /api/v1, authenticated ones under /api/v1/protected; both share one
// cookie jar so the login cookie authenticates protected calls.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	jar        http.CookieJar
	logger     *slog.Logger
	inst       telemetry.Instruments

	mu    sync.RWMutex
	token string
}

// New creates an API client for cfg.BaseURL with cfg.Timeout per request
func New(cfg config.Config, logger *slog.Logger, inst telemetry.Instruments) (*Client, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL scheme: %q", base.Scheme)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	logger.Info("created API client", "base_url", base.String(), "timeout", timeout)
	return &Client{
		base:       base,
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		jar:        jar,
		logger:     logger,
		inst:       inst.OrGlobal(),
	}, nil
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Jar exposes the shared cookie jar, e.g. for the chat dialer
func (c *Client) Jar() http.CookieJar {
	return c.jar
}

// ChatURL returns the WebSocket chat endpoint, ws:// or wss:// after the base scheme
func (c *Client) ChatURL() string {
	u := *c.base
	u.Scheme = "ws"
	if c.base.Scheme == "https" {
		u.Scheme = "wss"
	}
	u.Path = c.base.Path + config.ProtectedPrefix + "/ws/chat"
	return u.String()
}

// AuthHeader returns the Authorization header for the current session, if
// any. The backend marks its cookie Secure, so plain-http deployments only
// authenticate through this header.
func (c *Client) AuthHeader() http.Header {
	h := http.Header{}
	if tok := c.Token(); tok != "" {
		h.Set("Authorization", "Bearer "+tok)
	}
	return h
}

// Token returns the session token obtained at login
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(tok string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = tok
}

// SessionCookies returns the cookies to persist between runs. The session
// token is always included, even when the jar withholds a Secure cookie.
func (c *Client) SessionCookies() []*http.Cookie {
	cookies := c.jar.Cookies(c.base)
	tok := c.Token()
	if tok == "" {
		return cookies
	}
	for _, ck := range cookies {
		if ck.Name == SessionCookie {
			return cookies
		}
	}
	return append(cookies, &http.Cookie{Name: SessionCookie, Value: tok})
}

// RestoreSession loads persisted cookies back into the client
func (c *Client) RestoreSession(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	c.jar.SetCookies(c.base, cookies)
	for _, ck := range cookies {
		if ck.Name == SessionCookie && ck.Value != "" {
			c.setToken(ck.Value)
		}
	}
	c.logger.Info("restored session cookies", "count", len(cookies))
}

func (c *Client) publicURL(path string) string {
	return c.base.String() + config.PublicPrefix + path
}

func (c *Client) protectedURL(path string) string {
	return c.base.String() + config.ProtectedPrefix + path
}

// doJSON sends an optional JSON body and decodes an optional JSON response
func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}
	return c.do(ctx, method, endpoint, "application/json", body, out)
}

// doMultipart uploads a single file field
func (c *Client) doMultipart(ctx context.Context, endpoint, field, filename string, r io.Reader, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, endpoint, mw.FormDataContentType(), &buf, out)
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader, out interface{}) error {
	path := strings.TrimPrefix(endpoint, c.base.String())
	ctx, span := c.inst.Tracer.Start(ctx, "rocket_api_call")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	)

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("content-type", contentType)
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.inst.RecordDuration(ctx, start, metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.Int("http.response.status_code", resp.StatusCode),
	))
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.logger.Debug("api call", "method", method, "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Message: strings.TrimSpace(string(respBody))}
		var errBody backend.ErrorResponse
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		span.SetStatus(codes.Error, apiErr.Error())
		return apiErr
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
