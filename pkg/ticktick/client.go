package ticktick

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
)

// Hosts the API is served from.
const (
	HostInternational = "ticktick.com"
	HostChina         = "dida365.com"
)

// Options carries everything needed to reach the API. Credentials come from
// the caller's configuration layer; this package never reads the environment.
type Options struct {
	Host        string // ticktick.com (default) or dida365.com
	AccessToken string // OAuth token for the open (v1) API
	Username    string // account credentials for the web (v2) API
	Password    string
	DeviceID    string // optional; generated when empty

	// Headers overrides the v2 session header strategy. It is probed once:
	// a strategy already emitting Origin/Referer is kept as-is, anything
	// else is replaced with the browser profile.
	Headers HeaderStrategy

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// NormalizeHost maps a raw host value onto a supported API host, falling
// back to the international host for anything unrecognized.
func NormalizeHost(raw string) (string, bool) {
	host := strings.ToLower(strings.TrimSpace(raw))
	switch host {
	case HostInternational, HostChina:
		return host, true
	case "":
		return HostInternational, true
	}
	return HostInternational, false
}

// Client talks to both TickTick API generations: the open (v1) API with an
// OAuth bearer token and the web (v2) API with a signed-on session. One
// Client serves one process invocation; it is not safe for concurrent use.
type Client struct {
	httpClient *http.Client
	host       string
	headers    HeaderStrategy

	accessToken string
	username    string
	password    string

	sessionToken string // v2 session, obtained by signon
	inboxID      string // cached from signon; may be empty
}

// Dial validates credentials, chooses the session header strategy, and signs
// on to the v2 API. Callers must Close the returned client.
func Dial(ctx context.Context, opts Options) (*Client, error) {
	var missing []string
	if opts.AccessToken == "" {
		missing = append(missing, "TICKTICK_ACCESS_TOKEN")
	}
	if opts.Username == "" {
		missing = append(missing, "TICKTICK_USERNAME")
	}
	if opts.Password == "" {
		missing = append(missing, "TICKTICK_PASSWORD")
	}
	if len(missing) > 0 {
		return nil, &ConfigurationError{
			Message: "TickTick credentials are not configured",
			Missing: missing,
		}
	}

	host, _ := NormalizeHost(opts.Host)
	c := &Client{
		httpClient:  opts.HTTPClient,
		host:        host,
		accessToken: opts.AccessToken,
		username:    opts.Username,
		password:    opts.Password,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c.headers = EnsureBrowserHeaders(opts.Headers, func() string { return c.host }, opts.DeviceID)

	if err := c.signon(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Close releases the underlying transport. The v2 session is left to expire
// server-side; there is no signoff endpoint.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// InboxID returns the inbox project identifier cached at signon, or "" when
// the signon response did not carry one.
func (c *Client) InboxID() string {
	return c.inboxID
}

func (c *Client) v1URL(path string) string {
	return fmt.Sprintf("https://api.%s/open/v1%s", c.host, path)
}

func (c *Client) v2URL(path string) string {
	return fmt.Sprintf("https://api.%s/api/v2%s", c.host, path)
}

// signon opens the v2 session. The open API token alone cannot reach tags,
// habits, search, or batch endpoints.
func (c *Client) signon(ctx context.Context) error {
	payload := map[string]string{
		"username": c.username,
		"password": c.password,
	}
	var resp struct {
		Token   string `json:"token"`
		InboxID string `json:"inboxId"`
	}
	endpoint := c.v2URL("/user/signon?wc=true&remember=true")
	if err := c.doJSON(ctx, http.MethodPost, endpoint, payload, &resp, c.v2Headers()); err != nil {
		return err
	}
	if resp.Token == "" {
		return &APIError{Endpoint: "user/signon", Message: "signon response carried no session token"}
	}
	c.sessionToken = resp.Token
	c.inboxID = resp.InboxID
	return nil
}

func (c *Client) v1Headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.accessToken,
	}
}

func (c *Client) v2Headers() map[string]string {
	headers := map[string]string{}
	for k, v := range c.headers.Headers() {
		headers[k] = v
	}
	if c.sessionToken != "" {
		headers["Cookie"] = "t=" + c.sessionToken
	}
	return headers
}

// getV1 / postV1 / deleteV1 are the open API verbs.

func (c *Client) getV1(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, c.v1URL(path), nil, out, c.v1Headers())
}

func (c *Client) postV1(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.v1URL(path), body, out, c.v1Headers())
}

func (c *Client) deleteV1(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, c.v1URL(path), nil, nil, c.v1Headers())
}

// getV2 / postV2 / putV2 / deleteV2 are the web API verbs.

func (c *Client) getV2(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, c.v2URL(path), nil, out, c.v2Headers())
}

func (c *Client) postV2(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, c.v2URL(path), body, out, c.v2Headers())
}

func (c *Client) putV2(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, c.v2URL(path), body, out, c.v2Headers())
}

func (c *Client) deleteV2(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, c.v2URL(path), nil, nil, c.v2Headers())
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Endpoint: shortEndpoint(endpoint), Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Endpoint: shortEndpoint(endpoint), Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Endpoint:   shortEndpoint(endpoint),
			Message:    apiMessage(raw),
		}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{
			Endpoint: shortEndpoint(endpoint),
			Message:  fmt.Sprintf("failed to decode response: %v", err),
		}
	}
	return nil
}

// shortEndpoint strips scheme, host, and query for error messages.
func shortEndpoint(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	return strings.TrimPrefix(strings.TrimPrefix(parsed.Path, "/api/v2"), "/open/v1")
}

// apiMessage pulls a human-readable message out of an error response body.
func apiMessage(raw []byte) string {
	var payload struct {
		ErrorMessage string `json:"errorMessage"`
		ErrorCode    string `json:"errorCode"`
		Message      string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.ErrorMessage != "":
			return payload.ErrorMessage
		case payload.ErrorCode != "":
			return payload.ErrorCode
		case payload.Message != "":
			return payload.Message
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	if msg == "" {
		msg = "request failed"
	}
	return msg
}
