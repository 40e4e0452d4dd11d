// Package arr implements the REST client shared by the Sonarr and Radarr
// providers. Both services expose the same API shape under an "api/" root
// authenticated with an X-Api-Key header.
package arr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/scenename/internal/provider"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

const (
	DefaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	APIVersion string
	HTTPClient *http.Client
	Logger     *zap.Logger

	// Attempts and RetryDelay control retries of transient failures.
	Attempts   uint
	RetryDelay time.Duration
}

// Client issues authenticated GET requests against an API root.
type Client struct {
	name       string
	apiRoot    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	attempts   uint
	delay      time.Duration
}

// New creates a client for the named backend.
func New(name string, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("%s: base_url is required", name)
	}

	root, err := url.Parse(APIRoot(opts.BaseURL, opts.APIVersion))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base_url %q: %w", name, opts.BaseURL, err)
	}
	if root.Scheme != "http" && root.Scheme != "https" {
		return nil, fmt.Errorf("%s: base_url %q must use http or https", name, opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = defaultAttempts
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = defaultDelay
	}

	return &Client{
		name:       name,
		apiRoot:    root,
		apiKey:     opts.APIKey,
		httpClient: httpClient,
		logger:     logger,
		attempts:   attempts,
		delay:      delay,
	}, nil
}

// APIRoot normalizes a base URL into the API root. A trailing slash is
// added, and "api/" is appended unless the last path element already is
// "api". A non-empty version adds one more path element unless the base
// URL already ends in "api/<version>".
func APIRoot(baseURL, version string) string {
	root := strings.TrimSpace(baseURL)
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	version = strings.Trim(strings.TrimSpace(version), "/")
	if version != "" && strings.HasSuffix(root, "/api/"+version+"/") {
		return root
	}
	if !strings.HasSuffix(root, "/api/") {
		root += "api/"
	}
	if version != "" {
		root += version + "/"
	}
	return root
}

// APIRoot returns the normalized API root of the client.
func (c *Client) APIRoot() string {
	return c.apiRoot.String()
}

// Name returns the backend name used in errors.
func (c *Client) Name() string {
	return c.name
}

// BuildParams converts snake_case keys to camelCase and stringifies values.
// Values are escaped once when the query is encoded.
func BuildParams(params map[string]any) url.Values {
	values := url.Values{}
	for key, value := range params {
		values.Set(camelCase(key), stringify(value))
	}
	return values
}

func camelCase(key string) string {
	parts := strings.Split(key, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(strings.ToLower(part[1:]))
	}
	return b.String()
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Get fetches endpoint relative to the API root and decodes the JSON body
// into out. An empty or null body leaves out untouched.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]any, out any) error {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeInvalidRequest,
			Message:  fmt.Sprintf("invalid endpoint %q: %v", endpoint, err),
		}
	}
	target := c.apiRoot.ResolveReference(ref)
	if len(params) > 0 {
		target.RawQuery = BuildParams(params).Encode()
	}

	return retry.Do(
		func() error {
			return c.do(ctx, target.String(), out)
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("Retrying request",
				zap.String("backend", c.name),
				zap.String("endpoint", endpoint),
				zap.Uint("attempt", n+1),
				zap.Error(err))
		}),
	)
}

func (c *Client) do(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeUnavailable,
			Message:  fmt.Sprintf("%s request failed: %v", c.name, err),
			Retry:    true,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeUnavailable,
			Message:  fmt.Sprintf("%s response read failed: %v", c.name, err),
			Retry:    true,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.mapStatus(resp, body)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeUnknown,
			Message:  fmt.Sprintf("%s returned invalid JSON: %v", c.name, err),
		}
	}
	return nil
}

func (c *Client) mapStatus(resp *http.Response, body []byte) error {
	msg := fmt.Sprintf("%s returned %s", c.name, resp.Status)
	if detail := errorDetail(body); detail != "" {
		msg += ": " + detail
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeAuthFailed,
			Message:  msg,
		}
	case resp.StatusCode == http.StatusNotFound:
		return &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeNotFound,
			Message:  msg,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &provider.ProviderError{
			Provider:   c.name,
			Code:       provider.CodeRateLimited,
			Message:    msg,
			Retry:      true,
			RetryAfter: retryAfter,
		}
	case resp.StatusCode >= 500:
		return &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeUnavailable,
			Message:  msg,
			Retry:    true,
		}
	case resp.StatusCode == http.StatusBadRequest:
		return &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeInvalidRequest,
			Message:  msg,
		}
	default:
		return &provider.ProviderError{
			Provider: c.name,
			Code:     provider.CodeUnknown,
			Message:  msg,
		}
	}
}

// errorDetail pulls a message out of the JSON error bodies the services return.
func errorDetail(body []byte) string {
	var single struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &single); err == nil {
		if single.Message != "" {
			return single.Message
		}
		if single.Error != "" {
			return single.Error
		}
	}

	var validation []struct {
		PropertyName string `json:"propertyName"`
		ErrorMessage string `json:"errorMessage"`
	}
	if err := json.Unmarshal(body, &validation); err == nil && len(validation) > 0 {
		msgs := make([]string, 0, len(validation))
		for _, v := range validation {
			msgs = append(msgs, strings.TrimSpace(v.PropertyName+" "+v.ErrorMessage))
		}
		sort.Strings(msgs)
		return strings.Join(msgs, "; ")
	}
	return ""
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var provErr *provider.ProviderError
	if errors.As(err, &provErr) {
		return provErr.Retry
	}
	return false
}
