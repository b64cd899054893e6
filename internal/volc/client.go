package volc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/volc-mcp/internal/common"
)

// maxResponseSize caps the upstream response body.
const maxResponseSize = 10 << 20 // 10MB

// DefaultHost serves most Volcengine OpenAPI services.
const DefaultHost = "open.volcengineapi.com"

// Endpoint describes where a service lives and how requests to it are scoped.
type Endpoint struct {
	Service string
	Version string
	Host    string
	Region  string
	Scheme  string // defaults to https
}

func (e Endpoint) baseURL() string {
	scheme := e.Scheme
	if scheme == "" {
		scheme = "https"
	}
	host := e.Host
	if host == "" {
		host = DefaultHost
	}
	if strings.Contains(host, "://") {
		return strings.TrimRight(host, "/")
	}
	return scheme + "://" + strings.TrimRight(host, "/")
}

// Call is one outbound API request. Action and Version become query
// parameters when set; path-routed APIs leave Action empty.
type Call struct {
	Action  string
	Version string
	Method  string
	Path    string
	Query   map[string]any
	Body    map[string]any
	Form    bool // send Body form-encoded instead of JSON
}

// Name identifies the call in errors and logs.
func (c Call) Name() string {
	if c.Action != "" {
		return c.Action
	}
	return c.Method + " " + c.Path
}

// ResponseMetadata is the Volcengine response envelope header.
type ResponseMetadata struct {
	RequestID string `json:"RequestId"`
	Action    string `json:"Action"`
	Version   string `json:"Version"`
	Service   string `json:"Service"`
	Region    string `json:"Region"`
	Error     *struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Error,omitempty"`
}

// Response is a decoded upstream response. Result is nil when the upstream
// sent no result object.
type Response struct {
	StatusCode int
	Metadata   ResponseMetadata
	Result     map[string]any
}

// Options configure a Client.
type Options struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	RateLimit      float64 // requests per second, 0 disables
	HTTPClient     *http.Client
	Logger         *common.Logger
}

// Client sends authorized requests to one service endpoint. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	endpoint   Endpoint
	auth       Authorizer
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *common.Logger
}

// NewClient creates a client for ep using auth on every request.
func NewClient(ep Endpoint, auth Authorizer, opts Options) *Client {
	connect := opts.ConnectTimeout
	if connect <= 0 {
		connect = 5 * time.Second
	}
	read := opts.ReadTimeout
	if read <= 0 {
		read = 30 * time.Second
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: connect + read,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: connect, KeepAlive: 30 * time.Second}).DialContext,
				TLSHandshakeTimeout:   connect,
				ResponseHeaderTimeout: read,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
			},
		}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), int(math.Max(1, math.Ceil(opts.RateLimit))))
	}

	logger := opts.Logger
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	return &Client{
		endpoint:   ep,
		auth:       auth,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

// Endpoint returns the endpoint the client is bound to.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Do sends exactly one request. Transport failures, non-2xx responses, API
// errors, and empty or malformed bodies all return an *ExecutionError naming
// the action. There are no retries.
func (c *Client) Do(ctx context.Context, call Call) (*Response, error) {
	name := call.Name()
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	if call.Version == "" && call.Action != "" {
		call.Version = c.endpoint.Version
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, executionError(name, "rate limit wait aborted", err)
		}
	}

	req, payload, err := c.buildRequest(ctx, method, call)
	if err != nil {
		return nil, executionError(name, "failed to build request", err)
	}
	if err := c.auth.Authorize(req, payload); err != nil {
		return nil, executionError(name, "failed to authorize request", err)
	}

	c.logger.Debug().
		Str("service", c.endpoint.Service).
		Str("action", name).
		Str("method", method).
		Str("request_id", req.Header.Get("X-Request-Id")).
		Msg("upstream request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		observeUpstream(c.endpoint.Service, name, "transport_error", duration)
		c.logger.Error().
			Str("service", c.endpoint.Service).
			Str("action", name).
			Int64("duration_ms", duration.Milliseconds()).
			Str("error", err.Error()).
			Msg("upstream request failed")
		return nil, executionError(name, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		observeUpstream(c.endpoint.Service, name, "read_error", duration)
		return nil, executionError(name, "failed to read response", err)
	}
	if len(body) > maxResponseSize {
		observeUpstream(c.endpoint.Service, name, "too_large", duration)
		return nil, executionError(name, "response exceeds 10MB", ErrResponseTooLarge)
	}

	c.logger.Debug().
		Str("service", c.endpoint.Service).
		Str("action", name).
		Int("status", resp.StatusCode).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("upstream response")

	out, err := decodeResponse(resp.StatusCode, body)
	if err != nil {
		observeUpstream(c.endpoint.Service, name, "error", duration)
		return nil, executionError(name, "upstream returned an error", err)
	}
	observeUpstream(c.endpoint.Service, name, "ok", duration)
	return out, nil
}

// buildRequest returns the request and the exact payload bytes it carries.
func (c *Client) buildRequest(ctx context.Context, method string, call Call) (*http.Request, []byte, error) {
	path := call.Path
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	query := NormalizeQuery(call.Query)
	if call.Action != "" {
		query.Set("Action", call.Action)
		query.Set("Version", call.Version)
	}

	u := c.endpoint.baseURL() + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload []byte
	contentType := "application/json"
	if len(call.Body) > 0 {
		if call.Form {
			payload = []byte(NormalizeQuery(call.Body).Encode())
			contentType = "application/x-www-form-urlencoded"
		} else {
			var err error
			payload, err = json.Marshal(call.Body)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
			}
		}
	} else if method != http.MethodGet && method != http.MethodDelete {
		payload = []byte("{}")
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", common.UserAgent())
	req.Header.Set("X-Request-Id", uuid.New().String())
	return req, payload, nil
}

// decodeResponse accepts both the OpenAPI envelope
// ({"ResponseMetadata": ..., "Result": ...}) and the data-plane shape
// ({"code": 0, "message": ..., "data": ...}).
func decodeResponse(status int, body []byte) (*Response, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		if status >= 400 {
			return nil, &APIError{StatusCode: status, Code: http.StatusText(status)}
		}
		return nil, ErrEmptyResponse
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		if status >= 400 {
			return nil, &APIError{StatusCode: status, Code: http.StatusText(status), Message: truncate(string(body), 256)}
		}
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	// null and {} carry nothing.
	if len(raw) == 0 {
		if status >= 400 {
			return nil, &APIError{StatusCode: status, Code: http.StatusText(status)}
		}
		return nil, ErrEmptyResponse
	}

	out := &Response{StatusCode: status}

	if meta, ok := raw["ResponseMetadata"]; ok {
		if err := json.Unmarshal(meta, &out.Metadata); err != nil {
			return nil, fmt.Errorf("malformed ResponseMetadata: %w", err)
		}
		if out.Metadata.Error != nil && out.Metadata.Error.Code != "" {
			return nil, &APIError{
				StatusCode: status,
				Code:       out.Metadata.Error.Code,
				Message:    out.Metadata.Error.Message,
				RequestID:  out.Metadata.RequestID,
			}
		}
		if status >= 400 {
			return nil, &APIError{StatusCode: status, Code: http.StatusText(status), RequestID: out.Metadata.RequestID}
		}
		result, err := decodeObject(raw["Result"])
		if err != nil {
			return nil, fmt.Errorf("malformed Result: %w", err)
		}
		out.Result = result
		return out, nil
	}

	if codeRaw, ok := raw["code"]; ok {
		var code json.Number
		_ = json.Unmarshal(codeRaw, &code)
		var message, requestID string
		_ = json.Unmarshal(raw["message"], &message)
		_ = json.Unmarshal(raw["request_id"], &requestID)
		out.Metadata.RequestID = requestID
		if code.String() != "0" || status >= 400 {
			return nil, &APIError{StatusCode: status, Code: code.String(), Message: message, RequestID: requestID}
		}
		result, err := decodeObject(raw["data"])
		if err != nil {
			return nil, fmt.Errorf("malformed data: %w", err)
		}
		out.Result = result
		return out, nil
	}

	if status >= 400 {
		return nil, &APIError{StatusCode: status, Code: http.StatusText(status), Message: truncate(string(body), 256)}
	}

	result := make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return nil, fmt.Errorf("malformed response: %w", err)
		}
		result[k] = val
	}
	out.Result = result
	return out, nil
}

// decodeObject returns nil for a missing or null field.
func decodeObject(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err == nil {
		return obj, nil
	}
	// Some actions return a bare list or scalar.
	var val any
	if err := json.Unmarshal(trimmed, &val); err != nil {
		return nil, err
	}
	return map[string]any{"Items": val}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
