package transport

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"ojadmin/pkg/utils/contextkey"
	"ojadmin/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-Id"
	contentTypeJSON = "application/json"
)

// Response is the envelope every successful call returns.
type Response struct {
	Data     []byte
	Status   int
	Header   http.Header
	Duration time.Duration
}

// Decode unmarshals the response body into v. An empty body leaves v untouched.
func (r Response) Decode(v interface{}) error {
	if len(bytes.TrimSpace(r.Data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode response body failed: %w", err)
	}
	return nil
}

// RequestInterceptor runs on every outgoing request before it is sent.
type RequestInterceptor func(ctx context.Context, req *http.Request) error

// ResponseInterceptor runs on every result, successful or not, in
// registration order. It may replace the result.
type ResponseInterceptor func(ctx context.Context, req *http.Request, resp Response, err error) (Response, error)

// Client is the single configured entry point to the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	onRequest  []RequestInterceptor
	onResponse []ResponseInterceptor
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout >= 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHeader adds a default header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithRequestInterceptor appends an outbound hook.
func WithRequestInterceptor(fn RequestInterceptor) Option {
	return func(c *Client) {
		c.onRequest = append(c.onRequest, fn)
	}
}

// WithResponseInterceptor appends an inbound hook.
func WithResponseInterceptor(fn ResponseInterceptor) Option {
	return func(c *Client) {
		c.onResponse = append(c.onResponse, fn)
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if _, err := parseBase(baseURL); err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar failed: %w", err)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Jar: jar},
		headers:    http.Header{},
	}
	c.headers.Set("Content-Type", contentTypeJSON)
	c.headers.Set("Accept", contentTypeJSON)
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient.Jar == nil {
		c.httpClient.Jar = jar
	}
	return c, nil
}

func parseBase(baseURL string) (*url.URL, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}
	return u, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) SetBaseURL(baseURL string) error {
	if _, err := parseBase(baseURL); err != nil {
		return err
	}
	c.baseURL = strings.TrimRight(baseURL, "/")
	return nil
}

func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout >= 0 {
		c.httpClient.Timeout = timeout
	}
}

func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// SetCookie stores cookie in the jar for the backend origin. Cookies with
// MaxAge < 0 remove a stored cookie of the same name.
func (c *Client) SetCookie(cookie *http.Cookie) {
	u, err := parseBase(c.baseURL)
	if err != nil || c.httpClient.Jar == nil {
		return
	}
	c.httpClient.Jar.SetCookies(u, []*http.Cookie{cookie})
}

// Cookies returns the cookies that would accompany a request to the backend.
func (c *Client) Cookies() []*http.Cookie {
	u, err := parseBase(c.baseURL)
	if err != nil || c.httpClient.Jar == nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) (Response, error) {
	return c.do(ctx, http.MethodGet, path, params, nil, "")
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) (Response, error) {
	return c.doJSON(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) (Response, error) {
	return c.doJSON(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "")
}

// PostMultipart sends form as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, path string, form *MultipartForm) (Response, error) {
	if form == nil {
		form = NewMultipartForm()
	}
	body, contentType, err := form.encode()
	if err != nil {
		return Response{}, &Error{Method: http.MethodPost, Path: path, Err: err}
	}
	return c.do(ctx, http.MethodPost, path, nil, body, contentType)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}) (Response, error) {
	var payload []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		payload = v
	case json.RawMessage:
		payload = v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return Response{}, &Error{Method: method, Path: path, Err: fmt.Errorf("marshal request body failed: %w", err)}
		}
		payload = data
	}
	return c.do(ctx, method, path, nil, payload, contentTypeJSON)
}

func (c *Client) resolve(path string, params url.Values) string {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	return target
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte, contentType string) (Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, params), reader)
	if err != nil {
		return c.finish(ctx, req, Response{}, &Error{Method: method, Path: path, Err: fmt.Errorf("build request failed: %w", err)})
	}
	for k, values := range c.headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, fn := range c.onRequest {
		if err := fn(ctx, req); err != nil {
			return c.finish(ctx, req, Response{}, &Error{Method: method, Path: path, Err: err})
		}
	}
	if id := req.Header.Get(HeaderRequestID); id != "" {
		ctx = context.WithValue(ctx, contextkey.RequestID, id)
	}
	failure := func(status int, data []byte, err error) *Error {
		return &Error{
			Method:        method,
			Path:          path,
			Status:        status,
			Body:          data,
			Err:           err,
			Authenticated: req.Header.Get("Authorization") != "",
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	info := Response{Duration: time.Since(start)}
	if err != nil {
		return c.finish(ctx, req, info, failure(0, nil, err))
	}
	defer func() { _ = resp.Body.Close() }()

	info.Status = resp.StatusCode
	info.Header = resp.Header
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.finish(ctx, req, info, failure(0, nil, fmt.Errorf("read response body failed: %w", err)))
	}
	info.Data = data

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.finish(ctx, req, info, failure(resp.StatusCode, data, nil))
	}
	return c.finish(ctx, req, info, nil)
}

func (c *Client) finish(ctx context.Context, req *http.Request, resp Response, err error) (Response, error) {
	fields := []zap.Field{
		zap.Int("status", resp.Status),
		zap.Duration("duration", resp.Duration),
	}
	if req != nil {
		fields = append(fields,
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
		)
	}
	if err != nil {
		logger.Debug(ctx, "backend call failed", append(fields, zap.Error(err))...)
	} else {
		logger.Debug(ctx, "backend call", fields...)
	}

	for _, fn := range c.onResponse {
		resp, err = fn(ctx, req, resp, err)
	}
	return resp, err
}

func asError(err error, target **Error) bool {
	return stderrors.As(err, target)
}
