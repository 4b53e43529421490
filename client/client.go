package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/contract-tests/items-contract-tests/framework"
	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries a unique ID for every request, so that a failure can be matched to the
// service's own logs.
const RequestIDHeader = "X-Request-ID"

const maxLoggedBodyLength = 1000

// Client sends requests to the items service. A Client is immutable once created; the With
// methods return modified copies, so a single Client can be shared by all tests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	header     http.Header
	paths      servicedef.Paths
	limiter    *rate.Limiter
	metrics    *Metrics
	logger     framework.Logger
	timeout    time.Duration
}

// Options are optional parameters for New. Zero values mean defaults.
type Options struct {
	HTTPClient     *http.Client
	Limiter        *rate.Limiter
	Metrics        *Metrics
	Logger         framework.Logger
	RequestTimeout time.Duration
	Paths          servicedef.Paths
}

// Request describes one HTTP request. If Form is set, the body is form-encoded; otherwise Body,
// if not nil, is sent as JSON (a []byte or json.RawMessage is sent as is). Route is the label
// used for metrics and defaults to Path.
type Request struct {
	Method string
	Path   string
	Route  string
	Query  url.Values
	Header http.Header
	Body   interface{}
	Form   url.Values
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// New creates a Client for the service at baseURL, which must be an absolute http or https URL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be an absolute http or https URL", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: opts.HTTPClient,
		header:     make(http.Header),
		paths:      opts.Paths,
		limiter:    opts.Limiter,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		timeout:    opts.RequestTimeout,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.paths == (servicedef.Paths{}) {
		c.paths = servicedef.DefaultPaths()
	}
	if c.logger == nil {
		c.logger = framework.NullLogger()
	}
	c.header.Set("Content-Type", "application/json")
	c.header.Set("Accept", "application/json")
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Paths() servicedef.Paths {
	return c.paths
}

// URL returns the absolute URL for a path on the service.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) != 0 {
		u += "?" + query.Encode()
	}
	return u
}

// WithLogger returns a copy of the Client that writes debug output to the specified logger.
func (c *Client) WithLogger(logger framework.Logger) *Client {
	c1 := *c
	c1.logger = logger
	if c1.logger == nil {
		c1.logger = framework.NullLogger()
	}
	return &c1
}

// WithHeader returns a copy of the Client that sends an additional default header.
func (c *Client) WithHeader(name, value string) *Client {
	c1 := *c
	c1.header = c.header.Clone()
	c1.header.Set(name, value)
	return &c1
}

// WithBearerToken returns a copy of the Client that authorizes every request with the specified
// token. The token is not checked in any way.
func (c *Client) WithBearerToken(token string) *Client {
	return c.withTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
}

func (c *Client) withTokenSource(source oauth2.TokenSource) *Client {
	hc := *c.httpClient
	hc.Transport = &oauth2.Transport{Base: c.baseTransport(), Source: source}
	c1 := *c
	c1.httpClient = &hc
	return &c1
}

func (c *Client) baseTransport() http.RoundTripper {
	if c.httpClient.Transport != nil {
		return c.httpClient.Transport
	}
	return http.DefaultTransport
}

// Do sends a request and reads the whole response. A non-nil error means that no HTTP response
// was received; any status code, including 4xx and 5xx, is a successful result.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	route := req.Route
	if route == "" {
		route = req.Path
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	var bodyForLog []byte
	contentType := ""
	switch {
	case req.Form != nil:
		bodyForLog = []byte(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		switch b := req.Body.(type) {
		case []byte:
			bodyForLog = b
		case json.RawMessage:
			bodyForLog = b
		default:
			data, err := json.Marshal(req.Body)
			if err != nil {
				return nil, fmt.Errorf("encoding request body: %w", err)
			}
			bodyForLog = data
		}
	}
	if bodyForLog != nil {
		body = bytes.NewReader(bodyForLog)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.URL(req.Path, req.Query), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for name, values := range c.header {
		httpReq.Header[name] = append([]string(nil), values...)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for name, values := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	if req.Form != nil {
		// form bodies may contain a password
		c.logger.Printf("%s %s [%s] (form data)", req.Method, httpReq.URL, requestID)
	} else {
		c.logger.Printf("%s %s [%s] %s", req.Method, httpReq.URL, requestID, truncate(bodyForLog))
	}

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.observe(route, req.Method, 0, time.Since(startTime))
		c.logger.Printf("request %s failed: %s", requestID, err)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer httpResp.Body.Close()
	respBody, err := io.ReadAll(httpResp.Body)
	c.metrics.observe(route, req.Method, httpResp.StatusCode, time.Since(startTime))
	if err != nil {
		return nil, fmt.Errorf("reading response to %s %s: %w", req.Method, req.Path, err)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: respBody}
	c.logger.Printf("response to %s: %s", requestID, resp)
	return resp, nil
}

// JSON decodes the response body into target.
func (r *Response) JSON(target interface{}) error {
	if len(r.Body) == 0 {
		return errors.New("response body is empty")
	}
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("response body is not valid JSON for %T: %w", target, err)
	}
	return nil
}

// Fields decodes the response body as a JSON object.
func (r *Response) Fields() (map[string]interface{}, error) {
	var fields map[string]interface{}
	if err := r.JSON(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("response body is not a JSON object")
	}
	return fields, nil
}

// HasField is true if the body is a JSON object with the specified property, even if its value is null.
func (r *Response) HasField(name string) bool {
	fields, err := r.Fields()
	if err != nil {
		return false
	}
	_, ok := fields[name]
	return ok
}

func (r *Response) String() string {
	return fmt.Sprintf("HTTP %d %s", r.StatusCode, truncate(r.Body))
}

func truncate(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > maxLoggedBodyLength {
		return s[:maxLoggedBodyLength] + "..."
	}
	return s
}
