package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/invoiced/invoiced-go/pkg/api"
)

// Params are the parameters of a single API call. They are sent in the query
// string for GET, HEAD, DELETE and OPTIONS and as a JSON body otherwise.
type Params map[string]any

// Client is an Invoiced API client.
//
// A Client is safe for concurrent use by multiple goroutines. Its
// configuration is fixed at construction.
type Client struct {
	raw      *api.Client
	apiKey   string
	endpoint string
	sandbox  bool
	ssoKey   string
	logger   hclog.Logger
	now      func() time.Time
}

// New creates a new Invoiced API client for apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, newInvalidArgument("apiKey", "API key cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.timeout <= 0 {
		return nil, newInvalidArgument("timeout", "must be positive")
	}

	endpoint := ProductionEndpoint
	if options.sandbox {
		endpoint = SandboxEndpoint
	}
	if options.endpoint != "" {
		u, err := url.Parse(options.endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, newInvalidArgument("endpoint", fmt.Sprintf("%q is not an absolute URL", options.endpoint))
		}
		endpoint = strings.TrimSuffix(options.endpoint, "/")
	}

	transport := options.transport
	if options.transportSet && isNilDoer(transport) {
		return nil, newInvalidArgument("transport", "must not be nil")
	}
	if transport == nil {
		transport = &http.Client{
			Timeout: options.timeout,
		}
	}

	logger := options.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	// Pre-allocate auth header to avoid allocation on every request
	authHeader := "Basic " + base64.StdEncoding.EncodeToString([]byte(apiKey+":"))
	raw, err := api.NewClient(endpoint,
		api.WithHTTPClient(transport),
		api.WithRequestEditorFn(func(_ context.Context, req *http.Request) error {
			req.Header.Set("Authorization", authHeader)
			req.Header.Set("Accept", "application/json")
			req.Header.Set("User-Agent", Issuer)
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Client{
		raw:      raw,
		apiKey:   apiKey,
		endpoint: endpoint,
		sandbox:  options.sandbox,
		ssoKey:   options.ssoKey,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// APIKey returns the API key the client authenticates with.
func (c *Client) APIKey() string {
	return c.apiKey
}

// Endpoint returns the base URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Sandbox reports whether the client was created for the sandbox environment.
func (c *Client) Sandbox() bool {
	return c.sandbox
}

// Request performs one API call and returns the decoded response.
//
// Failures are returned as *Error, classified by what went wrong: no
// response at all, an HTTP error status, or an unparsable successful body.
// Misuse, like an unknown method, is an *InvalidArgumentError. Requests are
// never retried.
func (c *Client) Request(ctx context.Context, method, path string, params Params, opts ...RequestOption) (*Response, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if !api.IsKnownMethod(method) {
		return nil, newInvalidArgument("method", fmt.Sprintf("unsupported HTTP method %q", method))
	}

	ro := &requestOptions{}
	for _, opt := range opts {
		opt(ro)
	}
	if err := ro.validate(); err != nil {
		return nil, err
	}

	log := c.logger.With("method", method, "path", path)
	log.Debug("sending request", "idempotency_key", ro.idempotencyKey != "")
	start := time.Now()

	resp, err := c.raw.Do(ctx, method, path, params, ro.editors(method)...)
	if err != nil {
		var buildErr *api.BuildError
		if errors.As(err, &buildErr) {
			return nil, newInvalidArgument("params", buildErr.Err.Error())
		}
		log.Debug("request failed", "error", err)
		return nil, newConnectionError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debug("reading response failed", "status", resp.StatusCode, "error", err)
		return nil, newConnectionError(err)
	}

	result, err := classify(method, resp.StatusCode, resp.Header, body, c.now())
	log.Debug("request completed", "status", resp.StatusCode, "duration", time.Since(start), "error", err)
	return result, err
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, params Params, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, params, opts...)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, params Params, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, params, opts...)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, params Params, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, params, opts...)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, params Params, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, params, opts...)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, params Params, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, params, opts...)
}

func (o *requestOptions) editors(method string) []api.RequestEditorFn {
	var editors []api.RequestEditorFn
	if len(o.headers) > 0 {
		headers := o.headers
		editors = append(editors, func(_ context.Context, req *http.Request) error {
			for name := range headers {
				req.Header.Set(name, headers.Get(name))
			}
			return nil
		})
	}
	if o.idempotencyKey != "" && method != http.MethodGet && method != http.MethodHead {
		key := o.idempotencyKey
		editors = append(editors, func(_ context.Context, req *http.Request) error {
			req.Header.Set("Idempotency-Key", key)
			return nil
		})
	}
	return editors
}

// isNilDoer reports whether doer is nil or a nil pointer in an interface.
func isNilDoer(doer api.HttpRequestDoer) bool {
	if doer == nil {
		return true
	}
	v := reflect.ValueOf(doer)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func newConnectionError(err error) *Error {
	return &Error{
		Kind:    KindConnection,
		Message: fmt.Sprintf("unable to communicate with the API: %v", err),
		Err:     err,
	}
}
