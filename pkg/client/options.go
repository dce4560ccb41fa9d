package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/invoiced/invoiced-go/pkg/api"
)

// API endpoints
const (
	ProductionEndpoint = "https://api.invoiced.com"
	SandboxEndpoint    = "https://api.sandbox.invoiced.com"
)

// Options configures the client behavior.
type Options struct {
	sandbox   bool
	endpoint  string
	ssoKey    string
	transport api.HttpRequestDoer
	// transportSet distinguishes an explicit nil transport from the default.
	transportSet bool
	timeout   time.Duration
	logger    hclog.Logger
}

func defaultOptions() *Options {
	return &Options{
		timeout: 30 * time.Second,
	}
}

// Option configures the client.
type Option func(*Options)

// WithSandbox selects the sandbox environment instead of production.
func WithSandbox(sandbox bool) Option {
	return func(o *Options) {
		o.sandbox = sandbox
	}
}

// WithEndpoint overrides the API endpoint derived from the sandbox flag.
// Intended for proxies and local test servers.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		o.endpoint = endpoint
	}
}

// WithSSOKey sets the signing key used by GenerateSignInToken.
func WithSSOKey(key string) Option {
	return func(o *Options) {
		o.ssoKey = key
	}
}

// WithTransport replaces the default HTTP client. The transport is used
// as-is; WithTimeout has no effect on it. A nil transport makes New fail.
func WithTransport(doer api.HttpRequestDoer) Option {
	return func(o *Options) {
		o.transport = doer
		o.transportSet = true
	}
}

// WithHTTPClient is WithTransport for a *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.transportSet = true
		if c == nil {
			o.transport = nil
			return
		}
		o.transport = c
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// Default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.timeout = d
	}
}

// WithLogger sets the logger used for request tracing. By default nothing
// is logged.
func WithLogger(logger hclog.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}

// requestOptions holds per-call settings.
type requestOptions struct {
	idempotencyKey string
	headers        http.Header
}

// RequestOption configures a single Request call.
type RequestOption func(*requestOptions)

// WithIdempotencyKey attaches an Idempotency-Key header so the API can
// deduplicate retried state-changing requests. Ignored on GET and HEAD.
func WithIdempotencyKey(key string) RequestOption {
	return func(o *requestOptions) {
		o.idempotencyKey = key
	}
}

// WithHeader sets an extra header on a single request, replacing any
// earlier value for the same name. Headers the client manages itself
// (Authorization, Accept, User-Agent, Content-Type and Idempotency-Key) are
// rejected by Request.
func WithHeader(name, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers.Set(name, value)
	}
}

// managedHeaders are set by the client and cannot be supplied per request.
var managedHeaders = []string{"Authorization", "Accept", "User-Agent", "Content-Type", "Idempotency-Key"}

func (o *requestOptions) validate() error {
	for _, name := range managedHeaders {
		if _, ok := o.headers[name]; ok {
			return newInvalidArgument("headers", fmt.Sprintf("%s is managed by the client", name))
		}
	}
	return nil
}
