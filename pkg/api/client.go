// Package api provides the low-level HTTP layer for the Invoiced API:
// request construction, parameter encoding and the transport seam.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HttpRequestDoer performs HTTP requests.
//
// The standard http.Client implements this interface. Tests and alternate
// transports supply their own implementation.
type HttpRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestEditorFn is the function signature for the RequestEditor callback function
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// Client builds requests against a single server and hands them to a Doer.
type Client struct {
	// The endpoint of the server conforming to this interface, with scheme,
	// https://api.invoiced.com for example.
	Server string

	// Doer for performing requests, typically a *http.Client with any
	// customized settings, such as certificate chains.
	Client HttpRequestDoer

	// A list of callbacks for modifying requests which are generated before sending over
	// the network.
	RequestEditors []RequestEditorFn
}

// ClientOption allows setting custom parameters during construction
type ClientOption func(*Client) error

// NewClient creates a new Client, with reasonable defaults
func NewClient(server string, opts ...ClientOption) (*Client, error) {
	client := Client{
		Server: strings.TrimSuffix(server, "/"),
	}
	for _, o := range opts {
		if err := o(&client); err != nil {
			return nil, err
		}
	}
	if client.Server == "" {
		return nil, errors.New("server cannot be empty")
	}
	if client.Client == nil {
		client.Client = &http.Client{}
	}
	return &client, nil
}

// WithHTTPClient allows overriding the default Doer, which is
// automatically created using http.Client. This is useful for tests.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *Client) error {
		c.Client = doer
		return nil
	}
}

// WithRequestEditorFn allows setting up a callback function, which will be
// called right before sending the request. This can be used to mutate the request.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *Client) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

// BuildError reports that a request could not be constructed. Nothing was
// sent when Do returns one.
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return "build request: " + e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Do builds a request for method and path, applies the client and per-call
// editors and performs exactly one exchange through the Doer.
//
// Construction failures are returned as *BuildError; any other error comes
// from the Doer.
func (c *Client) Do(ctx context.Context, method, path string, params map[string]any, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := c.buildRequest(ctx, method, path, params, reqEditors)
	if err != nil {
		return nil, &BuildError{Err: err}
	}
	return c.Client.Do(req)
}

func (c *Client) buildRequest(ctx context.Context, method, path string, params map[string]any, reqEditors []RequestEditorFn) (*http.Request, error) {
	req, err := NewRequest(c.Server, method, path, params)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	if err := c.applyEditors(ctx, req, reqEditors); err != nil {
		return nil, err
	}
	return req, nil
}

func (c *Client) applyEditors(ctx context.Context, req *http.Request, additionalEditors []RequestEditorFn) error {
	for _, r := range c.RequestEditors {
		if err := r(ctx, req); err != nil {
			return err
		}
	}
	for _, r := range additionalEditors {
		if err := r(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// NewRequest generates a request for method and path against server.
//
// Query-carrying methods get params appended to the URL; body-carrying
// methods get params as a JSON document.
func NewRequest(server, method, path string, params map[string]any) (*http.Request, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if !IsKnownMethod(method) {
		return nil, fmt.Errorf("unsupported HTTP method %q", method)
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	target := strings.TrimSuffix(server, "/") + path

	var bodyReader io.Reader
	if IsQueryMethod(method) {
		query, err := EncodeQuery(params)
		if err != nil {
			return nil, err
		}
		if query != "" {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target += sep + query
		}
	} else {
		body, err := EncodeBody(params)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, target, bodyReader)
	if err != nil {
		return nil, err
	}
	if bodyReader != nil {
		req.Header.Add("Content-Type", "application/json")
	}
	return req, nil
}
