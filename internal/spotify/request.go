package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotx/internal/shared"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Request flags interpreted by [Client.Do].
const (
	// FlagSilent suppresses the debug dump of the outgoing request.
	// Attached by default unless the spec already carries a verbosity flag.
	FlagSilent = "silent"
	// FlagVerbose opts a request into the curl-style debug dump.
	FlagVerbose = "verbose"
)

// Param is a single query parameter. Parameters are kept as an ordered slice
// rather than url.Values: appending preserves order and permits duplicates,
// matching how extra parameters are layered onto URLs that already carry a
// query string.
type Param struct {
	Key   string
	Value string
}

// RequestSpec is the logical description of an API request, built by callers
// and resolved into a concrete transport call by the client.
type RequestSpec struct {
	Endpoint string      // relative resource path resolved against the API base URL
	URL      string      // absolute URL used as-is; takes precedence over Endpoint
	Params   []Param     // appended to any query string already in the URL
	Method   string      // defaults to GET
	Body     string      // form-encoded payload for POST requests
	Header   http.Header // extra headers; a caller-supplied Authorization skips the token manager
	NoAuth   bool        // true for requests to unauthenticated endpoints
	Flags    []string
}

// concreteCall is a fully resolved transport invocation.
type concreteCall struct {
	Method string
	URL    string
	Header http.Header
	Body   string
	Flags  []string
}

// Client resolves [RequestSpec] values into transport calls, injecting bearer
// tokens from its [TokenManager].
type Client struct {
	baseURL   string
	transport Transport
	tokens    *TokenManager
	logger    *log.Logger
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	BaseURL   string // defaults to the Spotify Web API base URL
	Transport Transport
	Tokens    *TokenManager
	Logger    *log.Logger
}

// NewClient creates a Client with the provided options.
func NewClient(opts ClientOpts) (*Client, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("%w: transport is required", shared.ErrInvalidArgument)
	}
	if opts.Tokens == nil {
		return nil, fmt.Errorf("%w: token manager is required", shared.ErrInvalidArgument)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:   strings.TrimSuffix(opts.BaseURL, "/"),
		transport: opts.Transport,
		tokens:    opts.Tokens,
		logger:    opts.Logger,
	}, nil
}

// Do resolves the spec, executes it and returns the raw response body along
// with the (possibly renewed) credential for the caller to retain.
func (c *Client) Do(ctx context.Context, spec RequestSpec, cred Credential) (string, Credential, error) {
	call, cred, err := c.build(ctx, spec, cred)
	if err != nil {
		return "", cred, err
	}

	if !hasFlag(call.Flags, FlagSilent) {
		c.logger.Debug("executing request", "curl", shared.RenderCurl(call.Method, call.URL, call.Header, call.Body))
	}

	body, err := c.transport.Execute(ctx, call.Method, call.URL, call.Header, call.Body)
	if err != nil {
		return "", cred, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return body, cred, nil
}

// Authenticate ensures the credential is usable, renewing it via the token
// endpoint when absent or expired. No resource request is issued.
func (c *Client) Authenticate(ctx context.Context, cred Credential) (Credential, error) {
	valid, _, err := c.tokens.EnsureValid(ctx, cred)
	if err != nil {
		return cred, err
	}
	return valid, nil
}

// build composes the concrete call for a spec: URL resolution, query
// parameter appending, default method and flags, and bearer auth.
func (c *Client) build(ctx context.Context, spec RequestSpec, cred Credential) (concreteCall, Credential, error) {
	target := spec.URL
	if target == "" {
		target = c.baseURL + "/" + strings.TrimPrefix(spec.Endpoint, "/")
	}
	target = appendParams(target, spec.Params)

	method := spec.Method
	if method == "" {
		method = http.MethodGet
	}

	header := http.Header{}
	for name, values := range spec.Header {
		for _, value := range values {
			header.Add(name, value)
		}
	}

	if !spec.NoAuth && header.Get("Authorization") == "" {
		valid, _, err := c.tokens.EnsureValid(ctx, cred)
		if err != nil {
			return concreteCall{}, cred, err
		}
		cred = valid
		header.Set("Authorization", "Bearer "+cred.AccessToken)
	}

	if method == http.MethodPost && spec.Body != "" && header.Get("Content-Type") == "" {
		header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	flags := append([]string(nil), spec.Flags...)
	if !hasFlag(flags, FlagSilent) && !hasFlag(flags, FlagVerbose) {
		flags = append(flags, FlagSilent)
	}

	return concreteCall{
		Method: method,
		URL:    target,
		Header: header,
		Body:   spec.Body,
		Flags:  flags,
	}, cred, nil
}

// appendParams appends query parameters to a URL, preserving any existing
// query string. Parameters are never deduplicated: a key present in both the
// URL and params appears twice.
func appendParams(target string, params []Param) string {
	if len(params) == 0 {
		return target
	}

	var b strings.Builder
	b.WriteString(target)

	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}

	for _, p := range params {
		b.WriteString(sep)
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteString("=")
		b.WriteString(url.QueryEscape(p.Value))
		sep = "&"
	}

	return b.String()
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}
	return false
}
