package ncstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-ncstream/internal/wire"
)

const defaultUserAgent = "go-ncstream"

// Client issues NCStream requests against one dataset endpoint URL.
// It owns no state beyond the endpoint, the HTTP client and a
// user-agent string; all configuration is injected at construction.
type Client struct {
	endpoint  string
	httpc     *http.Client
	userAgent string
	log       logrus.FieldLogger
}

// NewClient creates a client for a dataset endpoint URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		httpc:     http.DefaultClient,
		userAgent: defaultUserAgent,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the dataset endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// get performs one request and returns the response body. Any
// non-success outcome surfaces as a *RemoteAccessError.
func (c *Client) get(ctx context.Context, query url.Values) (io.ReadCloser, error) {
	u := c.endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &RemoteAccessError{URL: u, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &RemoteAccessError{URL: u, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &RemoteAccessError{URL: u, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

// fetchText performs one request kind that answers with plain text.
func (c *Client) fetchText(ctx context.Context, kind string) (string, error) {
	body, err := c.get(ctx, url.Values{"req": {kind}})
	if err != nil {
		return "", err
	}
	defer body.Close()
	text, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("reading %s response: %w", kind, err)
	}
	return string(text), nil
}

// Capabilities fetches the endpoint's capabilities document.
func (c *Client) Capabilities(ctx context.Context) (string, error) {
	return c.fetchText(ctx, "capabilities")
}

// CDL fetches the dataset's CDL text rendering.
func (c *Client) CDL(ctx context.Context) (string, error) {
	return c.fetchText(ctx, "CDL")
}

// NcML fetches the dataset's NcML text rendering.
func (c *Client) NcML(ctx context.Context) (string, error) {
	return c.fetchText(ctx, "NcML")
}

// fetchMessages performs one request and decodes the response stream.
func (c *Client) fetchMessages(ctx context.Context, query url.Values) ([]*wire.Message, error) {
	body, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return wire.NewDecoder(body, c.log).ReadMessages()
}

// fetchHeader fetches and decodes the dataset's header message stream.
func (c *Client) fetchHeader(ctx context.Context) ([]*wire.Message, error) {
	return c.fetchMessages(ctx, url.Values{"req": {"header"}})
}

// fetchData fetches data for the given variable selections, keyed by
// variable path. Each selection is already serialized in the compact
// range syntax; multiple variables join with commas.
func (c *Client) fetchData(ctx context.Context, vars map[string][]section) ([]*wire.Message, error) {
	paths := make([]string, 0, len(vars))
	for path := range vars {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	params := make([]string, len(paths))
	for i, path := range paths {
		params[i] = varParam(path, vars[path])
	}
	query := url.Values{
		"req": {"data"},
		"var": {strings.Join(params, ",")},
	}
	return c.fetchMessages(ctx, query)
}
