package ncstream

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for all requests. Timeouts
// and retry policy belong to this client, not to the protocol layer.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpc = h
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for protocol warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
