package ncstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithUserAgent("probe/1.0"))
	_, err := c.Capabilities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "probe/1.0", gotUA)
}

func TestClientDefaults(t *testing.T) {
	c := NewClient("http://example/thredds/ncstream/file.nc/")
	assert.Equal(t, "http://example/thredds/ncstream/file.nc", c.Endpoint())
	assert.Equal(t, defaultUserAgent, c.userAgent)
	assert.Same(t, http.DefaultClient, c.httpc)
}

func TestClientOptions(t *testing.T) {
	httpc := &http.Client{}
	logger, _ := test.NewNullLogger()
	c := NewClient("http://example/ds",
		WithHTTPClient(httpc),
		WithLogger(logger),
	)
	assert.Same(t, httpc, c.httpc)
	assert.Same(t, logger, c.log)

	// nil and empty option values keep the defaults.
	c = NewClient("http://example/ds",
		WithHTTPClient(nil),
		WithUserAgent(""),
		WithLogger(nil),
	)
	assert.Same(t, http.DefaultClient, c.httpc)
	assert.Equal(t, defaultUserAgent, c.userAgent)
}
