package ncstream

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-ncstream/internal/ncproto"
	"github.com/robert-malhotra/go-ncstream/internal/wire"
)

// Dataset is the root group of a remote dataset, plus the transport
// handle and the header it was built from. It is constructed by one
// header fetch followed by a recursive population pass and is
// immutable afterwards; structural metadata may be read concurrently.
type Dataset struct {
	*Group
	client *Client
	header *ncproto.Header
	closed bool
}

// Open fetches the dataset's header from the endpoint and builds the
// group tree. A decode failure anywhere aborts construction; no
// partially built dataset is returned.
func Open(ctx context.Context, endpoint string, opts ...Option) (*Dataset, error) {
	return OpenWith(ctx, NewClient(endpoint, opts...))
}

// OpenWith builds a dataset over an existing client.
func OpenWith(ctx context.Context, c *Client) (*Dataset, error) {
	msgs, err := c.fetchHeader(ctx)
	if err != nil {
		return nil, err
	}

	var headers []*ncproto.Header
	for _, m := range msgs {
		if m.Kind == wire.KindHeader {
			headers = append(headers, m.Header)
		}
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("ncstream: no header message in response from %s", c.Endpoint())
	}
	if len(headers) > 1 {
		c.log.Warnf("ncstream: %d header messages in response, using first", len(headers))
	}
	hdr := headers[0]
	if hdr.Root == nil {
		return nil, fmt.Errorf("ncstream: header from %s has no root group", c.Endpoint())
	}

	ds := &Dataset{client: c, header: hdr}
	root := newGroup("", nil, ds)
	ds.Group = root
	if err := root.populate(hdr.Root); err != nil {
		return nil, fmt.Errorf("populating dataset: %w", err)
	}
	return ds, nil
}

// Close releases the dataset's transport resources. The dataset is
// unusable for further data fetches afterwards.
func (d *Dataset) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.client.httpc.CloseIdleConnections()
	return nil
}

// Location returns the dataset location reported by the server.
func (d *Dataset) Location() string { return d.header.Location }

// Title returns the dataset title, if the server reported one.
func (d *Dataset) Title() string { return d.header.Title }

// ID returns the dataset identifier, if the server reported one.
func (d *Dataset) ID() string { return d.header.ID }

// Version returns the protocol version from the header.
func (d *Dataset) Version() int { return int(d.header.Version) }

// Client returns the underlying transport client.
func (d *Dataset) Client() *Client { return d.client }

// CDL fetches the dataset's CDL text rendering.
func (d *Dataset) CDL(ctx context.Context) (string, error) {
	if d.closed {
		return "", ErrClosed
	}
	return d.client.CDL(ctx)
}

// NcML fetches the dataset's NcML text rendering.
func (d *Dataset) NcML(ctx context.Context) (string, error) {
	if d.closed {
		return "", ErrClosed
	}
	return d.client.NcML(ctx)
}

// Capabilities fetches the endpoint's capabilities document.
func (d *Dataset) Capabilities(ctx context.Context) (string, error) {
	if d.closed {
		return "", ErrClosed
	}
	return d.client.Capabilities(ctx)
}

// logger returns the dataset's logger, falling back to the standard
// logger for groups detached from a dataset (tests).
func (g *Group) logger() logrus.FieldLogger {
	if g.dataset != nil && g.dataset.client != nil {
		return g.dataset.client.log
	}
	return logrus.StandardLogger()
}
