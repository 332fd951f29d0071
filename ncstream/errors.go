// Package ncstream provides a pure Go client for reading remote
// datasets over the NCStream protocol served by THREDDS Data Servers.
// It decodes the binary message stream into a navigable group,
// dimension and variable tree and supports numpy-style partial reads
// of variables without materializing the whole remote dataset.
package ncstream

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-ncstream/internal/dtype"
	"github.com/robert-malhotra/go-ncstream/internal/wire"
)

// Common errors. The stream- and payload-level sentinels are shared
// with the internal decoding layers so errors.Is works across the API
// boundary.
var (
	ErrTruncated              = wire.ErrTruncated
	ErrShapeMismatch          = dtype.ErrShapeMismatch
	ErrDecompression          = dtype.ErrDecompression
	ErrUnsupportedCompression = dtype.ErrUnsupportedCompression
	ErrUnsupportedType        = dtype.ErrUnsupportedType

	ErrIndex     = errors.New("ncstream: invalid index expression")
	ErrVlenSlice = errors.New("ncstream: cannot subset a vlen dimension")
	ErrNotFound  = errors.New("ncstream: object not found")
	ErrClosed    = errors.New("ncstream: dataset is closed")
)

// ServerError carries a server-reported failure verbatim.
type ServerError = wire.ServerError

// RemoteAccessError reports a transport-layer failure: a non-success
// HTTP status or a failed request.
type RemoteAccessError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *RemoteAccessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ncstream: request %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("ncstream: request %s: %s", e.URL, e.Status)
}

func (e *RemoteAccessError) Unwrap() error {
	return e.Err
}
