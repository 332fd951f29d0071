package wire

import (
	"github.com/robert-malhotra/go-ncstream/internal/ncproto"
)

// Magic delimiters, compared byte for byte.
var (
	MagicHeader = [4]byte{0xad, 0xec, 0xce, 0xda}
	MagicData   = [4]byte{0xab, 0xec, 0xce, 0xba}
	MagicVData  = [4]byte{0xab, 0xef, 0xfe, 0xba}
	MagicVEnd   = [4]byte{0xed, 0xef, 0xfe, 0xda}
	MagicError  = [4]byte{0xab, 0xad, 0xba, 0xda}
)

// Kind discriminates decoded protocol units.
type Kind int

const (
	KindHeader Kind = iota + 1
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// Message is one decoded protocol unit. Exactly one payload field is
// set for KindData: Values for fixed-width arrays, Blocks for
// string/opaque/vlen element lists, Records for structure and sequence
// runs.
type Message struct {
	Kind Kind

	Header *ncproto.Header

	Data    *ncproto.Data
	Values  interface{}
	Blocks  [][]byte
	Records []*ncproto.StructureData
}

// ServerError carries the text of an Error-magic message verbatim.
// It always aborts the whole read; no partial results are returned.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return "ncstream: server error: " + e.Message
}
