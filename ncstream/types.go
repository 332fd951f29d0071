package ncstream

import "github.com/robert-malhotra/go-ncstream/internal/ncproto"

// DataType identifies the element type of a variable or array. The
// numeric values match the protocol's type-code table.
type DataType = ncproto.DataType

// Element type codes.
const (
	TypeChar      = ncproto.Char
	TypeByte      = ncproto.Byte
	TypeShort     = ncproto.Short
	TypeInt       = ncproto.Int
	TypeLong      = ncproto.Long
	TypeFloat     = ncproto.Float
	TypeDouble    = ncproto.Double
	TypeString    = ncproto.String
	TypeStructure = ncproto.StructureType
	TypeSequence  = ncproto.Sequence
	TypeEnum1     = ncproto.Enum1
	TypeEnum2     = ncproto.Enum2
	TypeEnum4     = ncproto.Enum4
	TypeOpaque    = ncproto.Opaque
	TypeUByte     = ncproto.UByte
	TypeUShort    = ncproto.UShort
	TypeUInt      = ncproto.UInt
	TypeULong     = ncproto.ULong
)
