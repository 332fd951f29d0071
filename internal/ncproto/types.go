package ncproto

import "fmt"

// DataType is the element type of a variable or data payload. The
// numeric values are fixed by the NCStream schema and must not change.
type DataType int32

const (
	Char      DataType = 0
	Byte      DataType = 1
	Short     DataType = 2
	Int       DataType = 3
	Long      DataType = 4
	Float     DataType = 5
	Double    DataType = 6
	String    DataType = 7
	StructureType DataType = 8
	Sequence  DataType = 9
	Enum1     DataType = 10
	Enum2     DataType = 11
	Enum4     DataType = 12
	Opaque    DataType = 13
	UByte     DataType = 14
	UShort    DataType = 15
	UInt      DataType = 16
	ULong     DataType = 17
)

var dataTypeNames = map[DataType]string{
	Char:      "char",
	Byte:      "byte",
	Short:     "short",
	Int:       "int",
	Long:      "long",
	Float:     "float",
	Double:    "double",
	String:    "string",
	StructureType: "structure",
	Sequence:  "sequence",
	Enum1:     "enum1",
	Enum2:     "enum2",
	Enum4:     "enum4",
	Opaque:    "opaque",
	UByte:     "ubyte",
	UShort:    "ushort",
	UInt:      "uint",
	ULong:     "ulong",
}

func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int32(t))
}

// Width returns the fixed element width in bytes, or 0 for
// variable-length and composite types.
func (t DataType) Width() int {
	switch t {
	case Char, Byte, UByte, Enum1:
		return 1
	case Short, UShort, Enum2:
		return 2
	case Int, UInt, Enum4, Float:
		return 4
	case Long, ULong, Double:
		return 8
	default:
		return 0
	}
}

// Signed reports whether the type is a signed integer.
func (t DataType) Signed() bool {
	switch t {
	case Byte, Short, Int, Long:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the type is an IEEE754 floating-point type.
func (t DataType) IsFloat() bool {
	return t == Float || t == Double
}

// IsFixedWidth reports whether the type has a fixed per-element byte
// width and can be decoded by the typed payload decoder.
func (t DataType) IsFixedWidth() bool {
	return t.Width() != 0
}

// IsVariableLength reports whether elements arrive as individually
// length-prefixed blocks (strings and opaque blobs).
func (t DataType) IsVariableLength() bool {
	return t == String || t == Opaque
}

// IsComposite reports whether instances stream as a VData block run.
func (t DataType) IsComposite() bool {
	return t == StructureType || t == Sequence
}

// IsEnum reports whether values are codes into an enum typedef table.
func (t DataType) IsEnum() bool {
	return t == Enum1 || t == Enum2 || t == Enum4
}

// Compress identifies the payload compression scheme.
type Compress int32

const (
	CompressNone    Compress = 0
	CompressDeflate Compress = 1
)

func (c Compress) String() string {
	switch c {
	case CompressNone:
		return "none"
	case CompressDeflate:
		return "deflate"
	default:
		return fmt.Sprintf("Compress(%d)", int32(c))
	}
}

// AttrType is the value type of an attribute record. Attributes use a
// separate, smaller enum than DataType: zero means string values live
// in the Sdata field, non-zero selects a numeric element type for the
// packed Data field.
type AttrType int32

const (
	AttrString AttrType = 0
	AttrByte   AttrType = 1
	AttrShort  AttrType = 2
	AttrInt    AttrType = 3
	AttrLong   AttrType = 4
	AttrFloat  AttrType = 5
	AttrDouble AttrType = 6
)

// Width returns the element width in bytes for numeric attribute types.
func (t AttrType) Width() int {
	switch t {
	case AttrByte:
		return 1
	case AttrShort:
		return 2
	case AttrInt, AttrFloat:
		return 4
	case AttrLong, AttrDouble:
		return 8
	default:
		return 0
	}
}

// Header is the root of a dataset's structural metadata.
type Header struct {
	Location string
	Title    string
	ID       string
	Root     *Group
	Version  uint32
}

// Group is one namespace node of the header tree.
type Group struct {
	Name      string
	Dims      []*Dimension
	Vars      []*Variable
	Structs   []*Structure
	Atts      []*Attribute
	Groups    []*Group
	EnumTypes []*EnumTypedef
}

// Dimension describes one named axis.
type Dimension struct {
	Name        string
	Length      uint64
	IsUnlimited bool
	IsVlen      bool
	IsPrivate   bool
}

// Variable describes one array variable. Data, when non-nil, holds the
// variable's values inline (small coordinate variables are shipped with
// the header so no data round trip is needed).
type Variable struct {
	Name     string
	DataType DataType
	Shape    []*Dimension
	Atts     []*Attribute
	Unsigned bool
	Data     []byte
	EnumType string
}

// Structure describes a structure or sequence variable together with
// its member variables.
type Structure struct {
	Name     string
	DataType DataType
	Shape    []*Dimension
	Atts     []*Attribute
	Vars     []*Variable
	Structs  []*Structure
}

// EnumEntry is one code→symbol pair of an enum typedef.
type EnumEntry struct {
	Code  uint32
	Value string
}

// EnumTypedef is a named enumeration declared by a group.
type EnumTypedef struct {
	Name string
	Map  []EnumEntry
}

// Attribute is one name + typed value list record.
type Attribute struct {
	Name     string
	Type     AttrType
	Len      uint32
	Data     []byte
	Sdata    []string
	Unsigned bool
}

// Range is one per-dimension extent of a data section. Stride zero
// means unset (step 1).
type Range struct {
	Start  uint64
	Size   uint64
	Stride uint64
}

// Section is the shape descriptor of a data payload.
type Section struct {
	Ranges []*Range
}

// Sizes returns the per-dimension extents of the section.
func (s *Section) Sizes() []int {
	if s == nil {
		return nil
	}
	sizes := make([]int, len(s.Ranges))
	for i, r := range s.Ranges {
		sizes[i] = int(r.Size)
	}
	return sizes
}

// NumElements returns the total element count of the section. An empty
// section describes a scalar (one element).
func (s *Section) NumElements() int {
	n := 1
	for _, size := range s.Sizes() {
		n *= size
	}
	return n
}

// Data is the envelope preceding a data payload.
type Data struct {
	VarName          string
	DataType         DataType
	Section          *Section
	BigEnd           bool // wire default is true
	Version          uint32
	Compress         Compress
	VData            bool
	UncompressedSize uint32
}

// Error is a server-reported failure.
type Error struct {
	Message string
}

// StructureData is one record block of a structure or sequence run.
type StructureData struct {
	Members []uint32
	Data    []byte
	Shape   []uint32
	NRows   uint64
}
