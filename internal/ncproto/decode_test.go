package ncproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func appendStringField(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendBytesField(b []byte, num protowire.Number, body []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, body)
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func TestUnmarshalDimension(t *testing.T) {
	b := appendStringField(nil, 1, "time")
	b = appendVarintField(b, 2, 4)
	b = appendVarintField(b, 3, 1)

	d, err := UnmarshalDimension(b)
	require.NoError(t, err)
	assert.Equal(t, "time", d.Name)
	assert.Equal(t, uint64(4), d.Length)
	assert.True(t, d.IsUnlimited)
	assert.False(t, d.IsVlen)
}

func TestUnmarshalVariable(t *testing.T) {
	dim := appendStringField(nil, 1, "lat")
	dim = appendVarintField(dim, 2, 181)

	b := appendStringField(nil, 1, "Temperature")
	b = appendVarintField(b, 2, uint64(Float))
	b = appendBytesField(b, 3, dim)
	b = appendBytesField(b, 6, []byte{0x01, 0x02})
	b = appendStringField(b, 7, "cloud_type")

	v, err := UnmarshalVariable(b)
	require.NoError(t, err)
	assert.Equal(t, "Temperature", v.Name)
	assert.Equal(t, Float, v.DataType)
	require.Len(t, v.Shape, 1)
	assert.Equal(t, "lat", v.Shape[0].Name)
	assert.Equal(t, []byte{0x01, 0x02}, v.Data)
	assert.Equal(t, "cloud_type", v.EnumType)
}

func TestUnmarshalGroupNested(t *testing.T) {
	inner := appendStringField(nil, 1, "model")

	entry := appendVarintField(nil, 1, 2)
	entry = appendStringField(entry, 2, "stratus")
	enum := appendStringField(nil, 1, "cloud_type")
	enum = appendBytesField(enum, 2, entry)

	b := appendStringField(nil, 1, "")
	b = appendBytesField(b, 6, inner)
	b = appendBytesField(b, 7, enum)

	g, err := UnmarshalGroup(b)
	require.NoError(t, err)
	assert.Equal(t, "", g.Name)
	require.Len(t, g.Groups, 1)
	assert.Equal(t, "model", g.Groups[0].Name)
	require.Len(t, g.EnumTypes, 1)
	require.Len(t, g.EnumTypes[0].Map, 1)
	assert.Equal(t, uint32(2), g.EnumTypes[0].Map[0].Code)
	assert.Equal(t, "stratus", g.EnumTypes[0].Map[0].Value)
}

func TestUnmarshalHeader(t *testing.T) {
	root := appendStringField(nil, 1, "")
	b := appendStringField(nil, 1, "dods://example/file.nc")
	b = appendStringField(b, 2, "Sample")
	b = appendBytesField(b, 4, root)
	b = appendVarintField(b, 5, 1)

	h, err := UnmarshalHeader(b)
	require.NoError(t, err)
	assert.Equal(t, "dods://example/file.nc", h.Location)
	assert.Equal(t, "Sample", h.Title)
	require.NotNil(t, h.Root)
	assert.Equal(t, uint32(1), h.Version)
}

func TestUnmarshalDataDefaults(t *testing.T) {
	// BigEnd must default to true when field 4 is absent.
	b := appendStringField(nil, 1, "v")
	b = appendVarintField(b, 2, uint64(Double))

	d, err := UnmarshalData(b)
	require.NoError(t, err)
	assert.True(t, d.BigEnd)
	assert.Equal(t, CompressNone, d.Compress)
	assert.False(t, d.VData)
}

func TestUnmarshalDataSection(t *testing.T) {
	r1 := appendVarintField(nil, 1, 2)
	r1 = appendVarintField(r1, 2, 5)
	r1 = appendVarintField(r1, 3, 2)
	r2 := appendVarintField(nil, 2, 3)
	sec := appendBytesField(nil, 1, r1)
	sec = appendBytesField(sec, 1, r2)

	b := appendStringField(nil, 1, "v")
	b = appendVarintField(b, 2, uint64(Int))
	b = appendBytesField(b, 3, sec)
	b = appendVarintField(b, 4, 0)
	b = appendVarintField(b, 6, uint64(CompressDeflate))
	b = appendVarintField(b, 8, 60)

	d, err := UnmarshalData(b)
	require.NoError(t, err)
	assert.False(t, d.BigEnd)
	assert.Equal(t, CompressDeflate, d.Compress)
	assert.Equal(t, uint32(60), d.UncompressedSize)
	require.NotNil(t, d.Section)
	assert.Equal(t, []int{5, 3}, d.Section.Sizes())
	assert.Equal(t, 15, d.Section.NumElements())
	assert.Equal(t, uint64(2), d.Section.Ranges[0].Start)
	assert.Equal(t, uint64(2), d.Section.Ranges[0].Stride)
}

func TestSectionNilScalar(t *testing.T) {
	var s *Section
	assert.Nil(t, s.Sizes())
	assert.Equal(t, 1, s.NumElements())
}

func TestUnmarshalErrorMessage(t *testing.T) {
	e, err := UnmarshalError(appendStringField(nil, 1, "no such variable"))
	require.NoError(t, err)
	assert.Equal(t, "no such variable", e.Message)
}

func TestUnmarshalStructureDataPacked(t *testing.T) {
	packed := protowire.AppendVarint(nil, 0)
	packed = protowire.AppendVarint(packed, 2)

	b := appendBytesField(nil, 1, packed)
	b = appendBytesField(b, 2, []byte{0xca, 0xfe})
	b = appendVarintField(b, 3, 7) // unpacked repeated form
	b = appendVarintField(b, 4, 7)

	sd, err := UnmarshalStructureData(b)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2}, sd.Members)
	assert.Equal(t, []byte{0xca, 0xfe}, sd.Data)
	assert.Equal(t, []uint32{7}, sd.Shape)
	assert.Equal(t, uint64(7), sd.NRows)
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	b := appendStringField(nil, 1, "d")
	b = appendVarintField(b, 2, 9)
	b = appendVarintField(b, 99, 1)
	b = appendBytesField(b, 100, []byte("future"))

	d, err := UnmarshalDimension(b)
	require.NoError(t, err)
	assert.Equal(t, "d", d.Name)
	assert.Equal(t, uint64(9), d.Length)
}

func TestDataTypeWidths(t *testing.T) {
	cases := []struct {
		t     DataType
		width int
	}{
		{Char, 1}, {Byte, 1}, {UByte, 1}, {Enum1, 1},
		{Short, 2}, {UShort, 2}, {Enum2, 2},
		{Int, 4}, {UInt, 4}, {Enum4, 4}, {Float, 4},
		{Long, 8}, {ULong, 8}, {Double, 8},
		{String, 0}, {Opaque, 0}, {StructureType, 0}, {Sequence, 0},
	}
	for _, c := range cases {
		if got := c.t.Width(); got != c.width {
			t.Errorf("%s: expected width %d, got %d", c.t, c.width, got)
		}
	}
	assert.True(t, String.IsVariableLength())
	assert.True(t, Opaque.IsVariableLength())
	assert.True(t, StructureType.IsComposite())
	assert.True(t, Sequence.IsComposite())
	assert.True(t, Enum2.IsEnum())
	assert.False(t, Int.IsEnum())
}
