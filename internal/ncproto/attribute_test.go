package ncproto

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackAttributeString(t *testing.T) {
	att := &Attribute{Name: "units", Type: AttrString, Len: 1, Sdata: []string{"degK"}}
	name, value, err := UnpackAttribute(att, logrus.StandardLogger())
	require.NoError(t, err)
	assert.Equal(t, "units", name)
	assert.Equal(t, "degK", value)
}

func TestUnpackAttributeStringList(t *testing.T) {
	att := &Attribute{Name: "keywords", Type: AttrString, Len: 2, Sdata: []string{"a", "b"}}
	_, value, err := UnpackAttribute(att, logrus.StandardLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, value)
}

func TestUnpackAttributeEmpty(t *testing.T) {
	att := &Attribute{Name: "flag", Type: AttrInt, Len: 0}
	name, value, err := UnpackAttribute(att, logrus.StandardLogger())
	require.NoError(t, err)
	assert.Equal(t, "flag", name)
	assert.Nil(t, value)
}

func TestUnpackAttributeScalarCollapse(t *testing.T) {
	// One float, big-endian: 1.5 = 0x3FC00000.
	att := &Attribute{
		Name: "scale_factor",
		Type: AttrFloat,
		Len:  1,
		Data: []byte{0x3f, 0xc0, 0x00, 0x00},
	}
	_, value, err := UnpackAttribute(att, logrus.StandardLogger())
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), value)
}

func TestUnpackAttributeNumericList(t *testing.T) {
	att := &Attribute{
		Name: "valid_range",
		Type: AttrShort,
		Len:  2,
		Data: []byte{0xff, 0xff, 0x01, 0x00}, // -1, 256
	}
	_, value, err := UnpackAttribute(att, logrus.StandardLogger())
	require.NoError(t, err)
	assert.Equal(t, []int16{-1, 256}, value)
}

func TestUnpackAttributeDouble(t *testing.T) {
	// 2.0 = 0x4000000000000000.
	att := &Attribute{
		Name: "add_offset",
		Type: AttrDouble,
		Len:  1,
		Data: []byte{0x40, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	}
	_, value, err := UnpackAttribute(att, logrus.StandardLogger())
	require.NoError(t, err)
	assert.Equal(t, float64(2.0), value)
}

func TestUnpackAttributeUnsignedWarnsOnly(t *testing.T) {
	logger, hook := test.NewNullLogger()
	att := &Attribute{
		Name:     "missing_value",
		Type:     AttrByte,
		Len:      1,
		Data:     []byte{0xff},
		Unsigned: true,
	}
	_, value, err := UnpackAttribute(att, logger)
	require.NoError(t, err)
	// Decoded as signed despite the flag.
	assert.Equal(t, int8(-1), value)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.Entries[0].Level)
}

func TestUnpackAttributeShortBuffer(t *testing.T) {
	att := &Attribute{Name: "bad", Type: AttrInt, Len: 2, Data: []byte{0x00, 0x00, 0x00, 0x01}}
	_, _, err := UnpackAttribute(att, logrus.StandardLogger())
	assert.Error(t, err)
}
