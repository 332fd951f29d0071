package ncproto

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// UnpackAttribute converts an attribute record into a name→value pair.
// A record with zero values yields nil; string records yield their
// sdata field; numeric records decode big-endian per the declared type.
// A single-element result collapses to a bare scalar.
//
// The unsigned flag is only logged: values decode as signed regardless.
// Known limitation carried over from the protocol's reference clients;
// downstream consumers compensate, so do not change silently.
func UnpackAttribute(att *Attribute, log logrus.FieldLogger) (string, interface{}, error) {
	if att.Unsigned {
		log.Warnf("attribute %q: unsigned flag set; decoding as signed", att.Name)
	}

	if att.Len == 0 {
		return att.Name, nil, nil
	}

	if att.Type == AttrString {
		if len(att.Sdata) == 1 {
			return att.Name, att.Sdata[0], nil
		}
		return att.Name, att.Sdata, nil
	}

	count := int(att.Len)
	width := att.Type.Width()
	if width == 0 {
		return "", nil, fmt.Errorf("attribute %q: unknown type %d", att.Name, att.Type)
	}
	if len(att.Data) < count*width {
		return "", nil, fmt.Errorf("attribute %q: %d bytes for %d elements of width %d",
			att.Name, len(att.Data), count, width)
	}

	value := unpackNumeric(att.Type, att.Data, count)
	if att.Len == 1 {
		value = firstElement(value)
	}
	return att.Name, value, nil
}

func unpackNumeric(t AttrType, data []byte, count int) interface{} {
	switch t {
	case AttrByte:
		vals := make([]int8, count)
		for i := range vals {
			vals[i] = int8(data[i])
		}
		return vals
	case AttrShort:
		vals := make([]int16, count)
		for i := range vals {
			vals[i] = int16(binary.BigEndian.Uint16(data[i*2:]))
		}
		return vals
	case AttrInt:
		vals := make([]int32, count)
		for i := range vals {
			vals[i] = int32(binary.BigEndian.Uint32(data[i*4:]))
		}
		return vals
	case AttrLong:
		vals := make([]int64, count)
		for i := range vals {
			vals[i] = int64(binary.BigEndian.Uint64(data[i*8:]))
		}
		return vals
	case AttrFloat:
		vals := make([]float32, count)
		for i := range vals {
			vals[i] = math.Float32frombits(binary.BigEndian.Uint32(data[i*4:]))
		}
		return vals
	case AttrDouble:
		vals := make([]float64, count)
		for i := range vals {
			vals[i] = math.Float64frombits(binary.BigEndian.Uint64(data[i*8:]))
		}
		return vals
	}
	return nil
}

func firstElement(value interface{}) interface{} {
	switch v := value.(type) {
	case []int8:
		return v[0]
	case []int16:
		return v[0]
	case []int32:
		return v[0]
	case []int64:
		return v[0]
	case []float32:
		return v[0]
	case []float64:
		return v[0]
	case []string:
		return v[0]
	}
	return value
}
