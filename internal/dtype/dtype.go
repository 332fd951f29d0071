package dtype

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/robert-malhotra/go-ncstream/internal/ncproto"
)

// Decode failure sentinels.
var (
	ErrShapeMismatch          = errors.New("ncstream: payload size does not match declared shape")
	ErrDecompression          = errors.New("ncstream: decompression failed")
	ErrUnsupportedCompression = errors.New("ncstream: unsupported compression code")
	ErrUnsupportedType        = errors.New("ncstream: unsupported data type code")
)

// DecodeArray decodes the raw payload of a Data envelope into a flat,
// row-major typed slice. The caller reshapes using the envelope's
// section sizes. Compression is undone first; the element count must
// match the section exactly.
func DecodeArray(env *ncproto.Data, raw []byte) (interface{}, error) {
	switch env.Compress {
	case ncproto.CompressNone:
	case ncproto.CompressDeflate:
		var err error
		raw, err = Inflate(raw, int(env.UncompressedSize))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, env.Compress)
	}

	width := env.DataType.Width()
	if width == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, env.DataType)
	}

	want := env.Section.NumElements()
	if len(raw) != want*width {
		return nil, fmt.Errorf("%w: %d bytes, want %d elements of width %d (%s)",
			ErrShapeMismatch, len(raw), want, width, env.DataType)
	}

	order := byteOrder(env.BigEnd)
	return decodeElements(env.DataType, order, raw, want)
}

// DecodeFixed decodes count fixed-width elements without an envelope.
// Used for inline header data, which is always big-endian.
func DecodeFixed(t ncproto.DataType, raw []byte, bigend bool) (interface{}, error) {
	width := t.Width()
	if width == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	if len(raw)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of width %d (%s)",
			ErrShapeMismatch, len(raw), width, t)
	}
	return decodeElements(t, byteOrder(bigend), raw, len(raw)/width)
}

func byteOrder(bigend bool) binary.ByteOrder {
	if bigend {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// decodeElements produces the native slice kind for each protocol type.
// Enum codes decode as unsigned integers of their width; symbol lookup
// happens against the dataset's enum table, a layer up.
func decodeElements(t ncproto.DataType, order binary.ByteOrder, raw []byte, count int) (interface{}, error) {
	switch t {
	case ncproto.Char, ncproto.UByte, ncproto.Enum1:
		vals := make([]uint8, count)
		copy(vals, raw)
		return vals, nil
	case ncproto.Byte:
		vals := make([]int8, count)
		for i := range vals {
			vals[i] = int8(raw[i])
		}
		return vals, nil
	case ncproto.Short:
		vals := make([]int16, count)
		for i := range vals {
			vals[i] = int16(order.Uint16(raw[i*2:]))
		}
		return vals, nil
	case ncproto.UShort, ncproto.Enum2:
		vals := make([]uint16, count)
		for i := range vals {
			vals[i] = order.Uint16(raw[i*2:])
		}
		return vals, nil
	case ncproto.Int:
		vals := make([]int32, count)
		for i := range vals {
			vals[i] = int32(order.Uint32(raw[i*4:]))
		}
		return vals, nil
	case ncproto.UInt, ncproto.Enum4:
		vals := make([]uint32, count)
		for i := range vals {
			vals[i] = order.Uint32(raw[i*4:])
		}
		return vals, nil
	case ncproto.Long:
		vals := make([]int64, count)
		for i := range vals {
			vals[i] = int64(order.Uint64(raw[i*8:]))
		}
		return vals, nil
	case ncproto.ULong:
		vals := make([]uint64, count)
		for i := range vals {
			vals[i] = order.Uint64(raw[i*8:])
		}
		return vals, nil
	case ncproto.Float:
		vals := make([]float32, count)
		for i := range vals {
			vals[i] = math.Float32frombits(order.Uint32(raw[i*4:]))
		}
		return vals, nil
	case ncproto.Double:
		vals := make([]float64, count)
		for i := range vals {
			vals[i] = math.Float64frombits(order.Uint64(raw[i*8:]))
		}
		return vals, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}
