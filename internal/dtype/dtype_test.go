package dtype

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/robert-malhotra/go-ncstream/internal/ncproto"
)

func section(sizes ...uint64) *ncproto.Section {
	s := &ncproto.Section{}
	for _, size := range sizes {
		s.Ranges = append(s.Ranges, &ncproto.Range{Size: size})
	}
	return s
}

func envelope(t ncproto.DataType, bigend bool, sizes ...uint64) *ncproto.Data {
	return &ncproto.Data{
		VarName:  "v",
		DataType: t,
		Section:  section(sizes...),
		BigEnd:   bigend,
	}
}

func TestDecodeArrayFloatBigEndian(t *testing.T) {
	want := []float32{1.5, -0.25, 100}
	raw := make([]byte, 0, 12)
	for _, f := range want {
		raw = binary.BigEndian.AppendUint32(raw, math.Float32bits(f))
	}

	got, err := DecodeArray(envelope(ncproto.Float, true, 3), raw)
	if err != nil {
		t.Fatalf("DecodeArray failed: %v", err)
	}
	vals, ok := got.([]float32)
	if !ok {
		t.Fatalf("expected []float32, got %T", got)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("element %d: expected %v, got %v", i, want[i], vals[i])
		}
	}
}

func TestDecodeArrayIntLittleEndian(t *testing.T) {
	raw := make([]byte, 0, 8)
	raw = binary.LittleEndian.AppendUint32(raw, uint32(0xfffffffe)) // -2
	raw = binary.LittleEndian.AppendUint32(raw, 7)

	got, err := DecodeArray(envelope(ncproto.Int, false, 2), raw)
	if err != nil {
		t.Fatalf("DecodeArray failed: %v", err)
	}
	vals := got.([]int32)
	if vals[0] != -2 || vals[1] != 7 {
		t.Errorf("expected [-2 7], got %v", vals)
	}
}

func TestDecodeArrayAllWidths(t *testing.T) {
	cases := []struct {
		dt   ncproto.DataType
		raw  []byte
		want interface{}
	}{
		{ncproto.Char, []byte{0x41, 0x42}, []uint8{0x41, 0x42}},
		{ncproto.Byte, []byte{0xff}, []int8{-1}},
		{ncproto.UByte, []byte{0xff}, []uint8{255}},
		{ncproto.Short, []byte{0xff, 0xfe}, []int16{-2}},
		{ncproto.UShort, []byte{0x01, 0x00}, []uint16{256}},
		{ncproto.Enum1, []byte{0x03}, []uint8{3}},
		{ncproto.Enum2, []byte{0x00, 0x03}, []uint16{3}},
		{ncproto.Enum4, []byte{0, 0, 0, 3}, []uint32{3}},
		{ncproto.UInt, []byte{0, 0, 0, 9}, []uint32{9}},
		{ncproto.Long, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, []int64{-1}},
		{ncproto.ULong, []byte{0, 0, 0, 0, 0, 0, 0, 5}, []uint64{5}},
		{ncproto.Double, []byte{0x40, 0, 0, 0, 0, 0, 0, 0}, []float64{2.0}},
	}
	for _, c := range cases {
		n := uint64(len(c.raw) / c.dt.Width())
		got, err := DecodeArray(envelope(c.dt, true, n), c.raw)
		if err != nil {
			t.Fatalf("%s: DecodeArray failed: %v", c.dt, err)
		}
		if !reflect.DeepEqual(c.want, got) {
			t.Errorf("%s: expected %v (%T), got %v (%T)", c.dt, c.want, c.want, got, got)
		}
	}
}

func TestDecodeArrayShapeMismatch(t *testing.T) {
	raw := make([]byte, 8) // 2 floats, but section declares 3
	_, err := DecodeArray(envelope(ncproto.Float, true, 3), raw)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestDecodeArrayUnsupportedType(t *testing.T) {
	_, err := DecodeArray(envelope(ncproto.String, true, 1), []byte{0x00})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestDecodeArrayUnsupportedCompression(t *testing.T) {
	env := envelope(ncproto.Float, true, 1)
	env.Compress = ncproto.Compress(9)
	_, err := DecodeArray(env, make([]byte, 4))
	if !errors.Is(err, ErrUnsupportedCompression) {
		t.Errorf("expected ErrUnsupportedCompression, got %v", err)
	}
}

func TestDecodeArrayDeflate(t *testing.T) {
	plain := make([]byte, 0, 8)
	plain = binary.BigEndian.AppendUint32(plain, math.Float32bits(3.5))
	plain = binary.BigEndian.AppendUint32(plain, math.Float32bits(-1))

	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(plain); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress close: %v", err)
	}

	env := envelope(ncproto.Float, true, 2)
	env.Compress = ncproto.CompressDeflate
	env.UncompressedSize = uint32(len(plain))

	got, err := DecodeArray(env, buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeArray failed: %v", err)
	}
	vals := got.([]float32)
	if vals[0] != 3.5 || vals[1] != -1 {
		t.Errorf("expected [3.5 -1], got %v", vals)
	}
}

func TestInflateSizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	_, _ = w.Write([]byte("payload"))
	_ = w.Close()

	_, err := Inflate(buf.Bytes(), 3)
	if !errors.Is(err, ErrDecompression) {
		t.Errorf("expected ErrDecompression, got %v", err)
	}
}

func TestInflateCorrupt(t *testing.T) {
	_, err := Inflate([]byte{0x00, 0x01, 0x02}, 10)
	if !errors.Is(err, ErrDecompression) {
		t.Errorf("expected ErrDecompression, got %v", err)
	}
}

func TestDecodeFixed(t *testing.T) {
	raw := binary.BigEndian.AppendUint16(nil, 0x0102)
	raw = binary.BigEndian.AppendUint16(raw, 0xffff)

	got, err := DecodeFixed(ncproto.Short, raw, true)
	if err != nil {
		t.Fatalf("DecodeFixed failed: %v", err)
	}
	vals := got.([]int16)
	if vals[0] != 0x0102 || vals[1] != -1 {
		t.Errorf("expected [258 -1], got %v", vals)
	}
}

func TestDecodeFixedRaggedBuffer(t *testing.T) {
	_, err := DecodeFixed(ncproto.Int, []byte{0x00, 0x01, 0x02}, true)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}
