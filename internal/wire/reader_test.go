package wire

import (
	"bytes"
	"errors"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestReadVarIntSingleByte(t *testing.T) {
	r := bytes.NewReader([]byte{0x17})
	v, err := ReadVarInt(r)
	if err != nil {
		t.Fatalf("ReadVarInt failed: %v", err)
	}
	if v != 23 {
		t.Errorf("expected 23, got %d", v)
	}
}

func TestReadVarIntMultiByte(t *testing.T) {
	r := bytes.NewReader([]byte{0xb6, 0xe0, 0x02})
	v, err := ReadVarInt(r)
	if err != nil {
		t.Fatalf("ReadVarInt failed: %v", err)
	}
	if v != 45110 {
		t.Errorf("expected 45110, got %d", v)
	}
}

func TestReadVarIntRoundTrip(t *testing.T) {
	// ReadVarInt must invert a standard protobuf varint encoder.
	values := []uint64{0, 1, 127, 128, 300, 45110, 1 << 21, 1<<35 - 1}
	for _, want := range values {
		encoded := protowire.AppendVarint(nil, want)
		got, err := ReadVarInt(bytes.NewReader(encoded))
		if err != nil {
			t.Fatalf("ReadVarInt(%d) failed: %v", want, err)
		}
		if got != want {
			t.Errorf("round trip of %d: got %d", want, got)
		}
	}
}

func TestReadVarIntTruncated(t *testing.T) {
	// High bit set on the last byte promises a continuation that
	// never arrives.
	r := bytes.NewReader([]byte{0xb6, 0xe0})
	_, err := ReadVarInt(r)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestReadVarIntEmpty(t *testing.T) {
	_, err := ReadVarInt(bytes.NewReader(nil))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestReadBlock(t *testing.T) {
	data := append(protowire.AppendVarint(nil, 5), []byte("hello world")...)
	block, err := ReadBlock(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadBlock failed: %v", err)
	}
	if string(block) != "hello" {
		t.Errorf("expected %q, got %q", "hello", block)
	}
}

func TestReadBlockEmpty(t *testing.T) {
	block, err := ReadBlock(bytes.NewReader([]byte{0x00}))
	if err != nil {
		t.Fatalf("ReadBlock failed: %v", err)
	}
	if len(block) != 0 {
		t.Errorf("expected empty block, got %d bytes", len(block))
	}
}

func TestReadBlockTruncated(t *testing.T) {
	data := append(protowire.AppendVarint(nil, 10), []byte("abc")...)
	_, err := ReadBlock(bytes.NewReader(data))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}
