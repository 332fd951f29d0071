package wire

import (
	"errors"
	"fmt"
	"io"
)

// ErrTruncated is returned when the stream ends mid-varint or inside a
// length-prefixed block.
var ErrTruncated = errors.New("ncstream: truncated stream")

// ReadVarInt reads one protobuf-style varint: 7 data bits per byte,
// least-significant group first, high bit set on all but the last byte.
func ReadVarInt(r io.Reader) (uint64, error) {
	var buf [1]byte
	var val uint64
	var shift uint
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, fmt.Errorf("%w: reading varint: %v", ErrTruncated, err)
		}
		b := buf[0]
		val |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return val, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, fmt.Errorf("varint overflows 64 bits")
		}
	}
}

// ReadFull reads exactly n bytes.
func ReadFull(r io.Reader, n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading %d bytes: %v", ErrTruncated, n, err)
	}
	return buf, nil
}

// ReadBlock reads one length-prefixed block: a varint length followed
// by exactly that many raw bytes. No padding, no alignment.
func ReadBlock(r io.Reader) ([]byte, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return ReadFull(r, int(n))
}
