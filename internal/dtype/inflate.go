package dtype

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Inflate decompresses a DEFLATE (zlib) payload and verifies the result
// against the envelope-declared uncompressed size.
func Inflate(compressed []byte, declaredSize int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	if len(out) != declaredSize {
		return nil, fmt.Errorf("%w: inflated %d bytes, envelope declares %d",
			ErrDecompression, len(out), declaredSize)
	}
	return out, nil
}
