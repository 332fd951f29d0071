package ncstream

import (
	"fmt"
)

// Record is one structure or sequence record block as streamed by the
// server: a packed member-data buffer plus its row count. Member
// layout is defined by the variable's structure declaration in the
// header.
type Record struct {
	Members []int
	Data    []byte
	Shape   []int
	NumRows int
}

// Array is a shaped, typed, row-major decoded payload. Exactly one of
// the payload forms is populated: a flat typed slice for fixed-width
// element types, a block list for strings and opaque blobs, or a
// record list for structures and sequences.
type Array struct {
	dtype   DataType
	shape   []int
	values  interface{}
	blocks  [][]byte
	records []Record
}

func newValueArray(dt DataType, shape []int, values interface{}) *Array {
	return &Array{dtype: dt, shape: shape, values: values}
}

func newBlockArray(dt DataType, shape []int, blocks [][]byte) *Array {
	return &Array{dtype: dt, shape: shape, blocks: blocks}
}

func newRecordArray(dt DataType, shape []int, records []Record) *Array {
	return &Array{dtype: dt, shape: shape, records: records}
}

// DataType returns the element type.
func (a *Array) DataType() DataType {
	return a.dtype
}

// Shape returns the per-dimension extents. A scalar has an empty shape.
func (a *Array) Shape() []int {
	out := make([]int, len(a.shape))
	copy(out, a.shape)
	return out
}

// Rank returns the number of dimensions.
func (a *Array) Rank() int {
	return len(a.shape)
}

// IsScalar reports whether the array is zero-dimensional.
func (a *Array) IsScalar() bool {
	return len(a.shape) == 0
}

// Len returns the total number of elements.
func (a *Array) Len() int {
	return numElements(a.shape)
}

// Values returns the flat row-major payload: a typed slice for
// fixed-width types, nil for block- and record-shaped arrays.
func (a *Array) Values() interface{} {
	return a.values
}

// Blocks returns the raw element blocks of a string or opaque array.
func (a *Array) Blocks() [][]byte {
	return a.blocks
}

// Records returns the structure/sequence records.
func (a *Array) Records() []Record {
	return a.records
}

// Strings returns the elements of a string-typed array.
func (a *Array) Strings() ([]string, error) {
	if a.dtype != TypeString {
		return nil, fmt.Errorf("array is %s, not string", a.dtype)
	}
	out := make([]string, len(a.blocks))
	for i, b := range a.blocks {
		out[i] = string(b)
	}
	return out, nil
}

// Float64s returns the payload as []float64.
func (a *Array) Float64s() ([]float64, error) {
	if v, ok := a.values.([]float64); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not double", a.dtype)
}

// Float32s returns the payload as []float32.
func (a *Array) Float32s() ([]float32, error) {
	if v, ok := a.values.([]float32); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not float", a.dtype)
}

// Int8s returns the payload as []int8.
func (a *Array) Int8s() ([]int8, error) {
	if v, ok := a.values.([]int8); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not byte", a.dtype)
}

// Int16s returns the payload as []int16.
func (a *Array) Int16s() ([]int16, error) {
	if v, ok := a.values.([]int16); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not short", a.dtype)
}

// Int32s returns the payload as []int32.
func (a *Array) Int32s() ([]int32, error) {
	if v, ok := a.values.([]int32); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not int", a.dtype)
}

// Int64s returns the payload as []int64.
func (a *Array) Int64s() ([]int64, error) {
	if v, ok := a.values.([]int64); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not long", a.dtype)
}

// Uint8s returns the payload as []uint8 (char, ubyte and enum1 data).
func (a *Array) Uint8s() ([]uint8, error) {
	if v, ok := a.values.([]uint8); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not ubyte", a.dtype)
}

// Uint16s returns the payload as []uint16.
func (a *Array) Uint16s() ([]uint16, error) {
	if v, ok := a.values.([]uint16); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not ushort", a.dtype)
}

// Uint32s returns the payload as []uint32.
func (a *Array) Uint32s() ([]uint32, error) {
	if v, ok := a.values.([]uint32); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not uint", a.dtype)
}

// Uint64s returns the payload as []uint64.
func (a *Array) Uint64s() ([]uint64, error) {
	if v, ok := a.values.([]uint64); ok {
		return v, nil
	}
	return nil, fmt.Errorf("array is %s, not ulong", a.dtype)
}

// Scalar returns the sole element of a zero-dimensional array.
func (a *Array) Scalar() (interface{}, error) {
	if !a.IsScalar() {
		return nil, fmt.Errorf("array has shape %v, not scalar", a.shape)
	}
	return a.element(0)
}

// At returns the element at the given multi-dimensional index.
// Negative indices count from the end of their dimension.
func (a *Array) At(idx ...int) (interface{}, error) {
	if len(idx) != len(a.shape) {
		return nil, fmt.Errorf("%w: %d indices for rank %d", ErrIndex, len(idx), len(a.shape))
	}
	offset := 0
	stride := 1
	for i := len(a.shape) - 1; i >= 0; i-- {
		j := idx[i]
		if j < 0 {
			j += a.shape[i]
		}
		if j < 0 || j >= a.shape[i] {
			return nil, fmt.Errorf("%w: index %d out of range for dimension of size %d",
				ErrIndex, idx[i], a.shape[i])
		}
		offset += j * stride
		stride *= a.shape[i]
	}
	return a.element(offset)
}

func (a *Array) element(offset int) (interface{}, error) {
	switch v := a.values.(type) {
	case []int8:
		return v[offset], nil
	case []int16:
		return v[offset], nil
	case []int32:
		return v[offset], nil
	case []int64:
		return v[offset], nil
	case []uint8:
		return v[offset], nil
	case []uint16:
		return v[offset], nil
	case []uint32:
		return v[offset], nil
	case []uint64:
		return v[offset], nil
	case []float32:
		return v[offset], nil
	case []float64:
		return v[offset], nil
	}
	if a.blocks != nil {
		if a.dtype == TypeString {
			return string(a.blocks[offset]), nil
		}
		return a.blocks[offset], nil
	}
	return nil, fmt.Errorf("array of %s has no element access", a.dtype)
}

// withShape returns a view of the same payload under a new shape.
func (a *Array) withShape(shape []int) *Array {
	return &Array{
		dtype:   a.dtype,
		shape:   shape,
		values:  a.values,
		blocks:  a.blocks,
		records: a.records,
	}
}

// section gathers a strided sub-array. Used to serve partial reads of
// inline-cached variables without a network round trip. The result has
// the same rank; collapsing is the caller's concern.
func (a *Array) section(secs []section) (*Array, error) {
	if len(secs) != len(a.shape) {
		return nil, fmt.Errorf("%w: %d sections for rank %d", ErrIndex, len(secs), len(a.shape))
	}

	counts := make([]int, len(secs))
	for i, s := range secs {
		counts[i] = s.count()
	}

	// Row-major source strides.
	strides := make([]int, len(a.shape))
	stride := 1
	for i := len(a.shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= a.shape[i]
	}

	total := numElements(counts)
	indices := make([]int, 0, total)
	odo := make([]int, len(counts))
	for n := 0; n < total; n++ {
		src := 0
		for i, s := range secs {
			src += (s.start + odo[i]*s.stride) * strides[i]
		}
		indices = append(indices, src)
		for i := len(odo) - 1; i >= 0; i-- {
			odo[i]++
			if odo[i] < counts[i] {
				break
			}
			odo[i] = 0
		}
	}

	out := a.withShape(counts)
	if a.blocks != nil {
		blocks := make([][]byte, len(indices))
		for i, j := range indices {
			blocks[i] = a.blocks[j]
		}
		out.blocks = blocks
		return out, nil
	}
	gathered, err := gather(a.values, indices)
	if err != nil {
		return nil, err
	}
	out.values = gathered
	return out, nil
}

func gather(values interface{}, indices []int) (interface{}, error) {
	switch v := values.(type) {
	case []int8:
		out := make([]int8, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	case []int16:
		out := make([]int16, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	case []int32:
		out := make([]int32, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	case []int64:
		out := make([]int64, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	case []uint8:
		out := make([]uint8, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	case []uint16:
		out := make([]uint16, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	case []uint32:
		out := make([]uint32, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	case []uint64:
		out := make([]uint64, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	case []float32:
		out := make([]float32, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	case []float64:
		out := make([]float64, len(indices))
		for i, j := range indices {
			out[i] = v[j]
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot gather from %T", values)
}

func numElements(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}
