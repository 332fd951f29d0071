package ncstream

import (
	"context"
	"fmt"

	"github.com/robert-malhotra/go-ncstream/internal/dtype"
	"github.com/robert-malhotra/go-ncstream/internal/ncproto"
	"github.com/robert-malhotra/go-ncstream/internal/wire"
)

// Variable is one array variable of the dataset. Structural metadata
// (name, shape, attributes) is populated once from the header; element
// access fetches data from the server per call, except for variables
// whose values arrived inline with the header.
type Variable struct {
	name     string
	group    *Group
	dtype    DataType
	enumName string
	unsigned bool

	dimNames []string
	shape    []int
	vlen     []bool

	attrs *AttributeContainer
	cache *Array
}

// newVariable builds a Variable from a decoded header record. Named
// dimensions resolve against the group chain's dimension table;
// anonymous/private dimensions use their inline descriptor.
func (g *Group) newVariable(pv *ncproto.Variable) (*Variable, error) {
	v := &Variable{
		name:     pv.Name,
		group:    g,
		dtype:    pv.DataType,
		enumName: pv.EnumType,
		unsigned: pv.Unsigned,
		attrs:    newAttributeContainer(),
	}
	if err := v.resolveShape(pv.Shape); err != nil {
		return nil, err
	}
	for _, pa := range pv.Atts {
		name, value, err := ncproto.UnpackAttribute(pa, g.logger())
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Path(), err)
		}
		v.attrs.add(name, value)
	}
	if len(pv.Data) > 0 {
		if err := v.decodeInline(pv.Data); err != nil {
			return nil, fmt.Errorf("variable %q: inline data: %w", v.Path(), err)
		}
	}
	return v, nil
}

// newStructVariable builds a Variable for a structure or sequence
// declaration. Member variables contribute attributes only through
// the record payloads; the variable itself carries the composite type.
func (g *Group) newStructVariable(ps *ncproto.Structure) (*Variable, error) {
	v := &Variable{
		name:  ps.Name,
		group: g,
		dtype: ps.DataType,
		attrs: newAttributeContainer(),
	}
	if v.dtype != TypeStructure && v.dtype != TypeSequence {
		v.dtype = TypeStructure
	}
	if err := v.resolveShape(ps.Shape); err != nil {
		return nil, err
	}
	for _, pa := range ps.Atts {
		name, value, err := ncproto.UnpackAttribute(pa, g.logger())
		if err != nil {
			return nil, fmt.Errorf("structure %q: %w", v.Path(), err)
		}
		v.attrs.add(name, value)
	}
	return v, nil
}

func (v *Variable) resolveShape(dims []*ncproto.Dimension) error {
	for _, pd := range dims {
		name := pd.Name
		size := int(pd.Length)
		vlen := pd.IsVlen
		if name != "" {
			if d := v.group.findDimension(name); d != nil {
				size = d.size
				vlen = d.vlen
			}
		}
		if vlen {
			size = 0
		}
		v.dimNames = append(v.dimNames, name)
		v.shape = append(v.shape, size)
		v.vlen = append(v.vlen, vlen)
	}
	return nil
}

// decodeInline decodes header-embedded values into the local cache.
// Inline payloads are big-endian. Only fixed-width types arrive
// inline; anything else is fetched on demand.
func (v *Variable) decodeInline(raw []byte) error {
	if !v.dtype.IsFixedWidth() {
		return nil
	}
	values, err := dtype.DecodeFixed(v.dtype, raw, true)
	if err != nil {
		return err
	}
	shape := make([]int, len(v.shape))
	copy(shape, v.shape)
	v.cache = newValueArray(v.dtype, shape, values)
	return nil
}

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Path returns the hierarchical path of the variable.
func (v *Variable) Path() string { return v.group.Path() + "/" + v.name }

// Group returns the owning group.
func (v *Variable) Group() *Group { return v.group }

// DataType returns the element type descriptor.
func (v *Variable) DataType() DataType { return v.dtype }

// EnumType resolves the variable's enum typedef, if any. The code→
// symbol table lives on the declaring group, not on the variable.
func (v *Variable) EnumType() *EnumType {
	if v.enumName == "" {
		return nil
	}
	return v.group.findEnumType(v.enumName)
}

// Rank returns the number of dimensions.
func (v *Variable) Rank() int { return len(v.shape) }

// Shape returns the per-dimension sizes; vlen dimensions report 0.
func (v *Variable) Shape() []int {
	out := make([]int, len(v.shape))
	copy(out, v.shape)
	return out
}

// DimensionNames returns the names of the variable's dimensions in
// order. Anonymous dimensions report "".
func (v *Variable) DimensionNames() []string {
	out := make([]string, len(v.dimNames))
	copy(out, v.dimNames)
	return out
}

// Attributes returns the variable's attribute container.
func (v *Variable) Attributes() *AttributeContainer { return v.attrs }

// HasCachedData reports whether the variable's values arrived inline
// with the header, making reads free of network round trips.
func (v *Variable) HasCachedData() bool { return v.cache != nil }

// Read fetches the variable's full contents.
func (v *Variable) Read(ctx context.Context) (*Array, error) {
	return v.Get(ctx)
}

// Get fetches the selected subset of the variable. The selection has
// at most one entry per dimension; a missing trailing entry means a
// full slice, and an Ellipsis expands over the unaddressed middle
// dimensions. Dimensions indexed with a scalar are collapsed away in
// the result; full and bounded slices keep theirs, and vlen dimensions
// are always dropped. An index that collapses every dimension yields a
// zero-dimensional array.
func (v *Variable) Get(ctx context.Context, sel ...Index) (*Array, error) {
	if v.group.dataset != nil && v.group.dataset.closed {
		return nil, ErrClosed
	}

	// Scalar variables are served straight from the inline cache; the
	// only acceptable selection is the no-op form.
	if len(v.shape) == 0 {
		if !isNoop(sel) {
			return nil, fmt.Errorf("%w: scalar variable %q takes no index", ErrIndex, v.Path())
		}
		if v.cache != nil {
			return v.cache, nil
		}
		sel = nil
	}

	secs, keep, err := normalizeSelection(sel, v.shape, v.vlen)
	if err != nil {
		return nil, err
	}

	if v.cache != nil {
		sub, err := v.cache.section(secs)
		if err != nil {
			return nil, err
		}
		return sub.withShape(filterShape(sub.Shape(), keep)), nil
	}

	msgs, err := v.group.dataset.client.fetchData(ctx, map[string][]section{v.Path(): secs})
	if err != nil {
		return nil, err
	}
	msg, err := v.pickDataMessage(msgs)
	if err != nil {
		return nil, err
	}
	return v.buildResult(msg, secs, keep)
}

// pickDataMessage expects exactly one Data message; extras are
// advisory and only warned about.
func (v *Variable) pickDataMessage(msgs []*wire.Message) (*wire.Message, error) {
	var data []*wire.Message
	for _, m := range msgs {
		if m.Kind == wire.KindData {
			data = append(data, m)
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("variable %q: no data message in response", v.Path())
	}
	if len(data) > 1 {
		v.group.logger().Warnf("ncstream: variable %q: %d data messages in response, using first",
			v.Path(), len(data))
	}
	return data[0], nil
}

// buildResult shapes the decoded payload: reshape to the per-dimension
// request sizes (preferring the sizes echoed in the response
// envelope), then squeeze away exactly the dimensions not kept.
func (v *Variable) buildResult(msg *wire.Message, secs []section, keep []bool) (*Array, error) {
	sizes := make([]int, len(secs))
	for i, s := range secs {
		sizes[i] = s.count()
	}
	if echoed := msg.Data.Section.Sizes(); len(echoed) == len(secs) {
		sizes = echoed
	}
	shape := filterShape(sizes, keep)

	switch {
	case msg.Values != nil:
		return newValueArray(v.dtype, shape, msg.Values), nil
	case msg.Blocks != nil:
		return newBlockArray(v.dtype, shape, msg.Blocks), nil
	case msg.Records != nil:
		records := make([]Record, len(msg.Records))
		for i, r := range msg.Records {
			rec := Record{Data: r.Data, NumRows: int(r.NRows)}
			for _, m := range r.Members {
				rec.Members = append(rec.Members, int(m))
			}
			for _, s := range r.Shape {
				rec.Shape = append(rec.Shape, int(s))
			}
			records[i] = rec
		}
		return newRecordArray(v.dtype, shape, records), nil
	}
	return nil, fmt.Errorf("variable %q: empty data message", v.Path())
}

func filterShape(sizes []int, keep []bool) []int {
	shape := make([]int, 0, len(sizes))
	for i, k := range keep {
		if k {
			shape = append(shape, sizes[i])
		}
	}
	return shape
}
