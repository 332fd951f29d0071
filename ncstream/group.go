package ncstream

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-ncstream/internal/ncproto"
)

// Dimension is one named axis of the dataset. A vlen dimension has no
// fixed size and cannot be partially sliced.
type Dimension struct {
	name      string
	size      int
	unlimited bool
	private   bool
	vlen      bool
}

// Name returns the dimension name.
func (d *Dimension) Name() string { return d.name }

// Size returns the fixed size, or 0 for vlen dimensions.
func (d *Dimension) Size() int { return d.size }

// IsUnlimited reports whether the dimension can grow.
func (d *Dimension) IsUnlimited() bool { return d.unlimited }

// IsPrivate reports whether the dimension is anonymous/internal.
func (d *Dimension) IsPrivate() bool { return d.private }

// IsVlen reports whether the dimension is variable-length.
func (d *Dimension) IsVlen() bool { return d.vlen }

// EnumType is a named code→symbol enumeration declared by a group.
type EnumType struct {
	name  string
	codes map[int]string
}

// Name returns the enum type name.
func (e *EnumType) Name() string { return e.name }

// Symbol returns the symbolic name for a code.
func (e *EnumType) Symbol(code int) (string, bool) {
	s, ok := e.codes[code]
	return s, ok
}

// Codes returns a copy of the code→symbol mapping.
func (e *EnumType) Codes() map[int]string {
	out := make(map[int]string, len(e.codes))
	for k, v := range e.codes {
		out[k] = v
	}
	return out
}

// Group is one namespace node of the dataset tree. The root group is
// the Dataset itself. Groups are populated once from the header
// message and are immutable afterwards.
type Group struct {
	name    string
	parent  *Group
	dataset *Dataset

	dims       []*Dimension
	dimIndex   map[string]*Dimension
	vars       []*Variable
	varIndex   map[string]*Variable
	groups     []*Group
	groupIndex map[string]*Group
	enums      []*EnumType
	enumIndex  map[string]*EnumType
	attrs      *AttributeContainer
}

func newGroup(name string, parent *Group, ds *Dataset) *Group {
	return &Group{
		name:       name,
		parent:     parent,
		dataset:    ds,
		dimIndex:   make(map[string]*Dimension),
		varIndex:   make(map[string]*Variable),
		groupIndex: make(map[string]*Group),
		enumIndex:  make(map[string]*EnumType),
		attrs:      newAttributeContainer(),
	}
}

// Name returns the group name. The root group's name is "".
func (g *Group) Name() string { return g.name }

// Path returns the hierarchical path: the parent's path, "/", and the
// group name. The root path is "".
func (g *Group) Path() string {
	if g.parent == nil {
		return ""
	}
	return g.parent.Path() + "/" + g.name
}

// Attributes returns the group's attribute container.
func (g *Group) Attributes() *AttributeContainer { return g.attrs }

// Dimensions returns the group's dimensions in declaration order.
func (g *Group) Dimensions() []*Dimension {
	out := make([]*Dimension, len(g.dims))
	copy(out, g.dims)
	return out
}

// Dimension returns a dimension by name, or nil.
func (g *Group) Dimension(name string) *Dimension { return g.dimIndex[name] }

// Variables returns the group's variables in declaration order.
func (g *Group) Variables() []*Variable {
	out := make([]*Variable, len(g.vars))
	copy(out, g.vars)
	return out
}

// Variable returns a variable by name, or nil.
func (g *Group) Variable(name string) *Variable { return g.varIndex[name] }

// Groups returns the nested groups in declaration order.
func (g *Group) Groups() []*Group {
	out := make([]*Group, len(g.groups))
	copy(out, g.groups)
	return out
}

// Group returns a nested group by name, or nil.
func (g *Group) Group(name string) *Group { return g.groupIndex[name] }

// EnumTypes returns the enum types declared by this group.
func (g *Group) EnumTypes() []*EnumType {
	out := make([]*EnumType, len(g.enums))
	copy(out, g.enums)
	return out
}

// EnumType returns a declared enum type by name, or nil.
func (g *Group) EnumType(name string) *EnumType { return g.enumIndex[name] }

// LookupVariable resolves a slash-separated path to a variable,
// relative to this group.
func (g *Group) LookupVariable(path string) (*Variable, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("%w: empty variable path", ErrNotFound)
	}
	current := g
	for _, name := range parts[:len(parts)-1] {
		next := current.Group(name)
		if next == nil {
			return nil, fmt.Errorf("%w: group %q in %q", ErrNotFound, name, path)
		}
		current = next
	}
	v := current.Variable(parts[len(parts)-1])
	if v == nil {
		return nil, fmt.Errorf("%w: variable %q", ErrNotFound, path)
	}
	return v, nil
}

// findDimension resolves a named dimension against this group and its
// ancestors.
func (g *Group) findDimension(name string) *Dimension {
	for cur := g; cur != nil; cur = cur.parent {
		if d := cur.dimIndex[name]; d != nil {
			return d
		}
	}
	return nil
}

// findEnumType resolves a named enum type against this group and its
// ancestors.
func (g *Group) findEnumType(name string) *EnumType {
	for cur := g; cur != nil; cur = cur.parent {
		if e := cur.enumIndex[name]; e != nil {
			return e
		}
	}
	return nil
}

// populate fills the group from one decoded header group node,
// recursing into nested groups. Any failure aborts construction; no
// partially built tree is exposed.
func (g *Group) populate(pg *ncproto.Group) error {
	for _, pd := range pg.Dims {
		dim := &Dimension{
			name:      pd.Name,
			size:      int(pd.Length),
			unlimited: pd.IsUnlimited,
			private:   pd.IsPrivate,
			vlen:      pd.IsVlen,
		}
		if dim.vlen {
			dim.size = 0
		}
		g.dims = append(g.dims, dim)
		if dim.name != "" {
			g.dimIndex[dim.name] = dim
		}
	}

	for _, pe := range pg.EnumTypes {
		enum := &EnumType{name: pe.Name, codes: make(map[int]string, len(pe.Map))}
		for _, entry := range pe.Map {
			enum.codes[int(entry.Code)] = entry.Value
		}
		g.enums = append(g.enums, enum)
		g.enumIndex[enum.name] = enum
	}

	for _, pa := range pg.Atts {
		name, value, err := ncproto.UnpackAttribute(pa, g.logger())
		if err != nil {
			return fmt.Errorf("group %q: %w", g.Path(), err)
		}
		g.attrs.add(name, value)
	}

	for _, pv := range pg.Vars {
		v, err := g.newVariable(pv)
		if err != nil {
			return err
		}
		g.vars = append(g.vars, v)
		g.varIndex[v.name] = v
	}

	// Structures and sequences are variables whose datatype encodes
	// the composite kind.
	for _, ps := range pg.Structs {
		v, err := g.newStructVariable(ps)
		if err != nil {
			return err
		}
		g.vars = append(g.vars, v)
		g.varIndex[v.name] = v
	}

	for _, pc := range pg.Groups {
		child := newGroup(pc.Name, g, g.dataset)
		if err := child.populate(pc); err != nil {
			return err
		}
		g.groups = append(g.groups, child)
		g.groupIndex[child.name] = child
	}

	return nil
}
