package ncproto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// The Unmarshal* functions below walk the raw protobuf wire format of
// one message body each. Unknown fields are skipped so that newer
// servers with extended schemas still decode.

func consumeBytes(b []byte, field string) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return nil, 0, fmt.Errorf("%s: %w", field, protowire.ParseError(n))
	}
	return v, n, nil
}

func consumeString(b []byte, field string) (string, int, error) {
	v, n, err := consumeBytes(b, field)
	return string(v), n, err
}

func consumeVarint(b []byte, field string) (uint64, int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, 0, fmt.Errorf("%s: %w", field, protowire.ParseError(n))
	}
	return v, n, nil
}

func skipField(b []byte, num protowire.Number, typ protowire.Type, msg string) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, fmt.Errorf("%s: field %d: %w", msg, num, protowire.ParseError(n))
	}
	return n, nil
}

// UnmarshalHeader decodes a Header message body.
func UnmarshalHeader(b []byte) (*Header, error) {
	h := &Header{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("header: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			h.Location, n, err = consumeString(b, "header.location")
		case 2:
			h.Title, n, err = consumeString(b, "header.title")
		case 3:
			h.ID, n, err = consumeString(b, "header.id")
		case 4:
			var body []byte
			body, n, err = consumeBytes(b, "header.root")
			if err == nil {
				h.Root, err = UnmarshalGroup(body)
			}
		case 5:
			var v uint64
			v, n, err = consumeVarint(b, "header.version")
			h.Version = uint32(v)
		default:
			n, err = skipField(b, num, typ, "header")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return h, nil
}

// UnmarshalGroup decodes a Group message body, recursing into nested
// groups.
func UnmarshalGroup(b []byte) (*Group, error) {
	g := &Group{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("group: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			g.Name, n, err = consumeString(b, "group.name")
		case 2:
			var body []byte
			body, n, err = consumeBytes(b, "group.dims")
			if err == nil {
				var dim *Dimension
				dim, err = UnmarshalDimension(body)
				g.Dims = append(g.Dims, dim)
			}
		case 3:
			var body []byte
			body, n, err = consumeBytes(b, "group.vars")
			if err == nil {
				var v *Variable
				v, err = UnmarshalVariable(body)
				g.Vars = append(g.Vars, v)
			}
		case 4:
			var body []byte
			body, n, err = consumeBytes(b, "group.structs")
			if err == nil {
				var s *Structure
				s, err = UnmarshalStructure(body)
				g.Structs = append(g.Structs, s)
			}
		case 5:
			var body []byte
			body, n, err = consumeBytes(b, "group.atts")
			if err == nil {
				var a *Attribute
				a, err = UnmarshalAttribute(body)
				g.Atts = append(g.Atts, a)
			}
		case 6:
			var body []byte
			body, n, err = consumeBytes(b, "group.groups")
			if err == nil {
				var child *Group
				child, err = UnmarshalGroup(body)
				g.Groups = append(g.Groups, child)
			}
		case 7:
			var body []byte
			body, n, err = consumeBytes(b, "group.enumTypes")
			if err == nil {
				var e *EnumTypedef
				e, err = UnmarshalEnumTypedef(body)
				g.EnumTypes = append(g.EnumTypes, e)
			}
		default:
			n, err = skipField(b, num, typ, "group")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return g, nil
}

// UnmarshalDimension decodes a Dimension message body.
func UnmarshalDimension(b []byte) (*Dimension, error) {
	d := &Dimension{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("dimension: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		var v uint64
		switch num {
		case 1:
			d.Name, n, err = consumeString(b, "dimension.name")
		case 2:
			d.Length, n, err = consumeVarint(b, "dimension.length")
		case 3:
			v, n, err = consumeVarint(b, "dimension.isUnlimited")
			d.IsUnlimited = v != 0
		case 4:
			v, n, err = consumeVarint(b, "dimension.isVlen")
			d.IsVlen = v != 0
		case 5:
			v, n, err = consumeVarint(b, "dimension.isPrivate")
			d.IsPrivate = v != 0
		default:
			n, err = skipField(b, num, typ, "dimension")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return d, nil
}

// UnmarshalVariable decodes a Variable message body.
func UnmarshalVariable(b []byte) (*Variable, error) {
	v := &Variable{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("variable: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			v.Name, n, err = consumeString(b, "variable.name")
		case 2:
			var code uint64
			code, n, err = consumeVarint(b, "variable.dataType")
			v.DataType = DataType(code)
		case 3:
			var body []byte
			body, n, err = consumeBytes(b, "variable.shape")
			if err == nil {
				var dim *Dimension
				dim, err = UnmarshalDimension(body)
				v.Shape = append(v.Shape, dim)
			}
		case 4:
			var body []byte
			body, n, err = consumeBytes(b, "variable.atts")
			if err == nil {
				var a *Attribute
				a, err = UnmarshalAttribute(body)
				v.Atts = append(v.Atts, a)
			}
		case 5:
			var flag uint64
			flag, n, err = consumeVarint(b, "variable.unsigned")
			v.Unsigned = flag != 0
		case 6:
			v.Data, n, err = consumeBytes(b, "variable.data")
		case 7:
			v.EnumType, n, err = consumeString(b, "variable.enumType")
		default:
			n, err = skipField(b, num, typ, "variable")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return v, nil
}

// UnmarshalStructure decodes a Structure message body.
func UnmarshalStructure(b []byte) (*Structure, error) {
	s := &Structure{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("structure: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			s.Name, n, err = consumeString(b, "structure.name")
		case 2:
			var code uint64
			code, n, err = consumeVarint(b, "structure.dataType")
			s.DataType = DataType(code)
		case 3:
			var body []byte
			body, n, err = consumeBytes(b, "structure.shape")
			if err == nil {
				var dim *Dimension
				dim, err = UnmarshalDimension(body)
				s.Shape = append(s.Shape, dim)
			}
		case 4:
			var body []byte
			body, n, err = consumeBytes(b, "structure.atts")
			if err == nil {
				var a *Attribute
				a, err = UnmarshalAttribute(body)
				s.Atts = append(s.Atts, a)
			}
		case 5:
			var body []byte
			body, n, err = consumeBytes(b, "structure.vars")
			if err == nil {
				var v *Variable
				v, err = UnmarshalVariable(body)
				s.Vars = append(s.Vars, v)
			}
		case 6:
			var body []byte
			body, n, err = consumeBytes(b, "structure.structs")
			if err == nil {
				var nested *Structure
				nested, err = UnmarshalStructure(body)
				s.Structs = append(s.Structs, nested)
			}
		default:
			n, err = skipField(b, num, typ, "structure")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return s, nil
}

// UnmarshalEnumTypedef decodes an EnumTypedef message body.
func UnmarshalEnumTypedef(b []byte) (*EnumTypedef, error) {
	e := &EnumTypedef{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("enumTypedef: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			e.Name, n, err = consumeString(b, "enumTypedef.name")
		case 2:
			var body []byte
			body, n, err = consumeBytes(b, "enumTypedef.map")
			if err == nil {
				var entry EnumEntry
				entry, err = unmarshalEnumEntry(body)
				e.Map = append(e.Map, entry)
			}
		default:
			n, err = skipField(b, num, typ, "enumTypedef")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return e, nil
}

func unmarshalEnumEntry(b []byte) (EnumEntry, error) {
	var entry EnumEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return entry, fmt.Errorf("enumType: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var code uint64
			code, n, err = consumeVarint(b, "enumType.code")
			entry.Code = uint32(code)
		case 2:
			entry.Value, n, err = consumeString(b, "enumType.value")
		default:
			n, err = skipField(b, num, typ, "enumType")
		}
		if err != nil {
			return entry, err
		}
		b = b[n:]
	}
	return entry, nil
}

// UnmarshalAttribute decodes an Attribute message body.
func UnmarshalAttribute(b []byte) (*Attribute, error) {
	a := &Attribute{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("attribute: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			a.Name, n, err = consumeString(b, "attribute.name")
		case 2:
			var code uint64
			code, n, err = consumeVarint(b, "attribute.type")
			a.Type = AttrType(code)
		case 3:
			var v uint64
			v, n, err = consumeVarint(b, "attribute.len")
			a.Len = uint32(v)
		case 4:
			a.Data, n, err = consumeBytes(b, "attribute.data")
		case 5:
			var s string
			s, n, err = consumeString(b, "attribute.sdata")
			a.Sdata = append(a.Sdata, s)
		case 6:
			var flag uint64
			flag, n, err = consumeVarint(b, "attribute.unsigned")
			a.Unsigned = flag != 0
		default:
			n, err = skipField(b, num, typ, "attribute")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return a, nil
}

// UnmarshalData decodes a Data envelope body. BigEnd defaults to true
// when the field is absent, matching the schema default.
func UnmarshalData(b []byte) (*Data, error) {
	d := &Data{BigEnd: true}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("data: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		var v uint64
		switch num {
		case 1:
			d.VarName, n, err = consumeString(b, "data.varName")
		case 2:
			v, n, err = consumeVarint(b, "data.dataType")
			d.DataType = DataType(v)
		case 3:
			var body []byte
			body, n, err = consumeBytes(b, "data.section")
			if err == nil {
				d.Section, err = unmarshalSection(body)
			}
		case 4:
			v, n, err = consumeVarint(b, "data.bigend")
			d.BigEnd = v != 0
		case 5:
			v, n, err = consumeVarint(b, "data.version")
			d.Version = uint32(v)
		case 6:
			v, n, err = consumeVarint(b, "data.compress")
			d.Compress = Compress(v)
		case 7:
			v, n, err = consumeVarint(b, "data.vdata")
			d.VData = v != 0
		case 8:
			v, n, err = consumeVarint(b, "data.uncompressedSize")
			d.UncompressedSize = uint32(v)
		default:
			n, err = skipField(b, num, typ, "data")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return d, nil
}

func unmarshalSection(b []byte) (*Section, error) {
	s := &Section{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("section: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			var body []byte
			body, n, err = consumeBytes(b, "section.range")
			if err == nil {
				var r *Range
				r, err = unmarshalRange(body)
				s.Ranges = append(s.Ranges, r)
			}
		default:
			n, err = skipField(b, num, typ, "section")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return s, nil
}

func unmarshalRange(b []byte) (*Range, error) {
	r := &Range{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("range: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			r.Start, n, err = consumeVarint(b, "range.start")
		case 2:
			r.Size, n, err = consumeVarint(b, "range.size")
		case 3:
			r.Stride, n, err = consumeVarint(b, "range.stride")
		default:
			n, err = skipField(b, num, typ, "range")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return r, nil
}

// UnmarshalError decodes an Error message body.
func UnmarshalError(b []byte) (*Error, error) {
	e := &Error{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("error: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			e.Message, n, err = consumeString(b, "error.message")
		default:
			n, err = skipField(b, num, typ, "error")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return e, nil
}

// UnmarshalStructureData decodes one StructureData record body.
func UnmarshalStructureData(b []byte) (*StructureData, error) {
	sd := &StructureData{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("structureData: %w", protowire.ParseError(n))
		}
		b = b[n:]
		var err error
		switch num {
		case 1:
			if typ == protowire.BytesType {
				var body []byte
				body, n, err = consumeBytes(b, "structureData.member")
				for err == nil && len(body) > 0 {
					v, m := protowire.ConsumeVarint(body)
					if m < 0 {
						err = fmt.Errorf("structureData.member: %w", protowire.ParseError(m))
						break
					}
					sd.Members = append(sd.Members, uint32(v))
					body = body[m:]
				}
			} else {
				var v uint64
				v, n, err = consumeVarint(b, "structureData.member")
				sd.Members = append(sd.Members, uint32(v))
			}
		case 2:
			sd.Data, n, err = consumeBytes(b, "structureData.data")
		case 3:
			if typ == protowire.BytesType {
				var body []byte
				body, n, err = consumeBytes(b, "structureData.shape")
				for err == nil && len(body) > 0 {
					v, m := protowire.ConsumeVarint(body)
					if m < 0 {
						err = fmt.Errorf("structureData.shape: %w", protowire.ParseError(m))
						break
					}
					sd.Shape = append(sd.Shape, uint32(v))
					body = body[m:]
				}
			} else {
				var v uint64
				v, n, err = consumeVarint(b, "structureData.shape")
				sd.Shape = append(sd.Shape, uint32(v))
			}
		case 4:
			sd.NRows, n, err = consumeVarint(b, "structureData.nrows")
		default:
			n, err = skipField(b, num, typ, "structureData")
		}
		if err != nil {
			return nil, err
		}
		b = b[n:]
	}
	return sd, nil
}
