package ncstream

import (
	"fmt"
	"strconv"
	"strings"
)

// Index is one entry of a variable selection expression. Entries are
// built with the constructors below; negative values count from the
// end of their dimension, as in numpy.
type Index struct {
	kind     indexKind
	at       int
	start    int
	stop     int
	stride   int
	hasStart bool
	hasStop  bool
}

type indexKind int

const (
	idxAll indexKind = iota
	idxAt
	idxSpan
	idxEllipsis
)

// All selects every element along a dimension. The dimension is kept
// in the result.
func All() Index {
	return Index{kind: idxAll}
}

// At selects a single element. The dimension is collapsed away in the
// result.
func At(i int) Index {
	return Index{kind: idxAt, at: i}
}

// Span selects the half-open range [start, stop). The dimension is
// kept even when the range has extent one.
func Span(start, stop int) Index {
	return Index{kind: idxSpan, start: start, stop: stop, stride: 1, hasStart: true, hasStop: true}
}

// SpanStride selects [start, stop) taking every stride-th element.
func SpanStride(start, stop, stride int) Index {
	return Index{kind: idxSpan, start: start, stop: stop, stride: stride, hasStart: true, hasStop: true}
}

// From selects [start, end-of-dimension).
func From(start int) Index {
	return Index{kind: idxSpan, start: start, stride: 1, hasStart: true}
}

// To selects [0, stop).
func To(stop int) Index {
	return Index{kind: idxSpan, stop: stop, stride: 1, hasStop: true}
}

// Step returns a copy of a range entry taking every n-th element.
// It has no effect on scalar and ellipsis entries.
func (ix Index) Step(n int) Index {
	if n == 1 {
		return ix
	}
	switch ix.kind {
	case idxSpan:
		ix.stride = n
	case idxAll:
		ix.kind = idxSpan
		ix.stride = n
	}
	return ix
}

// Ellipsis expands to as many full slices as needed to address the
// remaining dimensions. At most one Ellipsis may appear per selection.
func Ellipsis() Index {
	return Index{kind: idxEllipsis}
}

// section is one fully resolved per-dimension extent: start inclusive,
// stop exclusive, positive stride.
type section struct {
	start  int
	stop   int
	stride int
	full   bool
	scalar bool
}

func (s section) count() int {
	if s.stop <= s.start {
		return 0
	}
	return (s.stop - s.start + s.stride - 1) / s.stride
}

// wire serializes the section in the protocol's compact range syntax.
// The wire upper bound is inclusive, hence the -1 from the half-open
// convention used here.
func (s section) wire() string {
	if s.full {
		return ":"
	}
	if s.scalar {
		return strconv.Itoa(s.start)
	}
	out := fmt.Sprintf("%d:%d", s.start, s.stop-1)
	if s.stride != 1 {
		out += ":" + strconv.Itoa(s.stride)
	}
	return out
}

// varParam builds the var= request parameter for one variable: the
// slash-path, with a parenthesized comma-joined range suffix unless
// the whole selection is full slices.
func varParam(path string, secs []section) string {
	name := strings.TrimPrefix(path, "/")
	allFull := true
	for _, s := range secs {
		if !s.full {
			allFull = false
			break
		}
	}
	if len(secs) == 0 || allFull {
		return name
	}
	parts := make([]string, len(secs))
	for i, s := range secs {
		parts[i] = s.wire()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

// normalizeSelection resolves a selection expression against a
// variable's shape. It returns one section per dimension plus the set
// of dimensions kept (not collapsed) in the result: full and bounded
// slices keep their dimension, scalar indices collapse theirs, and
// vlen dimensions are always dropped.
func normalizeSelection(sel []Index, shape []int, vlen []bool) ([]section, []bool, error) {
	ndim := len(shape)

	expanded, err := expandEllipsis(sel, ndim)
	if err != nil {
		return nil, nil, err
	}
	if len(expanded) > ndim {
		return nil, nil, fmt.Errorf("%w: %d index entries for %d dimensions",
			ErrIndex, len(expanded), ndim)
	}
	for len(expanded) < ndim {
		expanded = append(expanded, All())
	}

	secs := make([]section, ndim)
	keep := make([]bool, ndim)
	for i, ix := range expanded {
		size := shape[i]
		switch ix.kind {
		case idxAll:
			secs[i] = section{start: 0, stop: size, stride: 1, full: true}
			// A vlen dimension has no addressable extent; it is
			// implicitly dropped from the result rank.
			keep[i] = !vlen[i]

		case idxAt:
			if vlen[i] {
				return nil, nil, fmt.Errorf("%w: dimension %d", ErrVlenSlice, i)
			}
			v := ix.at
			if v < 0 {
				v += size
			}
			if v < 0 || v >= size {
				return nil, nil, fmt.Errorf("%w: index %d out of range for dimension %d of size %d",
					ErrIndex, ix.at, i, size)
			}
			secs[i] = section{start: v, stop: v + 1, stride: 1, scalar: true}
			keep[i] = false

		case idxSpan:
			if vlen[i] {
				return nil, nil, fmt.Errorf("%w: dimension %d", ErrVlenSlice, i)
			}
			start := 0
			if ix.hasStart {
				start = ix.start
				if start < 0 {
					start += size
				}
				if start < 0 {
					start = 0
				}
			}
			stop := size
			if ix.hasStop {
				stop = ix.stop
				if stop < 0 {
					stop += size
				}
				// Overshooting stop bounds clamp to the dimension
				// size; "slice to end" requests are permitted.
				if stop > size {
					stop = size
				}
			}
			stride := ix.stride
			if stride == 0 {
				stride = 1
			}
			if stride < 0 {
				return nil, nil, fmt.Errorf("%w: negative stride %d on dimension %d",
					ErrIndex, stride, i)
			}
			if stop <= start {
				return nil, nil, fmt.Errorf("%w: empty range [%d:%d) on dimension %d",
					ErrIndex, start, stop, i)
			}
			secs[i] = section{start: start, stop: stop, stride: stride}
			keep[i] = true

		default:
			return nil, nil, fmt.Errorf("%w: unexpected index entry", ErrIndex)
		}
	}
	return secs, keep, nil
}

// expandEllipsis replaces a single Ellipsis entry with enough full
// slices to make the selection address every dimension.
func expandEllipsis(sel []Index, ndim int) ([]Index, error) {
	pos := -1
	for i, ix := range sel {
		if ix.kind != idxEllipsis {
			continue
		}
		if pos >= 0 {
			return nil, fmt.Errorf("%w: more than one ellipsis", ErrIndex)
		}
		pos = i
	}
	if pos < 0 {
		return sel, nil
	}

	fill := ndim - (len(sel) - 1)
	if fill < 0 {
		return nil, fmt.Errorf("%w: %d index entries for %d dimensions", ErrIndex, len(sel)-1, ndim)
	}
	out := make([]Index, 0, ndim)
	out = append(out, sel[:pos]...)
	for i := 0; i < fill; i++ {
		out = append(out, All())
	}
	out = append(out, sel[pos+1:]...)
	return out, nil
}

// isNoop reports whether a selection is the no-op form: empty, or a
// single All/Ellipsis entry.
func isNoop(sel []Index) bool {
	if len(sel) == 0 {
		return true
	}
	if len(sel) != 1 {
		return false
	}
	return sel[0].kind == idxAll || sel[0].kind == idxEllipsis
}
