package ncstream

import "errors"

// WalkFunc is called for each object during traversal. obj is either
// *Group or *Variable. Return ErrStopWalk to stop without error, or
// any other error to abort.
type WalkFunc func(path string, obj interface{}) error

// ErrStopWalk stops a walk early without reporting an error.
var ErrStopWalk = errors.New("walk stopped")

// Walk traverses the populated tree starting from g: the group itself,
// its variables, then nested groups recursively.
//
// Example:
//
//	ncstream.Walk(ds.Group, func(path string, obj interface{}) error {
//	    if v, ok := obj.(*ncstream.Variable); ok {
//	        fmt.Println(path, v.Shape())
//	    }
//	    return nil
//	})
func Walk(g *Group, fn WalkFunc) error {
	err := walkGroup(g, fn)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func walkGroup(g *Group, fn WalkFunc) error {
	if err := fn(g.Path(), g); err != nil {
		return err
	}
	for _, v := range g.vars {
		if err := fn(v.Path(), v); err != nil {
			return err
		}
	}
	for _, child := range g.groups {
		if err := walkGroup(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// AttrInfo describes one attribute during an attribute walk.
type AttrInfo struct {
	// Path is "objectPath@name".
	Path string

	// ObjectPath is the path of the owning group or variable.
	ObjectPath string

	// ObjectType is "group" or "variable".
	ObjectType string

	// Name is the attribute name.
	Name string

	// Value is the decoded attribute value.
	Value interface{}
}

// WalkAttrsFunc is the callback type for WalkAttrs.
type WalkAttrsFunc func(info AttrInfo) error

// WalkAttrs visits every attribute on every group and variable under g.
func WalkAttrs(g *Group, fn WalkAttrsFunc) error {
	err := walkGroupAttrs(g, fn)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func walkGroupAttrs(g *Group, fn WalkAttrsFunc) error {
	for _, name := range g.attrs.Names() {
		value, _ := g.attrs.Get(name)
		info := AttrInfo{
			Path:       g.Path() + "@" + name,
			ObjectPath: g.Path(),
			ObjectType: "group",
			Name:       name,
			Value:      value,
		}
		if err := fn(info); err != nil {
			return err
		}
	}
	for _, v := range g.vars {
		for _, name := range v.attrs.Names() {
			value, _ := v.attrs.Get(name)
			info := AttrInfo{
				Path:       v.Path() + "@" + name,
				ObjectPath: v.Path(),
				ObjectType: "variable",
				Name:       name,
				Value:      value,
			}
			if err := fn(info); err != nil {
				return err
			}
		}
	}
	for _, child := range g.groups {
		if err := walkGroupAttrs(child, fn); err != nil {
			return err
		}
	}
	return nil
}
