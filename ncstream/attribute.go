package ncstream

// AttributeContainer is an ordered name→value mapping of decoded
// attributes. A value is either a scalar or a homogeneous slice; a
// single-element list collapses to a scalar at decode time.
type AttributeContainer struct {
	names  []string
	values map[string]interface{}
}

func newAttributeContainer() *AttributeContainer {
	return &AttributeContainer{values: make(map[string]interface{})}
}

func (c *AttributeContainer) add(name string, value interface{}) {
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = value
}

// Names returns the attribute names in declaration order.
func (c *AttributeContainer) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns the value of a named attribute.
func (c *AttributeContainer) Get(name string) (interface{}, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Has reports whether a named attribute exists.
func (c *AttributeContainer) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Len returns the number of attributes.
func (c *AttributeContainer) Len() int {
	return len(c.names)
}
