// Package document builds ordered key-value documents with nested children
// and renders them as bracketed (JSON-like) or YAML-indented text.
package document

import (
	"strconv"
)

// Property is one key-value pair of a Document
type Property struct {
	Key   string
	Value string
}

// Document is an ordered property list with exclusively owned children.
// Property keys are unique within one document.
type Document struct {
	Name     string
	props    []Property
	children []*Document
}

// New creates an empty document with an optional name
func New(name string) *Document {
	return &Document{Name: name}
}

// AddString sets key to value, replacing an existing key in place
func (d *Document) AddString(key, value string) {
	for i := range d.props {
		if d.props[i].Key == key {
			d.props[i].Value = value
			return
		}
	}
	d.props = append(d.props, Property{Key: key, Value: value})
}

// AddInt sets key to the decimal form of v
func (d *Document) AddInt(key string, v int64) {
	d.AddString(key, strconv.FormatInt(v, 10))
}

// AddFloat sets key to v with six decimals
func (d *Document) AddFloat(key string, v float64) {
	d.AddString(key, strconv.FormatFloat(v, 'f', 6, 64))
}

// AddChild appends a deep copy of child. Returns false for a nil child.
func (d *Document) AddChild(child *Document) bool {
	if child == nil {
		return false
	}
	d.children = append(d.children, child.Clone())
	return true
}

// RemoveProperty removes key if present
func (d *Document) RemoveProperty(key string) {
	for i := range d.props {
		if d.props[i].Key == key {
			d.props = append(d.props[:i], d.props[i+1:]...)
			return
		}
	}
}

// Get returns the value of key
func (d *Document) Get(key string) (string, bool) {
	for _, p := range d.props {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Properties returns a copy of the property list
func (d *Document) Properties() []Property {
	out := make([]Property, len(d.props))
	copy(out, d.props)
	return out
}

// Children returns the child documents. They remain owned by d.
func (d *Document) Children() []*Document {
	return d.children
}

// Child returns the first child with the given name
func (d *Document) Child(name string) (*Document, bool) {
	for _, c := range d.children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ChildCount returns the number of children
func (d *Document) ChildCount() int {
	return len(d.children)
}

// Clear empties the name and properties and releases all children
func (d *Document) Clear() {
	d.Name = ""
	d.props = nil
	for _, c := range d.children {
		c.Clear()
	}
	d.children = nil
}

// IsEmpty reports whether d has no name, properties or children
func (d *Document) IsEmpty() bool {
	return d.Equal(&Document{})
}

// Clone returns a deep copy
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Name: d.Name}
	if len(d.props) > 0 {
		out.props = make([]Property, len(d.props))
		copy(out.props, d.props)
	}
	if len(d.children) > 0 {
		out.children = make([]*Document, len(d.children))
		for i, c := range d.children {
			out.children[i] = c.Clone()
		}
	}
	return out
}

// Equal compares name, ordered properties and children recursively
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Name != other.Name || len(d.props) != len(other.props) ||
		len(d.children) != len(other.children) {
		return false
	}
	for i := range d.props {
		if d.props[i] != other.props[i] {
			return false
		}
	}
	for i := range d.children {
		if !d.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}
