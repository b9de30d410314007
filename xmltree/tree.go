package xmltree

import (
	"encoding/xml"
	"strings"
)

// Document is a parsed XML document. It is immutable once returned by Parse.
type Document struct {
	root      *Element
	procInsts []xml.ProcInst
}

// Root returns the document element.
func (d *Document) Root() *Element {
	return d.root
}

// ProcInsts returns the processing instructions that precede the root,
// including the XML declaration.
func (d *Document) ProcInsts() []xml.ProcInst {
	out := make([]xml.ProcInst, len(d.procInsts))
	copy(out, d.procInsts)
	return out
}

// Element is a node of the tree.
type Element struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*Element
	text     strings.Builder
}

// Name returns the element name with its resolved namespace URI.
func (e *Element) Name() xml.Name {
	return e.name
}

// Attrs returns a copy of the element's attributes in document order.
func (e *Element) Attrs() []xml.Attr {
	out := make([]xml.Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// Attr returns the value of the first attribute with the given local name.
func (e *Element) Attr(local string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Children returns a copy of the child elements in document order.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// Child returns the first child element with the given local name.
func (e *Element) Child(local string) *Element {
	for _, c := range e.children {
		if c.name.Local == local {
			return c
		}
	}
	return nil
}

// Text returns the element's own character data, concatenated in document
// order. Text of descendant elements is not included.
func (e *Element) Text() string {
	return e.text.String()
}

// Find walks a slash-separated path of local names starting at e's children.
// An empty path returns e.
func (e *Element) Find(path string) *Element {
	cur := e
	for _, step := range strings.Split(path, "/") {
		if step == "" {
			continue
		}
		cur = cur.Child(step)
		if cur == nil {
			return nil
		}
	}
	return cur
}
