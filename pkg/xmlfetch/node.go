package xmlfetch

import (
	"encoding/xml"
	"strings"
)

// Node is one element of a parsed XML document.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []*Node    `xml:",any"`
}

// Name returns the local element name.
func (n *Node) Name() string {
	return n.XMLName.Local
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Content returns the element's character data with surrounding
// whitespace removed.
func (n *Node) Content() string {
	return strings.TrimSpace(n.Text)
}

// Child returns the first direct child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// ChildText returns the content of the first direct child with the given
// name, or "" when there is none.
func (n *Node) ChildText(name string) string {
	if c := n.Child(name); c != nil {
		return c.Content()
	}
	return ""
}

// Find returns the first element named name in depth-first document order,
// including n itself, or nil.
func (n *Node) Find(name string) *Node {
	if n.Name() == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Iter returns every element named name in document order, including n
// itself when it matches.
func (n *Node) Iter(name string) []*Node {
	var out []*Node
	n.walk(func(el *Node) {
		if el.Name() == name {
			out = append(out, el)
		}
	})
	return out
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

// RequireChild returns the named direct child or a *SchemaError.
func (n *Node) RequireChild(name string) (*Node, error) {
	c := n.Child(name)
	if c == nil {
		return nil, &SchemaError{Element: n.Name(), Field: name}
	}
	return c, nil
}

// RequireAttr returns the named attribute or a *SchemaError.
func (n *Node) RequireAttr(name string) (string, error) {
	v, ok := n.Attr(name)
	if !ok {
		return "", &SchemaError{Element: n.Name(), Field: "@" + name}
	}
	return v, nil
}

// Parse decodes a complete XML document into a tree.
func Parse(data []byte) (*Node, error) {
	var root Node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return &root, nil
}
