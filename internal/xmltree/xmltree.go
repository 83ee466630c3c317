// Package xmltree models XML files as element trees for path navigation.
// Only elements and their character data are kept; attributes, comments,
// and processing instructions are discarded at parse time because the query
// language addresses elements.
package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element of a parsed document.
type Node struct {
	// Name is the element's local name; namespace prefixes are dropped.
	Name string
	// Text is the concatenated, whitespace-trimmed character data placed
	// directly under the element (not under its children).
	Text     string
	Parent   *Node
	Children []*Node
	// Ordinal is the node's document-order index, assigned in pre-order
	// during parse. The container node holds 0.
	Ordinal uint32
}

// Document is one parsed file. Container is a synthetic node whose children
// are the document's top-level elements; searches that must consider the
// root element itself as a candidate start at the container.
type Document struct {
	Path      string
	Container *Node
}

// Root returns the first top-level element.
func (d *Document) Root() *Node {
	if len(d.Container.Children) == 0 {
		return nil
	}
	return d.Container.Children[0]
}

// Parse builds a Document from XML text. Malformed input and input with no
// elements are errors; a Document is never partially returned.
func Parse(r io.Reader, path string) (*Document, error) {
	dec := xml.NewDecoder(r)
	container := &Node{}
	cur := container
	var ordinal uint32

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			ordinal++
			child := &Node{Name: t.Name.Local, Parent: cur, Ordinal: ordinal}
			cur.Children = append(cur.Children, child)
			cur = child
		case xml.EndElement:
			cur.Text = strings.TrimSpace(cur.Text)
			cur = cur.Parent
		case xml.CharData:
			if cur != container {
				cur.Text += string(t)
			}
		}
	}
	if cur != container {
		return nil, fmt.Errorf("parse %s: unexpected end of input", path)
	}
	if len(container.Children) == 0 {
		return nil, fmt.Errorf("parse %s: no root element", path)
	}
	return &Document{Path: path, Container: container}, nil
}
