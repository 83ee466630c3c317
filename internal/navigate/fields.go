package navigate

import (
	"github.com/expocli/expocli/api"
	"github.com/expocli/expocli/internal/xmltree"
)

// ResolveField resolves a component sequence relative to node and returns
// the matched element's text. The boolean distinguishes an absent field
// from one present with empty text; null checks depend on that distinction.
// Single-component paths use first-element lookup, longer paths use partial
// matching and take the first match in document order.
func ResolveField(node *xmltree.Node, components []string) (string, bool) {
	switch len(components) {
	case 0:
		return "", false
	case 1:
		if n := FindFirstElement(node, components[0]); n != nil {
			return n.Text, true
		}
		return "", false
	default:
		if matches := FindPartialPaths(node, components); len(matches) > 0 {
			return matches[0].Text, true
		}
		return "", false
	}
}

// ExtractField resolves one select field relative to node. The synthetic
// source-identifier field yields filePath without touching the tree.
func ExtractField(node *xmltree.Node, field api.FieldPath, filePath string) (string, bool) {
	if field.IncludeFilename {
		return filePath, true
	}
	return ResolveField(node, field.Components)
}

// CollectValues extracts every value a field matches across the whole
// document, in document order. Plain projection builds its parallel value
// lists from this. The synthetic source-identifier field contributes
// exactly one entry.
func CollectValues(doc *xmltree.Document, field api.FieldPath) []string {
	if field.IncludeFilename {
		return []string{doc.Path}
	}
	var nodes []*xmltree.Node
	switch len(field.Components) {
	case 0:
		return nil
	case 1:
		nodes = CollectElements(doc.Container, field.Components[0])
	default:
		nodes = FindPartialPaths(doc.Container, field.Components)
	}
	values := make([]string, len(nodes))
	for i, n := range nodes {
		values[i] = n.Text
	}
	return values
}
