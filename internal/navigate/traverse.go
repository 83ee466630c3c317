// Package navigate implements tree navigation over parsed documents:
// partial (suffix) path matching, first-element lookup, field resolution,
// and WHERE-tree evaluation.
package navigate

import (
	"github.com/expocli/expocli/internal/xmltree"
)

// FindPartialPaths returns every descendant of start, in document order,
// whose ancestor chain reproduces the component sequence ending at the node
// itself. Any depth above the first component is acceptable. An empty
// component list matches nothing.
func FindPartialPaths(start *xmltree.Node, components []string) []*xmltree.Node {
	if len(components) == 0 {
		return nil
	}
	var matches []*xmltree.Node
	stack := childStack(nil, start)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if matchesSuffix(n, components) {
			matches = append(matches, n)
		}
		stack = childStack(stack, n)
	}
	return matches
}

// CountMatchingPaths reports how many nodes FindPartialPaths would return.
// More than one match for a 2+ component path means the projection is
// structurally ambiguous.
func CountMatchingPaths(start *xmltree.Node, components []string) int {
	return len(FindPartialPaths(start, components))
}

// FindFirstElement returns the first descendant of start, depth-first in
// document order, whose name equals name. start itself is never returned.
func FindFirstElement(start *xmltree.Node, name string) *xmltree.Node {
	stack := childStack(nil, start)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Name == name {
			return n
		}
		stack = childStack(stack, n)
	}
	return nil
}

// Descendants returns every descendant of start in document order. The
// shorthand WHERE strategy walks these as candidate evaluation contexts.
func Descendants(start *xmltree.Node) []*xmltree.Node {
	var nodes []*xmltree.Node
	stack := childStack(nil, start)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes = append(nodes, n)
		stack = childStack(stack, n)
	}
	return nodes
}

// CollectElements returns every descendant of start named name, in document
// order.
func CollectElements(start *xmltree.Node, name string) []*xmltree.Node {
	var matches []*xmltree.Node
	stack := childStack(nil, start)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Name == name {
			matches = append(matches, n)
		}
		stack = childStack(stack, n)
	}
	return matches
}

// childStack pushes n's children in reverse so the leftmost child pops
// first, giving pre-order document-order traversal.
func childStack(stack []*xmltree.Node, n *xmltree.Node) []*xmltree.Node {
	for i := len(n.Children) - 1; i >= 0; i-- {
		stack = append(stack, n.Children[i])
	}
	return stack
}

// matchesSuffix reports whether walking up from n reproduces components,
// last component at n itself.
func matchesSuffix(n *xmltree.Node, components []string) bool {
	cur := n
	for i := len(components) - 1; i >= 0; i-- {
		if cur == nil || cur.Name != components[i] {
			return false
		}
		cur = cur.Parent
	}
	return true
}
