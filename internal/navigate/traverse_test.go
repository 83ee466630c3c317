package navigate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expocli/expocli/internal/xmltree"
)

const menuXML = `<breakfast_menu>
  <food>
    <name>Belgian Waffles</name>
    <price>5.95</price>
    <calories>650</calories>
  </food>
  <food>
    <name>Strawberry Waffles</name>
    <price>7.95</price>
    <calories>900</calories>
  </food>
  <food>
    <name>Berry-Berry Waffles</name>
    <price>8.95</price>
    <calories>900</calories>
  </food>
</breakfast_menu>`

func mustParse(t *testing.T, src, path string) *xmltree.Document {
	t.Helper()
	doc, err := xmltree.Parse(strings.NewReader(src), path)
	require.NoError(t, err)
	return doc
}

func TestFindPartialPaths(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")

	t.Run("suffix match", func(t *testing.T) {
		matches := FindPartialPaths(doc.Container, []string{"food", "name"})
		require.Len(t, matches, 3)
		assert.Equal(t, "Belgian Waffles", matches[0].Text)
		assert.Equal(t, "Strawberry Waffles", matches[1].Text)
		assert.Equal(t, "Berry-Berry Waffles", matches[2].Text)
	})

	t.Run("full path", func(t *testing.T) {
		matches := FindPartialPaths(doc.Container, []string{"breakfast_menu", "food", "price"})
		assert.Len(t, matches, 3)
	})

	t.Run("single component", func(t *testing.T) {
		matches := FindPartialPaths(doc.Container, []string{"calories"})
		assert.Len(t, matches, 3)
	})

	t.Run("root element is a candidate", func(t *testing.T) {
		matches := FindPartialPaths(doc.Container, []string{"breakfast_menu"})
		require.Len(t, matches, 1)
		assert.Equal(t, doc.Root(), matches[0])
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FindPartialPaths(doc.Container, []string{"food", "vitamin"}))
		assert.Empty(t, FindPartialPaths(doc.Container, []string{"name", "food"}))
	})

	t.Run("empty components match nothing", func(t *testing.T) {
		assert.Empty(t, FindPartialPaths(doc.Container, nil))
	})
}

func TestFindPartialPathsDepths(t *testing.T) {
	// The same suffix occurs at two different absolute depths.
	doc := mustParse(t, `<r><b><c>one</c></b><x><b><c>two</c></b></x></r>`, "d.xml")
	matches := FindPartialPaths(doc.Container, []string{"b", "c"})
	require.Len(t, matches, 2)
	assert.Equal(t, "one", matches[0].Text)
	assert.Equal(t, "two", matches[1].Text)
}

func TestCountMatchingPaths(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")
	assert.Equal(t, 3, CountMatchingPaths(doc.Container, []string{"food", "name"}))
	assert.Equal(t, 1, CountMatchingPaths(doc.Container, []string{"breakfast_menu"}))
	assert.Equal(t, 0, CountMatchingPaths(doc.Container, []string{"drink"}))
}

func TestFindFirstElement(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")

	t.Run("first in document order", func(t *testing.T) {
		n := FindFirstElement(doc.Container, "name")
		require.NotNil(t, n)
		assert.Equal(t, "Belgian Waffles", n.Text)
	})

	t.Run("relative to a subtree", func(t *testing.T) {
		second := doc.Root().Children[1]
		n := FindFirstElement(second, "name")
		require.NotNil(t, n)
		assert.Equal(t, "Strawberry Waffles", n.Text)
	})

	t.Run("start node is excluded", func(t *testing.T) {
		food := doc.Root().Children[0]
		assert.Nil(t, FindFirstElement(food, "food"))
	})

	t.Run("absent", func(t *testing.T) {
		assert.Nil(t, FindFirstElement(doc.Container, "drink"))
	})
}

func TestCollectElements(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")
	foods := CollectElements(doc.Container, "food")
	require.Len(t, foods, 3)
	for _, f := range foods {
		assert.Equal(t, doc.Root(), f.Parent)
	}
	assert.Empty(t, CollectElements(doc.Container, "drink"))
}
