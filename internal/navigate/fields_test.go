package navigate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expocli/expocli/api"
)

func TestResolveField(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")
	firstFood := doc.Root().Children[0]

	t.Run("single component", func(t *testing.T) {
		v, ok := ResolveField(firstFood, []string{"name"})
		assert.True(t, ok)
		assert.Equal(t, "Belgian Waffles", v)
	})

	t.Run("multi component first match", func(t *testing.T) {
		v, ok := ResolveField(doc.Container, []string{"food", "price"})
		assert.True(t, ok)
		assert.Equal(t, "5.95", v)
	})

	t.Run("absent", func(t *testing.T) {
		v, ok := ResolveField(firstFood, []string{"vitamin"})
		assert.False(t, ok)
		assert.Equal(t, "", v)
	})

	t.Run("empty components", func(t *testing.T) {
		_, ok := ResolveField(firstFood, nil)
		assert.False(t, ok)
	})

	t.Run("present with empty text", func(t *testing.T) {
		d := mustParse(t, `<r><note></note></r>`, "n.xml")
		v, ok := ResolveField(d.Container, []string{"note"})
		assert.True(t, ok)
		assert.Equal(t, "", v)
	})
}

func TestExtractField(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")

	t.Run("synthetic filename", func(t *testing.T) {
		v, ok := ExtractField(doc.Container, api.FieldPath{IncludeFilename: true}, "menu.xml")
		assert.True(t, ok)
		assert.Equal(t, "menu.xml", v)
	})

	t.Run("tree lookup", func(t *testing.T) {
		v, ok := ExtractField(doc.Container, api.FieldPath{Components: []string{"food", "name"}}, "menu.xml")
		assert.True(t, ok)
		assert.Equal(t, "Belgian Waffles", v)
	})
}

func TestCollectValues(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")

	t.Run("single component collects all", func(t *testing.T) {
		values := CollectValues(doc, api.FieldPath{Components: []string{"name"}})
		require.Len(t, values, 3)
		assert.Equal(t, []string{"Belgian Waffles", "Strawberry Waffles", "Berry-Berry Waffles"}, values)
	})

	t.Run("multi component collects all", func(t *testing.T) {
		values := CollectValues(doc, api.FieldPath{Components: []string{"food", "price"}})
		assert.Equal(t, []string{"5.95", "7.95", "8.95"}, values)
	})

	t.Run("synthetic filename yields one entry", func(t *testing.T) {
		values := CollectValues(doc, api.FieldPath{IncludeFilename: true})
		assert.Equal(t, []string{"menu.xml"}, values)
	})

	t.Run("absent field yields none", func(t *testing.T) {
		assert.Empty(t, CollectValues(doc, api.FieldPath{Components: []string{"vitamin"}}))
	})
}
