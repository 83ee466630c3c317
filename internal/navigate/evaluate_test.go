package navigate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expocli/expocli/api"
)

func cond(op api.ComparisonOp, literal string, numeric bool, components ...string) *api.Condition {
	return &api.Condition{
		Field:       api.FieldPath{Components: components},
		Op:          op,
		Literal:     literal,
		NumericHint: numeric,
	}
}

func TestEvaluateWhereConditions(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")
	foods := CollectElements(doc.Container, "food")
	require.Len(t, foods, 3)

	t.Run("numeric comparison", func(t *testing.T) {
		lt := cond(api.OpLT, "700", true, "calories")
		assert.True(t, EvaluateWhere(foods[0], lt, 0))
		assert.False(t, EvaluateWhere(foods[1], lt, 0))
		assert.False(t, EvaluateWhere(foods[2], lt, 0))
	})

	t.Run("numeric equality across formats", func(t *testing.T) {
		eq := cond(api.OpEQ, "900.0", true, "calories")
		assert.False(t, EvaluateWhere(foods[0], eq, 0))
		assert.True(t, EvaluateWhere(foods[1], eq, 0))
	})

	t.Run("string equality", func(t *testing.T) {
		eq := cond(api.OpEQ, "Belgian Waffles", false, "name")
		assert.True(t, EvaluateWhere(foods[0], eq, 0))
		assert.False(t, EvaluateWhere(foods[1], eq, 0))
	})

	t.Run("absent field fails comparisons", func(t *testing.T) {
		gt := cond(api.OpGT, "0", true, "vitamin")
		assert.False(t, EvaluateWhere(foods[0], gt, 0))
	})
}

func TestEvaluateWhereNullChecks(t *testing.T) {
	doc := mustParse(t, `<r><item><note></note></item><item></item></r>`, "n.xml")
	items := CollectElements(doc.Container, "item")
	require.Len(t, items, 2)

	isNull := cond(api.OpIsNull, "", false, "note")
	isNotNull := cond(api.OpIsNotNull, "", false, "note")

	// An element present with empty text is not null.
	assert.False(t, EvaluateWhere(items[0], isNull, 0))
	assert.True(t, EvaluateWhere(items[0], isNotNull, 0))
	assert.True(t, EvaluateWhere(items[1], isNull, 0))
	assert.False(t, EvaluateWhere(items[1], isNotNull, 0))
}

func TestEvaluateWhereLogical(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")
	foods := CollectElements(doc.Container, "food")

	cheap := cond(api.OpLT, "7", true, "price")
	light := cond(api.OpLT, "700", true, "calories")
	pricey := cond(api.OpGT, "8", true, "price")

	t.Run("and", func(t *testing.T) {
		and := &api.Logical{Connector: api.LogicalAnd, Left: cheap, Right: light}
		assert.True(t, EvaluateWhere(foods[0], and, 0))
		assert.False(t, EvaluateWhere(foods[1], and, 0))
	})

	t.Run("or", func(t *testing.T) {
		or := &api.Logical{Connector: api.LogicalOr, Left: light, Right: pricey}
		assert.True(t, EvaluateWhere(foods[0], or, 0))
		assert.False(t, EvaluateWhere(foods[1], or, 0))
		assert.True(t, EvaluateWhere(foods[2], or, 0))
	})

	t.Run("nested", func(t *testing.T) {
		expr := &api.Logical{
			Connector: api.LogicalOr,
			Left:      &api.Logical{Connector: api.LogicalAnd, Left: cheap, Right: light},
			Right:     pricey,
		}
		assert.True(t, EvaluateWhere(foods[0], expr, 0))
		assert.False(t, EvaluateWhere(foods[1], expr, 0))
		assert.True(t, EvaluateWhere(foods[2], expr, 0))
	})
}

func TestEvaluateWhereRelativeDepth(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")
	foods := FindPartialPaths(doc.Container, []string{"breakfast_menu", "food"})
	require.Len(t, foods, 3)

	// Field components share the candidates' matched prefix; depth 2 skips
	// breakfast_menu/food so lookup resolves calories under each candidate.
	deep := cond(api.OpGE, "900", true, "breakfast_menu", "food", "calories")
	assert.False(t, EvaluateWhere(foods[0], deep, 2))
	assert.True(t, EvaluateWhere(foods[1], deep, 2))
	assert.True(t, EvaluateWhere(foods[2], deep, 2))

	t.Run("depth exceeding components resolves null", func(t *testing.T) {
		short := cond(api.OpIsNull, "", false, "name")
		assert.True(t, EvaluateWhere(foods[0], short, 2))
		gt := cond(api.OpGT, "0", true, "name")
		assert.False(t, EvaluateWhere(foods[0], gt, 2))
	})
}

func TestEvaluateWhereFilenameField(t *testing.T) {
	doc := mustParse(t, menuXML, "menu.xml")
	foods := CollectElements(doc.Container, "food")
	require.NotEmpty(t, foods)

	synthetic := api.FieldPath{IncludeFilename: true}
	isNull := &api.Condition{Field: synthetic, Op: api.OpIsNull}
	isNotNull := &api.Condition{Field: synthetic, Op: api.OpIsNotNull}
	eq := &api.Condition{Field: synthetic, Op: api.OpEQ, Literal: "menu.xml"}

	assert.False(t, EvaluateWhere(foods[0], isNull, 0))
	assert.True(t, EvaluateWhere(foods[0], isNotNull, 0))
	assert.False(t, EvaluateWhere(foods[0], eq, 0))
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name    string
		a, b    string
		op      api.ComparisonOp
		numeric bool
		want    bool
	}{
		{"numeric lt", "650", "700", api.OpLT, true, true},
		{"numeric lt false", "900", "700", api.OpLT, true, false},
		{"numeric ge", "900", "900", api.OpGE, true, true},
		{"numeric ne", "900", "900.00", api.OpNE, true, false},
		{"numeric without hint", "10", "9", api.OpGT, false, true},
		{"string fallback on bad value", "abc", "700", api.OpLT, true, false},
		{"string fallback on bad literal", "650", "cal", api.OpLT, true, true},
		{"string lt", "apple", "banana", api.OpLT, false, true},
		{"string eq", "apple", "apple", api.OpEQ, false, true},
		{"numeric beats bytewise when both parse", "10", "2", api.OpLT, false, false},
		{"bytewise when either side is non-numeric", "10a", "2", api.OpLT, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Compare(tc.a, tc.b, tc.op, tc.numeric))
		})
	}
}
