package executor

import (
	"github.com/expocli/expocli/api"
	"github.com/expocli/expocli/internal/navigate"
	"github.com/expocli/expocli/internal/xmltree"
)

// processFile loads one document and runs the strategy the query shape
// selects. A load failure contributes zero rows; callers log it and keep
// going.
func (e *Executor) processFile(path string, q *api.Query) ([]api.ResultRow, error) {
	doc, err := e.loader.Load(path)
	if err != nil {
		return nil, err
	}
	switch {
	case len(q.ForClauses) > 0:
		return forRows(doc, q), nil
	case q.Where != nil:
		return whereRows(doc, q), nil
	default:
		return projectionRows(doc, q), nil
	}
}

// projectionRows implements plain projection: every select field extracts
// its matches independently, and rows cross-index the parallel lists by
// position, padding short lists with empty strings. Fields correlate by
// index only; queries that need per-node correlation use WHERE or FOR.
func projectionRows(doc *xmltree.Document, q *api.Query) []api.ResultRow {
	lists := make([][]string, len(q.SelectFields))
	maxLen := 0
	for i, f := range q.SelectFields {
		lists[i] = navigate.CollectValues(doc, f)
		if len(lists[i]) > maxLen {
			maxLen = len(lists[i])
		}
	}

	rows := make([]api.ResultRow, 0, maxLen)
	for i := 0; i < maxLen; i++ {
		row := make(api.ResultRow, 0, len(q.SelectFields))
		for j, f := range q.SelectFields {
			value := ""
			if i < len(lists[j]) {
				value = lists[j][i]
			}
			row = append(row, api.ResultField{Column: f.Label(), Value: value})
		}
		rows = append(rows, row)
	}
	return rows
}

// whereRows anchors candidate selection on the first condition of the WHERE
// tree's left spine. Anchors with two or more components locate candidates
// by the anchor's parent path and evaluate the tree relative to each;
// shorter anchors fall back to a whole-document walk.
func whereRows(doc *xmltree.Document, q *api.Query) []api.ResultRow {
	anchor := firstCondition(q.Where)
	if anchor == nil {
		return nil
	}
	if len(anchor.Field.Components) < 2 {
		return shorthandWhereRows(doc, q, anchor)
	}

	parent := anchor.Field.Components[:len(anchor.Field.Components)-1]
	var rows []api.ResultRow
	for _, node := range navigate.FindPartialPaths(doc.Container, parent) {
		if !navigate.EvaluateWhere(node, q.Where, len(parent)) {
			continue
		}
		rows = append(rows, buildRow(node, q, doc.Path))
	}
	return rows
}

// shorthandWhereRows walks every element as a potential context. Which
// elements are eligible depends on the query: a bare null check accepts any
// element directly parenting one of the single-component select fields,
// everything else requires the element to directly parent the anchor field.
func shorthandWhereRows(doc *xmltree.Document, q *api.Query, anchor *api.Condition) []api.ResultRow {
	nullCheck := isNullCheckQuery(q.Where)
	var rows []api.ResultRow
	for _, node := range navigate.Descendants(doc.Container) {
		if !shorthandEligible(node, q, anchor, nullCheck) {
			continue
		}
		if !navigate.EvaluateWhere(node, q.Where, 0) {
			continue
		}
		rows = append(rows, buildRow(node, q, doc.Path))
	}
	return rows
}

func shorthandEligible(node *xmltree.Node, q *api.Query, anchor *api.Condition, nullCheck bool) bool {
	if nullCheck {
		for _, f := range q.SelectFields {
			if f.IncludeFilename || len(f.Components) != 1 {
				continue
			}
			if found := navigate.FindFirstElement(node, f.Components[0]); found != nil && found.Parent == node {
				return true
			}
		}
		return false
	}
	if len(anchor.Field.Components) == 0 {
		return false
	}
	found := navigate.FindFirstElement(node, anchor.Field.Components[0])
	return found != nil && found.Parent == node
}

// forRows binds each node matching the first FOR clause as an independent
// context: WHERE applies at depth 0, then every select field resolves
// relative to the node. Unlike plain projection, this mode correlates
// fields by node identity.
func forRows(doc *xmltree.Document, q *api.Query) []api.ResultRow {
	clause := q.ForClauses[0]
	var contexts []*xmltree.Node
	if len(clause.NodePath.Components) == 1 {
		contexts = navigate.CollectElements(doc.Container, clause.NodePath.Components[0])
	} else {
		contexts = navigate.FindPartialPaths(doc.Container, clause.NodePath.Components)
	}

	var rows []api.ResultRow
	for _, node := range contexts {
		if q.Where != nil && !navigate.EvaluateWhere(node, q.Where, 0) {
			continue
		}
		rows = append(rows, buildRow(node, q, doc.Path))
	}
	return rows
}

// buildRow extracts every select field relative to node, in select order.
// Misses render as empty strings, never errors.
func buildRow(node *xmltree.Node, q *api.Query, filePath string) api.ResultRow {
	row := make(api.ResultRow, 0, len(q.SelectFields))
	for _, f := range q.SelectFields {
		value, _ := navigate.ExtractField(node, f, filePath)
		row = append(row, api.ResultField{Column: f.Label(), Value: value})
	}
	return row
}

// firstCondition walks the left spine of a WHERE tree to the anchor
// condition.
func firstCondition(expr api.WhereExpr) *api.Condition {
	for {
		switch e := expr.(type) {
		case *api.Condition:
			return e
		case *api.Logical:
			expr = e.Left
		default:
			return nil
		}
	}
}

// isNullCheckQuery reports whether the whole WHERE clause is one bare null
// check; null checks nested under logical connectors do not count.
func isNullCheckQuery(expr api.WhereExpr) bool {
	c, ok := expr.(*api.Condition)
	return ok && (c.Op == api.OpIsNull || c.Op == api.OpIsNotNull)
}
