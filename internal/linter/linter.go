// Package linter inspects parsed queries for constructs that execute in
// surprising ways. Findings are advisory; execution never depends on them.
package linter

import (
	"fmt"

	"github.com/expocli/expocli/api"
)

// Diagnostic is one advisory finding about a query.
type Diagnostic struct {
	Clause  string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Clause, d.Message)
}

// Lint reports the query's advisory findings.
func Lint(q *api.Query) []Diagnostic {
	var diags []Diagnostic

	if len(q.OrderBy) > 1 {
		diags = append(diags, Diagnostic{
			Clause:  "ORDER BY",
			Message: fmt.Sprintf("%d sort keys given; only %q is used", len(q.OrderBy), q.OrderBy[0]),
		})
	}
	if len(q.OrderBy) > 0 && !projectsColumn(q, q.OrderBy[0]) {
		diags = append(diags, Diagnostic{
			Clause:  "ORDER BY",
			Message: fmt.Sprintf("sort key %q is not a projected column, so all rows compare equal", q.OrderBy[0]),
		})
	}
	if q.Limit >= 0 && len(q.OrderBy) == 0 {
		diags = append(diags, Diagnostic{
			Clause:  "LIMIT",
			Message: "no ORDER BY given; threaded runs may keep a different subset each time",
		})
	}
	if len(q.ForClauses) > 1 {
		diags = append(diags, Diagnostic{
			Clause:  "FOR",
			Message: fmt.Sprintf("%d bindings given; only %q is iterated", len(q.ForClauses), q.ForClauses[0].Variable),
		})
	}
	return append(diags, lintWhere(q.Where)...)
}

func lintWhere(expr api.WhereExpr) []Diagnostic {
	switch e := expr.(type) {
	case *api.Condition:
		if e.Field.IncludeFilename {
			return []Diagnostic{{
				Clause:  "WHERE",
				Message: fmt.Sprintf("%s conditions are constant; the column is always present and has no node value", api.FilenameColumn),
			}}
		}
	case *api.Logical:
		return append(lintWhere(e.Left), lintWhere(e.Right)...)
	}
	return nil
}

func projectsColumn(q *api.Query, name string) bool {
	for _, f := range q.SelectFields {
		if f.Label() == name {
			return true
		}
	}
	return false
}
