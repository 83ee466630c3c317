package executor

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"github.com/expocli/expocli/api"
	"github.com/expocli/expocli/internal/navigate"
	"github.com/expocli/expocli/internal/xmltree"
)

// AnalyzeAmbiguity loads the first file of the query's resolved set as the
// representative document and reports, once each in first-seen order, every
// 2+ component field path that matches more than one node. Advisory only:
// execution proceeds with first-match semantics either way.
func (e *Executor) AnalyzeAmbiguity(q *api.Query) ([]string, error) {
	files := e.listFiles(q.FromPath)
	if len(files) == 0 {
		return nil, nil
	}
	doc, err := e.loader.Load(files[0])
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", files[0], err)
	}
	return ambiguousPaths(doc, q), nil
}

// ambiguousFieldPaths is the silent variant Execute runs as a pre-flight;
// analyzer failures are ignored there because execution itself will surface
// the same file's problem as a per-file warning.
func (e *Executor) ambiguousFieldPaths(q *api.Query, files []string) []string {
	if len(files) == 0 {
		return nil
	}
	doc, err := e.loader.Load(files[0])
	if err != nil {
		return nil
	}
	return ambiguousPaths(doc, q)
}

func ambiguousPaths(doc *xmltree.Document, q *api.Query) []string {
	fields := make([]api.FieldPath, 0, len(q.SelectFields))
	fields = append(fields, q.SelectFields...)
	fields = append(fields, conditionFields(q.Where)...)

	// One bitmap of matched node ordinals per dotted path: cardinality is
	// the match count, and the map doubles as the de-duplication record
	// when a path appears in both SELECT and WHERE.
	matchSets := make(map[string]*roaring.Bitmap, len(fields))
	var ambiguous []string
	for _, f := range fields {
		if f.IncludeFilename || len(f.Components) < 2 {
			continue
		}
		path := f.String()
		if _, seen := matchSets[path]; seen {
			continue
		}
		set := roaring.New()
		for _, n := range navigate.FindPartialPaths(doc.Container, f.Components) {
			set.Add(n.Ordinal)
		}
		matchSets[path] = set
		if set.GetCardinality() > 1 {
			ambiguous = append(ambiguous, path)
		}
	}
	return ambiguous
}

// conditionFields gathers every condition's field path from a WHERE tree.
func conditionFields(expr api.WhereExpr) []api.FieldPath {
	switch e := expr.(type) {
	case *api.Condition:
		return []api.FieldPath{e.Field}
	case *api.Logical:
		return append(conditionFields(e.Left), conditionFields(e.Right)...)
	default:
		return nil
	}
}
