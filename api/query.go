package api

import (
	"strings"
	"time"
)

// FilenameColumn is the column label of the synthetic source-identifier
// field, and the keyword that selects it in query text.
const FilenameColumn = "FILE_NAME"

// FieldPath addresses elements in a document tree by an ordered sequence of
// element names. Matching is partial: the sequence is treated as a suffix,
// so any ancestor depth above the first component is acceptable.
type FieldPath struct {
	// Components are case-sensitive element names, outermost first.
	Components []string `json:"components"`
	// IncludeFilename marks the synthetic source-identifier field. When
	// set, Components is ignored for lookups and the column value is the
	// originating file's path.
	IncludeFilename bool `json:"include_filename,omitempty"`
}

// Label returns the column name the field contributes to result rows: the
// synthetic label for source-identifier fields, else the last component.
func (f FieldPath) Label() string {
	if f.IncludeFilename {
		return FilenameColumn
	}
	if len(f.Components) == 0 {
		return ""
	}
	return f.Components[len(f.Components)-1]
}

// String renders the path in dotted form, e.g. "breakfast_menu.food.price".
func (f FieldPath) String() string {
	if f.IncludeFilename {
		return FilenameColumn
	}
	return strings.Join(f.Components, ".")
}

// ComparisonOp enumerates the operators a Condition may apply.
type ComparisonOp string

const (
	OpEQ        ComparisonOp = "="
	OpNE        ComparisonOp = "!="
	OpLT        ComparisonOp = "<"
	OpLE        ComparisonOp = "<="
	OpGT        ComparisonOp = ">"
	OpGE        ComparisonOp = ">="
	OpIsNull    ComparisonOp = "IS NULL"
	OpIsNotNull ComparisonOp = "IS NOT NULL"
)

// LogicalOp connects two WHERE subtrees.
type LogicalOp string

const (
	LogicalAnd LogicalOp = "AND"
	LogicalOr  LogicalOp = "OR"
)

// WhereExpr is the WHERE clause tree. Exactly two variants implement it,
// Condition and Logical; evaluators switch on the concrete type. Trees are
// finite, acyclic, and immutable once built.
type WhereExpr interface {
	isWhereExpr()
}

// Condition is a single comparison against one field.
type Condition struct {
	Field FieldPath    `json:"field"`
	Op    ComparisonOp `json:"op"`
	// Literal is the right-hand operand. Unused for the null-check ops.
	Literal string `json:"literal,omitempty"`
	// NumericHint is set when the literal was written as a number, asking
	// the evaluator to attempt numeric comparison first.
	NumericHint bool `json:"numeric_hint,omitempty"`
}

// Logical combines two subtrees with AND or OR.
type Logical struct {
	Connector LogicalOp `json:"connector"`
	Left      WhereExpr `json:"left"`
	Right     WhereExpr `json:"right"`
}

func (*Condition) isWhereExpr() {}
func (*Logical) isWhereExpr()   {}

// ForClause binds an iteration variable to a path whose matches become
// independent evaluation contexts. Only the first clause of a query is
// honored.
type ForClause struct {
	Variable string    `json:"variable"`
	NodePath FieldPath `json:"node_path"`
}

// Query is the parsed form of one EQL statement. The executor borrows it
// read-only; it is safe to share across goroutines for the duration of one
// execution.
type Query struct {
	// FromPath is a filesystem location: one eligible file, or a directory
	// whose top-level eligible files are all processed.
	FromPath     string      `json:"from_path"`
	SelectFields []FieldPath `json:"select_fields"`
	// Where is nil when the query has no WHERE clause.
	Where      WhereExpr   `json:"where,omitempty"`
	ForClauses []ForClause `json:"for_clauses,omitempty"`
	// OrderBy names sort keys; only the first is honored.
	OrderBy   []string `json:"order_by,omitempty"`
	OrderDesc bool     `json:"order_desc,omitempty"`
	// Limit truncates the sorted result set. Negative means no limit.
	Limit int `json:"limit"`
}

// Columns returns the projected column labels in select order.
func (q *Query) Columns() []string {
	cols := make([]string, len(q.SelectFields))
	for i, f := range q.SelectFields {
		cols[i] = f.Label()
	}
	return cols
}

// ResultField is one (column, value) cell of a result row.
type ResultField struct {
	Column string `json:"column"`
	Value  string `json:"value"`
}

// ResultRow is an ordered sequence of cells. The column sequence equals the
// query's select-field sequence; callers may rely on that order.
type ResultRow []ResultField

// Value returns the row's value for the named column, or the empty string
// when the row has no such column.
func (r ResultRow) Value(column string) string {
	for _, f := range r {
		if f.Column == column {
			return f.Value
		}
	}
	return ""
}

// ExecutionStats describes one engine run. Observational only; it never
// affects results.
type ExecutionStats struct {
	TotalFiles int           `json:"total_files"`
	Workers    int           `json:"workers"`
	Threaded   bool          `json:"threaded"`
	Elapsed    time.Duration `json:"elapsed"`
}

// ProgressFunc receives execution progress. During threaded runs it is
// polled at a fixed cadence; during sequential runs it fires once per file.
// A final call with completed == total is guaranteed.
type ProgressFunc func(completed, total, workers int)
