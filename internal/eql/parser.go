// Package eql parses EQL query text into the api.Query AST the executor
// consumes. The grammar covers SELECT field lists, an optional FOR binding,
// a FROM location, WHERE trees with AND/OR and parentheses, single-key
// ORDER BY with an optional direction, and LIMIT.
package eql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/expocli/expocli/api"
)

var eqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "whitespace", Pattern: `\s+`},
	{Name: "Keyword", Pattern: `(?i)\b(SELECT|FROM|WHERE|ORDER|BY|LIMIT|FOR|IN|AND|OR|IS|NOT|NULL|ASC|DESC)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[-+]?\d*\.?\d+`},
	{Name: "String", Pattern: `'[^']*'|"[^"]*"`},
	{Name: "CmpOp", Pattern: `<>|<=|>=|!=|[=<>]`},
	{Name: "Punct", Pattern: `[,()./*-]`},
})

type queryText struct {
	Star    bool        `parser:"'SELECT' ( @'*'"`
	Fields  []*pathText `parser:"| @@ ( ',' @@ )* )"`
	For     []*forText  `parser:"( 'FOR' @@ ( ',' @@ )* )?"`
	From    *fromText   `parser:"'FROM' @@"`
	Where   *orText     `parser:"( 'WHERE' @@ )?"`
	OrderBy *orderText  `parser:"( 'ORDER' 'BY' @@ )?"`
	Limit   *string     `parser:"( 'LIMIT' @Number )?"`
}

type pathText struct {
	Parts []string `parser:"@Ident ( ( '.' | '/' ) @Ident )*"`
}

type forText struct {
	Variable string    `parser:"@Ident 'IN'"`
	Path     *pathText `parser:"@@"`
}

type fromText struct {
	Quoted string   `parser:"( @String"`
	Raw    []string `parser:"| ( @Ident | @Number | @'.' | @'/' | @'-' )+ )"`
}

type orText struct {
	Left  *andText   `parser:"@@"`
	Right []*andText `parser:"( 'OR' @@ )*"`
}

type andText struct {
	Left  *termText   `parser:"@@"`
	Right []*termText `parser:"( 'AND' @@ )*"`
}

type termText struct {
	Paren     *orText   `parser:"'(' @@ ')'"`
	Condition *condText `parser:"| @@"`
}

type condText struct {
	Field *pathText `parser:"@@"`
	Null  *nullText `parser:"( @@"`
	Cmp   *cmpText  `parser:"| @@ )"`
}

type nullText struct {
	Not bool `parser:"'IS' ( @'NOT' )? 'NULL'"`
}

type cmpText struct {
	Op    string     `parser:"@CmpOp"`
	Value *valueText `parser:"@@"`
}

type valueText struct {
	Number *string `parser:"@Number"`
	Str    *string `parser:"| @String"`
	Word   *string `parser:"| @Ident"`
}

type orderText struct {
	Keys []string `parser:"@Ident ( ',' @Ident )*"`
	Dir  string   `parser:"( @'ASC' | @'DESC' )?"`
}

var parser = participle.MustBuild[queryText](
	participle.Lexer(eqlLexer),
	participle.Unquote("String"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(2),
)

// ParseQuery turns one EQL statement into a Query. Parse failures are the
// product's only fatal error class; everything downstream degrades to
// warnings or empty values.
func ParseQuery(input string) (*api.Query, error) {
	qt, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	return qt.toQuery()
}

func (qt *queryText) toQuery() (*api.Query, error) {
	if qt.Star {
		return nil, fmt.Errorf("parse query: SELECT * is not supported, name the fields to project")
	}

	q := &api.Query{Limit: -1}
	for _, p := range qt.Fields {
		q.SelectFields = append(q.SelectFields, p.toFieldPath())
	}
	for _, f := range qt.For {
		q.ForClauses = append(q.ForClauses, api.ForClause{
			Variable: f.Variable,
			NodePath: api.FieldPath{Components: f.Path.Parts},
		})
	}
	if qt.From.Quoted != "" {
		q.FromPath = qt.From.Quoted
	} else {
		q.FromPath = strings.Join(qt.From.Raw, "")
	}
	if q.FromPath == "" {
		return nil, fmt.Errorf("parse query: FROM needs a file or directory path")
	}

	if qt.Where != nil {
		q.Where = qt.Where.toExpr()
	}
	if qt.OrderBy != nil {
		q.OrderBy = qt.OrderBy.Keys
		q.OrderDesc = strings.EqualFold(qt.OrderBy.Dir, "DESC")
	}
	if qt.Limit != nil {
		n, err := strconv.Atoi(*qt.Limit)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("parse query: LIMIT must be a non-negative integer, got %q", *qt.Limit)
		}
		q.Limit = n
	}
	return q, nil
}

// toFieldPath maps the FILE_NAME keyword to the synthetic source-identifier
// field; every other path is a tree lookup.
func (p *pathText) toFieldPath() api.FieldPath {
	if len(p.Parts) == 1 && p.Parts[0] == api.FilenameColumn {
		return api.FieldPath{IncludeFilename: true}
	}
	return api.FieldPath{Components: p.Parts}
}

func (o *orText) toExpr() api.WhereExpr {
	expr := o.Left.toExpr()
	for _, rhs := range o.Right {
		expr = &api.Logical{Connector: api.LogicalOr, Left: expr, Right: rhs.toExpr()}
	}
	return expr
}

func (a *andText) toExpr() api.WhereExpr {
	expr := a.Left.toExpr()
	for _, rhs := range a.Right {
		expr = &api.Logical{Connector: api.LogicalAnd, Left: expr, Right: rhs.toExpr()}
	}
	return expr
}

func (t *termText) toExpr() api.WhereExpr {
	if t.Paren != nil {
		return t.Paren.toExpr()
	}
	return t.Condition.toExpr()
}

var cmpOps = map[string]api.ComparisonOp{
	"=":  api.OpEQ,
	"!=": api.OpNE,
	"<>": api.OpNE,
	"<":  api.OpLT,
	"<=": api.OpLE,
	">":  api.OpGT,
	">=": api.OpGE,
}

func (c *condText) toExpr() api.WhereExpr {
	cond := &api.Condition{Field: c.Field.toFieldPath()}
	if c.Null != nil {
		cond.Op = api.OpIsNull
		if c.Null.Not {
			cond.Op = api.OpIsNotNull
		}
		return cond
	}
	cond.Op = cmpOps[c.Cmp.Op]
	switch v := c.Cmp.Value; {
	case v.Number != nil:
		cond.Literal = *v.Number
		cond.NumericHint = true
	case v.Str != nil:
		cond.Literal = *v.Str
	default:
		cond.Literal = *v.Word
	}
	return cond
}
