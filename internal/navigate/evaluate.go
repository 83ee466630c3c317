package navigate

import (
	"cmp"
	"strconv"

	"github.com/expocli/expocli/api"
	"github.com/expocli/expocli/internal/xmltree"
)

// EvaluateWhere evaluates a WHERE tree against one context node.
// relativeDepth is the number of leading field components already consumed
// by context-node selection; field lookups skip that prefix. Both sides of
// a logical connector see the same node and depth, and evaluation
// short-circuits.
func EvaluateWhere(node *xmltree.Node, expr api.WhereExpr, relativeDepth int) bool {
	switch e := expr.(type) {
	case *api.Condition:
		return evaluateCondition(node, e, relativeDepth)
	case *api.Logical:
		if e.Connector == api.LogicalAnd {
			return EvaluateWhere(node, e.Left, relativeDepth) &&
				EvaluateWhere(node, e.Right, relativeDepth)
		}
		return EvaluateWhere(node, e.Left, relativeDepth) ||
			EvaluateWhere(node, e.Right, relativeDepth)
	default:
		return false
	}
}

func evaluateCondition(node *xmltree.Node, cond *api.Condition, relativeDepth int) bool {
	if cond.Field.IncludeFilename {
		// The synthetic field is always present and carries no node-relative
		// value, so null checks are constant and comparisons never match.
		switch cond.Op {
		case api.OpIsNull:
			return false
		case api.OpIsNotNull:
			return true
		default:
			return false
		}
	}
	comps := cond.Field.Components
	if relativeDepth > len(comps) {
		comps = nil
	} else {
		comps = comps[relativeDepth:]
	}
	value, found := ResolveField(node, comps)

	switch cond.Op {
	case api.OpIsNull:
		return !found
	case api.OpIsNotNull:
		return found
	}
	if !found {
		// An absent field compares false against anything.
		return false
	}
	return Compare(value, cond.Literal, cond.Op, cond.NumericHint)
}

// Compare applies op between a node value and a literal. When numericHint
// is set or both operands parse as floats, the comparison is numeric; a
// parse failure on either side falls back to byte-wise string comparison
// rather than erroring, so evaluation is never fatal on mismatched types.
func Compare(nodeValue, literal string, op api.ComparisonOp, numericHint bool) bool {
	if numericHint || bothNumeric(nodeValue, literal) {
		a, errA := strconv.ParseFloat(nodeValue, 64)
		b, errB := strconv.ParseFloat(literal, 64)
		if errA == nil && errB == nil {
			return compareOrdered(a, b, op)
		}
	}
	return compareOrdered(nodeValue, literal, op)
}

func bothNumeric(a, b string) bool {
	_, errA := strconv.ParseFloat(a, 64)
	_, errB := strconv.ParseFloat(b, 64)
	return errA == nil && errB == nil
}

func compareOrdered[T cmp.Ordered](a, b T, op api.ComparisonOp) bool {
	switch op {
	case api.OpEQ:
		return a == b
	case api.OpNE:
		return a != b
	case api.OpLT:
		return a < b
	case api.OpLE:
		return a <= b
	case api.OpGT:
		return a > b
	case api.OpGE:
		return a >= b
	default:
		return false
	}
}
