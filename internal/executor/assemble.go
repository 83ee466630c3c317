package executor

import (
	"sort"
	"strconv"

	"github.com/expocli/expocli/api"
)

// sortRows orders rows by one column. Values compare numerically when both
// sides parse as floats, else byte-wise as strings; rows missing the column
// compare as empty strings. Tie order is unspecified.
func sortRows(rows []api.ResultRow, key string, desc bool) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Value(key), rows[j].Value(key)
		if desc {
			a, b = b, a
		}
		return lessValue(a, b)
	})
}

func lessValue(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}

// applyLimit truncates the sorted result set. Negative means no limit;
// zero is a valid limit producing no rows.
func applyLimit(rows []api.ResultRow, limit int) []api.ResultRow {
	if limit >= 0 && limit < len(rows) {
		return rows[:limit]
	}
	return rows
}
