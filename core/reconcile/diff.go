package reconcile

import (
	"strconv"

	"proxysql-manager/core/utils"
)

// nullValue marks a column the existing row has no value for (SQL NULL).
const nullValue = "NULL"

// diffRow compares the existing row against the resource's mutable fields
// and returns one Delta per differing field. Fields not declared mutable are
// ignored. An empty slice means the row already matches.
func diffRow(existing map[string]string, r *Resource) []Delta {
	var deltas []Delta
	for _, f := range r.mutable {
		want := utils.ToString(f.value)
		got, ok := existing[f.column]
		if !ok {
			// NULL never equals a declared value; even want == "" means
			// converging NULL to the empty string.
			deltas = append(deltas, Delta{Column: f.column, Old: nullValue, New: want})
			continue
		}
		if !equalValues(got, want) {
			deltas = append(deltas, Delta{Column: f.column, Old: got, New: want})
		}
	}
	return deltas
}

// equalValues compares two field values after normalization. The admin
// interface returns every column as text, so numeric values compare as
// integers when both sides parse ("5000" equals 5000, "1" equals 1);
// everything else compares as exact strings.
func equalValues(a, b string) bool {
	if a == b {
		return true
	}
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return ai == bi
	}
	return false
}
