package reconcile

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// insertSQL builds the INSERT statement covering every declared field,
// identity first, in declaration order.
func insertSQL(r *Resource) (string, []any) {
	all := make([]field, 0, len(r.identity)+len(r.mutable))
	all = append(all, r.identity...)
	all = append(all, r.mutable...)

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(r.table)
	b.WriteString(" (")
	args := make([]any, 0, len(all))
	for i, f := range all {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.column)
		args = append(args, f.value)
	}
	b.WriteString(") VALUES (")
	for i := range all {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("?")
	}
	b.WriteString(")")
	return b.String(), args
}

// updateSQL builds the UPDATE statement for exactly the given deltas,
// keyed by the identity fields. Identity fields never appear in the SET
// clause.
func updateSQL(r *Resource, deltas []Delta) (string, []any) {
	changed := make(map[string]struct{}, len(deltas))
	for _, d := range deltas {
		changed[d.Column] = struct{}{}
	}

	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(r.table)
	b.WriteString(" SET ")
	var args []any
	n := 0
	for _, f := range r.mutable {
		if _, ok := changed[f.column]; !ok {
			continue
		}
		if n > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.column)
		b.WriteString(" = ?")
		args = append(args, f.value)
		n++
	}
	b.WriteString(" WHERE ")
	for i, f := range r.identity {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(f.column)
		b.WriteString(" = ?")
		args = append(args, f.value)
	}
	return b.String(), args
}

// deleteSQL builds the DELETE statement keyed by the identity fields.
func deleteSQL(r *Resource) (string, []any) {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(r.table)
	b.WriteString(" WHERE ")
	for i, f := range r.identity {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(f.column)
		b.WriteString(" = ?")
	}
	return b.String(), r.identityArgs()
}

// execWrite runs one write statement. Any failure is fatal to the call:
// there is no retry and no compensating rollback.
func execWrite(ctx context.Context, db *gorm.DB, query string, args []any) error {
	if err := db.WithContext(ctx).Exec(query, args...).Error; err != nil {
		return fmt.Errorf("write to admin table failed: %w", err)
	}
	return nil
}
