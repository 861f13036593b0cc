package reconcile

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Lookup reads the current row for the resource's identity fields. It
// returns the row as a column->value map and whether a row was found.
//
// The identity fields are expected to uniquely determine a row. When they do
// not, only the first returned row is treated as current state; declaring an
// ambiguous identity is a caller error.
func Lookup(ctx context.Context, db *gorm.DB, r *Resource) (map[string]string, bool, error) {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(r.table)
	b.WriteString(" WHERE ")
	for i, f := range r.identity {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(f.column)
		b.WriteString(" = ?")
	}

	rows, err := db.WithContext(ctx).Raw(b.String(), r.identityArgs()...).Rows()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", r.table, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, fmt.Errorf("failed to read %s: %w", r.table, err)
		}
		return nil, false, nil
	}

	columns, err := rows.Columns()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", r.table, err)
	}

	values := make([]any, len(columns))
	for i := range values {
		values[i] = new(sql.NullString)
	}
	if err := rows.Scan(values...); err != nil {
		return nil, false, fmt.Errorf("failed to scan %s row: %w", r.table, err)
	}

	row := make(map[string]string, len(columns))
	for i, col := range columns {
		ns := values[i].(*sql.NullString)
		if ns.Valid {
			row[col] = ns.String
		}
	}

	// Further rows, if any, are ignored: first row wins.
	return row, true, nil
}
