package reconcile

import (
	"fmt"
	"regexp"

	"proxysql-manager/core/utils"
)

// columnPattern restricts declared column names to plain identifiers.
// Column names are compile-time constants in feature packages, never user
// input, but the guard keeps a typo from producing malformed SQL.
var columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type field struct {
	column string
	value  any
}

// Resource describes one reconcilable admin table row: the table, the
// identity fields that locate it, the mutable fields to converge, and the
// configuration area its SAVE/LOAD commands address.
//
// Field order is declaration order, so the generated SQL is deterministic.
// Identity fields never appear in UPDATE SET clauses.
type Resource struct {
	table    string
	area     Area
	identity []field
	mutable  []field
}

// NewResource creates a descriptor for the given admin table and
// configuration area.
func NewResource(table string, area Area) *Resource {
	return &Resource{table: table, area: area}
}

// Identity declares an identity field with its lookup value.
func (r *Resource) Identity(column string, value any) *Resource {
	r.identity = append(r.identity, field{column: column, value: value})
	return r
}

// Set declares a mutable field with its desired value.
func (r *Resource) Set(column string, value any) *Resource {
	r.mutable = append(r.mutable, field{column: column, value: value})
	return r
}

// Table returns the admin table name.
func (r *Resource) Table() string { return r.table }

// Area returns the configuration area for SAVE/LOAD commands.
func (r *Resource) Area() Area { return r.area }

// IdentityValues returns the identity fields as a normalized map, for
// logging and result reporting.
func (r *Resource) IdentityValues() map[string]string {
	out := make(map[string]string, len(r.identity))
	for _, f := range r.identity {
		out[f.column] = utils.ToString(f.value)
	}
	return out
}

// Validate checks the descriptor before any query is issued. A malformed
// descriptor is a fatal caller error.
func (r *Resource) Validate() error {
	if r.table == "" {
		return fmt.Errorf("resource has no table name")
	}
	if !columnPattern.MatchString(r.table) {
		return fmt.Errorf("invalid table name %q", r.table)
	}
	if len(r.identity) == 0 {
		return fmt.Errorf("resource %s has no identity fields", r.table)
	}
	seen := make(map[string]struct{}, len(r.identity)+len(r.mutable))
	for _, f := range append(append([]field{}, r.identity...), r.mutable...) {
		if !columnPattern.MatchString(f.column) {
			return fmt.Errorf("invalid column name %q for table %s", f.column, r.table)
		}
		if _, dup := seen[f.column]; dup {
			return fmt.Errorf("column %s declared twice for table %s", f.column, r.table)
		}
		seen[f.column] = struct{}{}
	}
	for _, f := range r.identity {
		if f.value == nil {
			return fmt.Errorf("identity field %s of table %s has no value", f.column, r.table)
		}
	}
	return nil
}

func (r *Resource) identityArgs() []any {
	args := make([]any, len(r.identity))
	for i, f := range r.identity {
		args[i] = f.value
	}
	return args
}
