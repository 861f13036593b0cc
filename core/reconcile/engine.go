package reconcile

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned for update-only resources whose row does not
// exist, such as unknown global variables.
type ErrNotFound struct {
	Table    string
	Identity map[string]string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("no row in %s matches %v", e.Table, e.Identity)
}

// Apply reconciles one resource against the admin interface.
//
// The call is strictly synchronous: one read, at most one write, at most one
// SAVE and one LOAD command. A present resource whose row already matches,
// or an absent resource with no row, emits no write; repeated application
// with identical parameters is therefore always safe.
//
// Any statement failure aborts the call. A SAVE/LOAD failure after a
// successful write is surfaced as the call's error but does not undo the
// write.
func Apply(ctx context.Context, db *gorm.DB, r *Resource, opts Options) (Result, error) {
	if err := r.Validate(); err != nil {
		return Result{}, err
	}
	if opts.State == "" {
		opts.State = StatePresent
	}
	if !opts.State.Valid() {
		return Result{}, fmt.Errorf("invalid state %q", string(opts.State))
	}

	row, found, err := Lookup(ctx, db, r)
	if err != nil {
		return Result{}, err
	}

	switch opts.State {
	case StateAbsent:
		return applyAbsent(ctx, db, r, row, found, opts)
	default:
		return applyPresent(ctx, db, r, row, found, opts)
	}
}

func applyAbsent(ctx context.Context, db *gorm.DB, r *Resource, row map[string]string, found bool, opts Options) (Result, error) {
	if !found {
		return Result{Changed: false, Action: ActionNone}, nil
	}
	if opts.DryRun {
		return Result{Changed: true, Action: ActionDelete, Row: row}, nil
	}

	query, args := deleteSQL(r)
	if err := execWrite(ctx, db, query, args); err != nil {
		return Result{}, fmt.Errorf("unable to remove row from %s: %w", r.table, err)
	}

	result := Result{Changed: true, Action: ActionDelete, Row: row}
	return result, persist(ctx, db, r, opts)
}

func applyPresent(ctx context.Context, db *gorm.DB, r *Resource, row map[string]string, found bool, opts Options) (Result, error) {
	if !found {
		if opts.UpdateOnly {
			return Result{}, &ErrNotFound{Table: r.table, Identity: r.IdentityValues()}
		}
		if opts.DryRun {
			return Result{Changed: true, Action: ActionCreate}, nil
		}

		query, args := insertSQL(r)
		if err := execWrite(ctx, db, query, args); err != nil {
			return Result{}, fmt.Errorf("unable to add row to %s: %w", r.table, err)
		}

		created, _, err := Lookup(ctx, db, r)
		if err != nil {
			return Result{}, err
		}
		result := Result{Changed: true, Action: ActionCreate, Row: created}
		return result, persist(ctx, db, r, opts)
	}

	deltas := diffRow(row, r)
	if len(deltas) == 0 {
		return Result{Changed: false, Action: ActionNone, Row: row}, nil
	}
	if opts.DryRun {
		return Result{Changed: true, Action: ActionUpdate, Row: row, Deltas: deltas}, nil
	}

	query, args := updateSQL(r, deltas)
	if err := execWrite(ctx, db, query, args); err != nil {
		return Result{}, fmt.Errorf("unable to modify row in %s: %w", r.table, err)
	}

	updated, _, err := Lookup(ctx, db, r)
	if err != nil {
		return Result{}, err
	}
	result := Result{Changed: true, Action: ActionUpdate, Row: updated, Deltas: deltas}
	return result, persist(ctx, db, r, opts)
}

// persist runs the opt-in SAVE/LOAD commands after a change: save to disk
// first, then load to runtime.
func persist(ctx context.Context, db *gorm.DB, r *Resource, opts Options) error {
	if opts.SaveToDisk {
		if err := SaveToDisk(ctx, db, r.area); err != nil {
			return err
		}
	}
	if opts.LoadToRuntime {
		if err := LoadToRuntime(ctx, db, r.area); err != nil {
			return err
		}
	}
	return nil
}
