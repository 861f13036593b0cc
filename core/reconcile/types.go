package reconcile

// State is the desired final state of a resource.
type State string

const (
	// StatePresent converges toward a row matching the declared fields.
	StatePresent State = "present"
	// StateAbsent converges toward no row for the identity fields.
	StateAbsent State = "absent"
)

// Valid reports whether s is a recognized state.
func (s State) Valid() bool {
	return s == StatePresent || s == StateAbsent
}

// Action describes the write the engine performed (or would perform, in
// dry-run mode).
type Action string

const (
	// ActionNone means the current state already matched; nothing was written.
	ActionNone Action = "none"
	// ActionCreate means a new row was inserted.
	ActionCreate Action = "create"
	// ActionUpdate means the mutable fields of an existing row were updated.
	ActionUpdate Action = "update"
	// ActionDelete means the existing row was deleted.
	ActionDelete Action = "delete"
)

// Delta records a single mutable field that differed between the existing
// row and the desired values.
type Delta struct {
	// Column is the admin table column name.
	Column string `json:"column"`
	// Old is the current value, normalized. "NULL" when the column is unset.
	Old string `json:"old"`
	// New is the desired value, normalized.
	New string `json:"new"`
}

// Result is the outcome of one reconciliation call.
type Result struct {
	// Changed reports whether a write statement was (or, in dry-run mode,
	// would have been) issued.
	Changed bool `json:"changed"`

	// Action is the write decision the engine reached.
	Action Action `json:"action"`

	// Row is the record after the write, read back from the admin table.
	// For deletions it holds the record as it was before the delete. Nil
	// when no row exists (absent no-op) and in dry-run creates.
	Row map[string]string `json:"row,omitempty"`

	// Deltas lists the mutable fields that differed. Populated for updates.
	Deltas []Delta `json:"deltas,omitempty"`
}

// Options controls a single reconciliation call.
type Options struct {
	// State is the desired final state. Defaults to StatePresent.
	State State

	// SaveToDisk persists the resource's configuration area to the on-disk
	// database after a change.
	SaveToDisk bool

	// LoadToRuntime activates the resource's configuration area in the
	// runtime layer after a change.
	LoadToRuntime bool

	// DryRun reports what would change without issuing any write or
	// SAVE/LOAD statement.
	DryRun bool

	// UpdateOnly makes a missing row an error instead of an insert. Used
	// for global variables, which cannot be created through the admin
	// interface.
	UpdateOnly bool
}
