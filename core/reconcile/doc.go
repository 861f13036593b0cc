// Package reconcile provides a generic idempotent reconciliation engine for
// ProxySQL admin configuration tables.
//
// Every resource type (backend servers, users, query rules, variables,
// replication hostgroups, scheduler jobs) shares the same shape: read the
// current row by its identity fields, diff the declared mutable fields
// against it, and emit at most one INSERT, UPDATE or DELETE to converge,
// optionally followed by SAVE ... TO DISK and LOAD ... TO RUNTIME for the
// resource's configuration area.
//
// # Architecture
//
// The engine consists of four stages, run in order by Apply:
//
//  1. Reader: SELECT * filtered by the identity fields; at most one row is
//     considered current state. The read is always fresh, never cached.
//
//  2. Differ: field-by-field comparison restricted to the declared mutable
//     fields, after normalizing textual and numeric representations of the
//     same value ("1" equals 1, true equals "1").
//
//  3. Writer: the present/absent decision table. A present resource whose
//     row already matches, or an absent resource with no row, emits no
//     write at all.
//
//  4. Loader: optional SAVE/LOAD commands for the resource's area, issued
//     only after a change (or skipped entirely when the caller opts out).
//
// # Usage Example
//
//	res := reconcile.NewResource("mysql_servers", reconcile.AreaMySQLServers).
//	    Identity("hostgroup_id", 1).
//	    Identity("hostname", "mysql01").
//	    Identity("port", 3306).
//	    Set("status", "ONLINE").
//	    Set("weight", 100)
//
//	result, err := reconcile.Apply(ctx, db, res, reconcile.Options{
//	    State:         reconcile.StatePresent,
//	    SaveToDisk:    true,
//	    LoadToRuntime: true,
//	})
//
// # Creating resource modules
//
// Feature packages declare parameter structs with optional (pointer) fields,
// validate them, and translate the set fields into a Resource. Only fields
// the caller actually supplied participate in the diff, so repeated
// application with the same parameters is always a no-op.
package reconcile
