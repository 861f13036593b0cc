package reconcile

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite DB mirroring the admin schema for
// the tables the engine tests touch.
func setupTestDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.Exec(`CREATE TABLE mysql_servers (
		hostgroup_id INTEGER NOT NULL DEFAULT 0,
		hostname VARCHAR NOT NULL,
		port INTEGER NOT NULL DEFAULT 3306,
		status VARCHAR NOT NULL DEFAULT 'ONLINE',
		weight INTEGER NOT NULL DEFAULT 1,
		compression INTEGER NOT NULL DEFAULT 0,
		max_connections INTEGER NOT NULL DEFAULT 1000,
		max_replication_lag INTEGER NOT NULL DEFAULT 0,
		use_ssl INTEGER NOT NULL DEFAULT 0,
		max_latency_ms INTEGER NOT NULL DEFAULT 0,
		comment VARCHAR NOT NULL DEFAULT '',
		PRIMARY KEY (hostgroup_id, hostname, port)
	)`).Error
	if err != nil {
		t.Fatalf("failed to create mysql_servers: %v", err)
	}

	err = db.Exec(`CREATE TABLE mysql_query_rules (
		rule_id INTEGER PRIMARY KEY,
		active INTEGER NOT NULL DEFAULT 0,
		username VARCHAR,
		schemaname VARCHAR,
		match_digest VARCHAR,
		match_pattern VARCHAR,
		destination_hostgroup INTEGER,
		cache_ttl INTEGER,
		apply INTEGER NOT NULL DEFAULT 0,
		comment VARCHAR
	)`).Error
	if err != nil {
		t.Fatalf("failed to create mysql_query_rules: %v", err)
	}

	err = db.Exec(`CREATE TABLE global_variables (
		variable_name VARCHAR NOT NULL PRIMARY KEY,
		variable_value VARCHAR NOT NULL
	)`).Error
	if err != nil {
		t.Fatalf("failed to create global_variables: %v", err)
	}

	return db
}

func serverResource() *Resource {
	return NewResource("mysql_servers", AreaMySQLServers).
		Identity("hostgroup_id", 1).
		Identity("hostname", "127.0.0.1").
		Identity("port", 21891)
}

func TestApply_CreateThenIdempotent(t *testing.T) {
	db := setupTestDB(t, "engine_create")
	ctx := context.Background()

	// First application inserts the row.
	result, err := Apply(ctx, db, serverResource(), Options{State: StatePresent})
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, ActionCreate, result.Action)
	assert.Equal(t, "127.0.0.1", result.Row["hostname"])
	assert.Equal(t, "21891", result.Row["port"])

	// Re-running the identical call must be a no-op.
	result, err = Apply(ctx, db, serverResource(), Options{State: StatePresent})
	assert.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, ActionNone, result.Action)
}

func TestApply_InsertRoundTrip(t *testing.T) {
	db := setupTestDB(t, "engine_roundtrip")
	ctx := context.Background()

	res := serverResource().
		Set("status", "OFFLINE_SOFT").
		Set("weight", 1000).
		Set("use_ssl", true).
		Set("comment", "reporting replica")

	result, err := Apply(ctx, db, res, Options{})
	assert.NoError(t, err)
	assert.True(t, result.Changed)

	row, found, err := Lookup(ctx, db, serverResource())
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "OFFLINE_SOFT", row["status"])
	assert.Equal(t, "1000", row["weight"])
	// Booleans are stored as 0/1 flags.
	assert.Equal(t, "1", row["use_ssl"])
	assert.Equal(t, "reporting replica", row["comment"])
}

func TestApply_UpdateMinimality(t *testing.T) {
	db := setupTestDB(t, "engine_update")
	ctx := context.Background()

	err := db.Exec(`INSERT INTO mysql_query_rules
		(rule_id, active, match_digest, destination_hostgroup, cache_ttl, apply, comment)
		VALUES (5, 1, '^SELECT', 2, 1000, 1, 'cached reads')`).Error
	assert.NoError(t, err)

	// Only cache_ttl differs; the update must touch exactly that column.
	res := NewResource("mysql_query_rules", AreaMySQLQueryRules).
		Identity("rule_id", 5).
		Set("active", true).
		Set("match_digest", "^SELECT").
		Set("destination_hostgroup", 2).
		Set("cache_ttl", 5000).
		Set("apply", true)

	result, err := Apply(ctx, db, res, Options{State: StatePresent})
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, ActionUpdate, result.Action)
	assert.Len(t, result.Deltas, 1)
	assert.Equal(t, "cache_ttl", result.Deltas[0].Column)
	assert.Equal(t, "1000", result.Deltas[0].Old)
	assert.Equal(t, "5000", result.Deltas[0].New)

	// Untouched columns keep their values, identity included.
	assert.Equal(t, "5000", result.Row["cache_ttl"])
	assert.Equal(t, "5", result.Row["rule_id"])
	assert.Equal(t, "cached reads", result.Row["comment"])
}

func TestApply_AbsentMissingIsNoop(t *testing.T) {
	db := setupTestDB(t, "engine_absent_noop")

	res := NewResource("mysql_query_rules", AreaMySQLQueryRules).
		Identity("rule_id", 999)

	result, err := Apply(context.Background(), db, res, Options{State: StateAbsent})
	assert.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, ActionNone, result.Action)
	assert.Nil(t, result.Row)
}

func TestApply_DeleteExisting(t *testing.T) {
	db := setupTestDB(t, "engine_delete")
	ctx := context.Background()

	_, err := Apply(ctx, db, serverResource(), Options{})
	assert.NoError(t, err)

	result, err := Apply(ctx, db, serverResource(), Options{State: StateAbsent})
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, ActionDelete, result.Action)
	// The deleted record is reported back.
	assert.Equal(t, "127.0.0.1", result.Row["hostname"])

	_, found, err := Lookup(ctx, db, serverResource())
	assert.NoError(t, err)
	assert.False(t, found)

	// Absent is now idempotent as well.
	result, err = Apply(ctx, db, serverResource(), Options{State: StateAbsent})
	assert.NoError(t, err)
	assert.False(t, result.Changed)
}

func TestApply_MatchingRowEmitsNoWrite(t *testing.T) {
	db := setupTestDB(t, "engine_match")
	ctx := context.Background()

	res := serverResource().Set("weight", 1000)
	_, err := Apply(ctx, db, res, Options{})
	assert.NoError(t, err)

	// Same declaration with a textual weight: normalization must prevent a
	// false delta ("1000" vs 1000).
	res = serverResource().Set("weight", "1000")
	result, err := Apply(ctx, db, res, Options{})
	assert.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, ActionNone, result.Action)
}

func TestApply_UpdateOnly(t *testing.T) {
	db := setupTestDB(t, "engine_updateonly")
	ctx := context.Background()

	res := NewResource("global_variables", AreaMySQLVariables).
		Identity("variable_name", "mysql-poll_timeout").
		Set("variable_value", "3000")

	// Missing variable is an error, never an insert.
	_, err := Apply(ctx, db, res, Options{UpdateOnly: true})
	var notFound *ErrNotFound
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "global_variables", notFound.Table)

	err = db.Exec(`INSERT INTO global_variables (variable_name, variable_value)
		VALUES ('mysql-poll_timeout', '2000')`).Error
	assert.NoError(t, err)

	result, err := Apply(ctx, db, res, Options{UpdateOnly: true})
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, ActionUpdate, result.Action)
	assert.Equal(t, "3000", result.Row["variable_value"])
}

func TestApply_DryRun(t *testing.T) {
	db := setupTestDB(t, "engine_dryrun")
	ctx := context.Background()

	result, err := Apply(ctx, db, serverResource(), Options{DryRun: true})
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, ActionCreate, result.Action)

	// Nothing was written.
	_, found, err := Lookup(ctx, db, serverResource())
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestApply_InvalidDescriptor(t *testing.T) {
	db := setupTestDB(t, "engine_invalid")
	ctx := context.Background()

	_, err := Apply(ctx, db, NewResource("mysql_servers", AreaMySQLServers), Options{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "identity")

	bad := NewResource("mysql_servers", AreaMySQLServers).
		Identity("hostname; DROP TABLE mysql_servers", "x")
	_, err = Apply(ctx, db, bad, Options{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column name")

	dup := serverResource().Set("hostgroup_id", 2)
	_, err = Apply(ctx, db, dup, Options{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "declared twice")

	_, err = Apply(ctx, db, serverResource(), Options{State: State("purged")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid state")
}

func TestApply_AmbiguousIdentityFirstRowWins(t *testing.T) {
	db := setupTestDB(t, "engine_ambiguous")
	ctx := context.Background()

	for _, port := range []int{3306, 3307} {
		err := db.Exec(`INSERT INTO mysql_servers (hostgroup_id, hostname, port, weight)
			VALUES (1, 'mysql01', ?, ?)`, port, port).Error
		assert.NoError(t, err)
	}

	// Identity covers only hostgroup and hostname, matching two rows; the
	// reader must settle on the first.
	res := NewResource("mysql_servers", AreaMySQLServers).
		Identity("hostgroup_id", 1).
		Identity("hostname", "mysql01")

	row, found, err := Lookup(ctx, db, res)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Contains(t, []string{"3306", "3307"}, row["port"])
}
