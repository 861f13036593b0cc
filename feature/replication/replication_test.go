package replication

import (
	"context"
	"fmt"
	"testing"

	"proxysql-manager/core/reconcile"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.Exec(`CREATE TABLE mysql_replication_hostgroups (
		writer_hostgroup INTEGER PRIMARY KEY,
		reader_hostgroup INTEGER NOT NULL,
		comment VARCHAR
	)`).Error
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func TestParamsValidate(t *testing.T) {
	reader := 1
	assert.NoError(t, (&Params{WriterHostgroup: 0, ReaderHostgroup: &reader}).Validate())

	same := 2
	err := (&Params{WriterHostgroup: 2, ReaderHostgroup: &same}).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be different")

	negative := -1
	assert.Error(t, (&Params{WriterHostgroup: 0, ReaderHostgroup: &negative}).Validate())
	assert.Error(t, (&Params{WriterHostgroup: -1}).Validate())
}

func TestReconcile_HostgroupPair(t *testing.T) {
	db := setupTestDB(t, "repl_pair")
	svc := NewService(db, zap.NewNop())
	ctx := context.Background()

	reader := 1
	comment := "primary cluster"
	params := Params{WriterHostgroup: 0, ReaderHostgroup: &reader, Comment: &comment}

	result, err := svc.Reconcile(ctx, params, reconcile.Options{})
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, reconcile.ActionCreate, result.Action)
	assert.Equal(t, "1", result.Row["reader_hostgroup"])

	result, err = svc.Reconcile(ctx, params, reconcile.Options{})
	assert.NoError(t, err)
	assert.False(t, result.Changed)

	// Repointing the readers updates the existing pair in place.
	reader = 3
	result, err = svc.Reconcile(ctx, params, reconcile.Options{})
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, reconcile.ActionUpdate, result.Action)
	assert.Equal(t, "3", result.Row["reader_hostgroup"])

	result, err = svc.Reconcile(ctx, params, reconcile.Options{State: reconcile.StateAbsent})
	assert.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, reconcile.ActionDelete, result.Action)
}
