package reconcile

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestParseArea(t *testing.T) {
	area, err := ParseArea("mysql servers")
	assert.NoError(t, err)
	assert.Equal(t, AreaMySQLServers, area)

	area, err = ParseArea("  Admin Variables ")
	assert.NoError(t, err)
	assert.Equal(t, AreaAdminVariables, area)

	_, err = ParseArea("mysql replication")
	assert.Error(t, err)
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     Command
		wantErr string
	}{
		{
			name: "load to runtime",
			cmd:  Command{ActionLoad, AreaMySQLUsers, DirectionTo, LayerRuntime},
		},
		{
			name: "save to disk",
			cmd:  Command{ActionSave, AreaScheduler, DirectionTo, LayerDisk},
		},
		{
			name: "save from runtime",
			cmd:  Command{ActionSave, AreaMySQLVariables, DirectionFrom, LayerRuntime},
		},
		{
			name: "load from config",
			cmd:  Command{ActionLoad, AreaMySQLServers, DirectionFrom, LayerConfig},
		},
		{
			name:    "save to config",
			cmd:     Command{ActionSave, AreaMySQLServers, DirectionTo, LayerConfig},
			wantErr: "CONFIG layer",
		},
		{
			name:    "load to config",
			cmd:     Command{ActionLoad, AreaMySQLServers, DirectionTo, LayerConfig},
			wantErr: "CONFIG layer",
		},
		{
			name:    "bad area",
			cmd:     Command{ActionLoad, Area("MYSQL PROXIES"), DirectionTo, LayerRuntime},
			wantErr: "unknown configuration area",
		},
		{
			name:    "bad action",
			cmd:     Command{CommandAction("FLUSH"), AreaMySQLServers, DirectionTo, LayerRuntime},
			wantErr: "invalid action",
		},
		{
			name:    "bad layer",
			cmd:     Command{ActionLoad, AreaMySQLServers, DirectionTo, Layer("CACHE")},
			wantErr: "invalid layer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCommandSQL(t *testing.T) {
	cmd := Command{ActionLoad, AreaMySQLQueryRules, DirectionTo, LayerRuntime}
	assert.Equal(t, "LOAD MYSQL QUERY RULES TO RUNTIME", cmd.SQL())

	cmd = Command{ActionSave, AreaAdminVariables, DirectionTo, LayerDisk}
	assert.Equal(t, "SAVE ADMIN VARIABLES TO DISK", cmd.SQL())
}

func TestRunCommand(t *testing.T) {
	t.Run("Executes Assembled Statement", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectExec("LOAD SCHEDULER TO RUNTIME").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := RunCommand(context.Background(), db,
			Command{ActionLoad, AreaScheduler, DirectionTo, LayerRuntime})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Command Never Reaches The Connection", func(t *testing.T) {
		db, mock := setupMockDB(t)

		err := RunCommand(context.Background(), db,
			Command{ActionSave, AreaMySQLServers, DirectionTo, LayerConfig})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
