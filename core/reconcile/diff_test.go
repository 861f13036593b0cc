package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualValues(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"identical strings", "ONLINE", "ONLINE", true},
		{"case differs", "ONLINE", "online", false},
		{"numeric text vs numeric text", "5000", "5000", true},
		{"numeric with different text", "0050", "50", true},
		{"flag zero one", "1", "1", true},
		{"flag mismatch", "0", "1", false},
		{"number vs word", "1", "one", false},
		{"empty vs zero", "", "0", false},
		{"negative numbers", "-1", "-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, equalValues(tt.a, tt.b))
		})
	}
}

func TestDiffRow(t *testing.T) {
	existing := map[string]string{
		"hostgroup_id":    "1",
		"hostname":        "mysql01",
		"port":            "3306",
		"status":          "ONLINE",
		"weight":          "1",
		"use_ssl":         "0",
		"max_connections": "1000",
		"comment":         "",
	}

	t.Run("Matching After Normalization", func(t *testing.T) {
		res := NewResource("mysql_servers", AreaMySQLServers).
			Identity("hostgroup_id", 1).
			Identity("hostname", "mysql01").
			Identity("port", 3306).
			Set("status", "ONLINE").
			Set("weight", 1).         // int vs text "1"
			Set("use_ssl", false).    // bool vs text "0"
			Set("max_connections", "1000")

		assert.Empty(t, diffRow(existing, res))
	})

	t.Run("Single Field Differs", func(t *testing.T) {
		res := NewResource("mysql_servers", AreaMySQLServers).
			Identity("hostgroup_id", 1).
			Set("status", "ONLINE").
			Set("weight", 1000)

		deltas := diffRow(existing, res)
		assert.Len(t, deltas, 1)
		assert.Equal(t, Delta{Column: "weight", Old: "1", New: "1000"}, deltas[0])
	})

	t.Run("Boolean Flag Flips", func(t *testing.T) {
		res := NewResource("mysql_servers", AreaMySQLServers).
			Identity("hostgroup_id", 1).
			Set("use_ssl", true)

		deltas := diffRow(existing, res)
		assert.Len(t, deltas, 1)
		assert.Equal(t, "use_ssl", deltas[0].Column)
		assert.Equal(t, "1", deltas[0].New)
	})

	t.Run("Null Column Never Matches", func(t *testing.T) {
		res := NewResource("mysql_query_rules", AreaMySQLQueryRules).
			Identity("rule_id", 1).
			Set("error_msg", "")

		deltas := diffRow(map[string]string{"rule_id": "1"}, res)
		assert.Len(t, deltas, 1)
		assert.Equal(t, "NULL", deltas[0].Old)
		assert.Equal(t, "", deltas[0].New)
	})

	t.Run("Undeclared Fields Ignored", func(t *testing.T) {
		res := NewResource("mysql_servers", AreaMySQLServers).
			Identity("hostgroup_id", 1).
			Set("weight", 1)

		// Existing row has many more columns; only weight is compared.
		assert.Empty(t, diffRow(existing, res))
	})
}
