// Package server reconciles backend MySQL server entries in the
// mysql_servers admin table.
//
// A backend server is identified by (hostgroup_id, hostname, port). All
// other columns (status, weight, compression, max_connections,
// max_replication_lag, use_ssl, max_latency_ms, comment) are optional;
// undeclared columns keep ProxySQL's defaults on insert and their current
// values on update.
//
// Changes take effect in the MYSQL SERVERS configuration area: LOAD MYSQL
// SERVERS TO RUNTIME activates them, SAVE MYSQL SERVERS TO DISK persists
// them.
package server
