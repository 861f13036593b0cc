// Package admin handles connections to the ProxySQL admin interface.
//
// The admin interface speaks the MySQL wire protocol (default port 6032) but
// is not a MySQL server: it has no server-side prepared statements and its
// configuration lives in SQLite-backed tables. The package wraps GORM with a
// connection recipe that works within those constraints.
//
// # Connect
//
// Connect establishes a single connection to the admin listener, verifies it
// with a ping, and returns a *gorm.DB handle. Statement parameters are
// interpolated client-side (interpolateParams) because the admin interface
// rejects the binary prepared-statement protocol.
//
// # Credentials
//
// Login credentials come from the admin Config, optionally overridden by a
// my.cnf-style credentials file ([client] section) named by ConfigFile.
//
// # Usage
//
//	cfg := admin.Config{Host: "127.0.0.1", Port: 6032, User: "admin", Password: "admin"}
//	db, err := admin.Connect(cfg)
package admin
