// Package config provides configuration management for the ProxySQL manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Admin: ProxySQL admin interface connection details
//   - Log: logging level and format
//
// Environment variables map onto nested keys with underscores, e.g.
// ADMIN_HOST -> admin.host, LOG_LEVEL -> log.level.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db, err := admin.Connect(cfg.Admin)
package config
