// Package config loads runtime configuration for the TutorHub CLI.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config, then
//     TUTORHUB_CLIENT_* environment variables.
//  3. Command-line flags -a (server URL), -s (session db), -t (timeout).
//
// Example file:
//
//	{
//	  "server_url": "http://localhost:8080",
//	  "session_db_path": "/home/me/.config/tutorhub/session.db",
//	  "request_timeout": "10s"
//	}
package config
