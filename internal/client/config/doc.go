// Package config loads runtime configuration for the taskkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. The TASKKEEPER_TOKEN environment variable.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-s string        base URL of the server (e.g. http://127.0.0.1:8080)
//	-timeout string  per-request timeout as a Go duration (e.g. 10s)
//	-token string    bearer token for whoami
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "timeout": "10s"
//	}
package config
