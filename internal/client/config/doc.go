// Package config loads runtime configuration for the divelog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-p string   Firestore project id
//	-d string   local cache DSN (sqlite file path or :memory:)
//	-t int      remote request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "firestore_project_id": "divelog-prod",
//	  "cache_dsn": "divelog-cache.db",
//	  "request_timeout": "10s",
//	  "session_secret": "...",
//	  "s3_region": "eu-central-1",
//	  "s3_bucket": "divelog-photos",
//	  "s3_base_endpoint": "",
//	  "s3_access_key": "...",
//	  "s3_secret_key": "..."
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
