package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/orcadive/divelog/internal/flagx"
	"github.com/orcadive/divelog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "10s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	FirestoreProjectID string         `json:"firestore_project_id"`
	CacheDSN           string         `json:"cache_dsn"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	SessionSecret      string         `json:"session_secret"`
	S3Region           string         `json:"s3_region"`
	S3Bucket           string         `json:"s3_bucket"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	S3AccessKey        string         `json:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Panics on read or unmarshal errors (caller should recover if desired).
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.FirestoreProjectID = jc.FirestoreProjectID
	cfg.CacheDSN = jc.CacheDSN
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.SessionSecret = jc.SessionSecret
	cfg.S3Region = jc.S3Region
	cfg.S3Bucket = jc.S3Bucket
	cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	cfg.S3AccessKey = jc.S3AccessKey
	cfg.S3SecretKey = jc.S3SecretKey
}
