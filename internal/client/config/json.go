package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/aceinapril/aceinapril/internal/flagx"
	"github.com/aceinapril/aceinapril/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "10s" or as integer nanoseconds. After parsing, non-empty values are copied
// into the runtime Config.
type JsonConfig struct {
	RecordStoreAddr   string         `json:"record_store_addr"`
	RecordStoreAPIKey string         `json:"record_store_api_key"`
	DatabaseDSN       string         `json:"database_dsn"`
	RequestTimeout    timex.Duration `json:"request_timeout"`

	BlobEndpoint      string `json:"blob_endpoint"`
	BlobRegion        string `json:"blob_region"`
	BlobAccessKey     string `json:"blob_access_key"`
	BlobSecretKey     string `json:"blob_secret_key"`
	BlobBucket        string `json:"blob_bucket"`
	BlobPublicBaseURL string `json:"blob_public_base_url"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags (flagx.JsonConfigFlags); when absent,
// nothing is loaded. Read or unmarshal errors panic, matching the intended
// defaults -> json -> flags pipeline where a broken config file should stop
// startup immediately.
func parseJson(cfg *Config) {
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

	if jc.RecordStoreAddr != "" {
		cfg.RecordStoreAddr = jc.RecordStoreAddr
	}
	if jc.RecordStoreAPIKey != "" {
		cfg.RecordStoreAPIKey = jc.RecordStoreAPIKey
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.BlobEndpoint != "" {
		cfg.BlobEndpoint = jc.BlobEndpoint
	}
	if jc.BlobRegion != "" {
		cfg.BlobRegion = jc.BlobRegion
	}
	if jc.BlobAccessKey != "" {
		cfg.BlobAccessKey = jc.BlobAccessKey
	}
	if jc.BlobSecretKey != "" {
		cfg.BlobSecretKey = jc.BlobSecretKey
	}
	if jc.BlobBucket != "" {
		cfg.BlobBucket = jc.BlobBucket
	}
	if jc.BlobPublicBaseURL != "" {
		cfg.BlobPublicBaseURL = jc.BlobPublicBaseURL
	}
}
