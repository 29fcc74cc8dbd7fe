// Package config loads runtime settings for the Ace in April client.
package config

import "time"

// Config holds runtime settings for the CLI.
//
// Fields:
//   - RecordStoreAddr: base URL of the hosted record store API.
//   - RecordStoreAPIKey: API key sent with every record store request.
//   - DatabaseDSN: path/DSN of the local SQLite database holding the session.
//   - RequestTimeout: per-request timeout for record store calls.
//   - Blob*: S3-compatible bucket for submission attachments. Uploads are
//     disabled when BlobBucket is empty.
type Config struct {
	RecordStoreAddr   string
	RecordStoreAPIKey string
	DatabaseDSN       string
	RequestTimeout    time.Duration

	BlobEndpoint      string
	BlobRegion        string
	BlobAccessKey     string
	BlobSecretKey     string
	BlobBucket        string
	BlobPublicBaseURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.RecordStoreAddr = "http://127.0.0.1:54321"
	c.DatabaseDSN = "aceinapril.db"
	c.RequestTimeout = 10 * time.Second
	c.BlobRegion = "auto"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
