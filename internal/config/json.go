package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/hashindex/internal/flagx"
)

// JsonConfig is the DTO for the optional JSON configuration file. Only the
// store settings and engine tuning belong here; operation flags are
// command-line only.
type JsonConfig struct {
	DatabaseDSN    string `json:"database_dsn"`
	S3RootUser     string `json:"s3_root_user"`
	S3RootPassword string `json:"s3_root_password"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	ChunkSizeBytes int    `json:"chunk_size_bytes"`
	Workers        int    `json:"workers"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When no flag is given, nothing
// is loaded. An unreadable or malformed file panics: a config file that was
// explicitly requested but cannot be used is a setup fault.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.ChunkSizeBytes > 0 {
		config.ChunkSizeBytes = c.ChunkSizeBytes
	}
	if c.Workers > 0 {
		config.Workers = c.Workers
	}
}
