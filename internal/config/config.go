// Package config handles configuration for the hashindex CLI, layering
// defaults, an optional JSON file, environment variables, and command-line
// flags (last writer wins).
package config

import (
	"fmt"

	"github.com/dmitrijs2005/hashindex/internal/common"
)

// Config holds runtime settings and the requested operation.
//
// Store settings:
//   - DatabaseDSN: record store location; postgres:// selects PostgreSQL,
//     anything else is treated as a local SQLite file.
//   - S3RootUser / S3RootPassword / S3Bucket / S3Region / S3BaseEndpoint:
//     blob store access (AWS S3 or a MinIO endpoint).
//
// Engine settings:
//   - ChunkSizeBytes: hasher read-buffer size.
//   - Workers: bound on concurrent uploads; 1 means sequential.
//   - Redigest: recompute fingerprints for records that already have one.
//
// Operation selection (mutually exclusive; plain upload when none is set):
//   - Check: classify the directory's files as new vs existing.
//   - Summary: report totals and duplicate groups.
//   - Digest: run the digest pass.
//   - DryRun: simulate the upload without store writes.
//   - Directory: the positional directory argument.
type Config struct {
	DatabaseDSN    string
	S3RootUser     string
	S3RootPassword string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string

	ChunkSizeBytes int
	Workers        int
	Redigest       bool

	Directory string
	DryRun    bool
	Check     bool
	Summary   bool
	Digest    bool
}

// LoadDefaults populates Config with development defaults. The SQLite DSN
// and MinIO credentials work out of the box locally and should be
// overridden in any real deployment.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "sqlite://hashindex.db"
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "corpus"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.ChunkSizeBytes = 4 * 1024 * 1024
	c.Workers = 1
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate checks the mode/argument combinations the way the CLI contract
// defines them. All violations match common.ErrValidation.
func (c *Config) Validate() error {
	modes := 0
	for _, on := range []bool{c.Check, c.Summary, c.Digest} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("%w: -check, -summary and -digest are mutually exclusive", common.ErrValidation)
	}

	switch {
	case c.Summary && c.Directory != "":
		return fmt.Errorf("%w: -summary cannot be used with a directory argument", common.ErrValidation)
	case c.Digest && c.Directory != "":
		return fmt.Errorf("%w: -digest cannot be used with a directory argument", common.ErrValidation)
	case c.Check && c.Directory == "":
		return fmt.Errorf("%w: -check requires a directory argument", common.ErrValidation)
	case !c.Summary && !c.Digest && c.Directory == "":
		return fmt.Errorf("%w: a directory argument is required", common.ErrValidation)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: -workers must be at least 1", common.ErrValidation)
	}
	if c.ChunkSizeBytes < 1 {
		return fmt.Errorf("%w: -chunk-size must be positive", common.ErrValidation)
	}
	return nil
}
