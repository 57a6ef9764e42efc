package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/hashindex/internal/flagx"
)

// valueFlags lists the flags that consume the following argument, so the
// positional directory can be told apart from flag values.
var valueFlags = []string{
	"-d", "-u", "-p", "-b", "-g", "-e", "-chunk-size", "-workers", "-c", "-config",
	"--d", "--u", "--p", "--b", "--g", "--e", "--chunk-size", "--workers", "--config",
}

// parseFlags populates Config from command-line flags and the positional
// directory argument.
//
// Supported flags:
//
//	-d string       record store DSN (postgres://... or a SQLite path)
//	-u string       S3 root user
//	-p string       S3 root password
//	-b string       S3 bucket name
//	-g string       S3 region
//	-e string       S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-chunk-size int hasher read-buffer size, bytes
//	-workers int    concurrent uploads (1 = sequential)
//	-dry-run        simulate the upload without store writes
//	-check          classify directory files as new vs existing
//	-summary        report totals and duplicate groups
//	-digest         run the digest pass
//	-redigest       recompute existing fingerprints during the digest pass
//
// The function filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, so the -c/-config flags handled by the JSON overlay do
// not collide with this parse.
func parseFlags(config *Config) {
	parseArgs(config, os.Args[1:])
}

func parseArgs(config *Config, argv []string) {
	args := flagx.FilterArgs(argv, []string{
		"-d", "-u", "-p", "-b", "-g", "-e",
		"-chunk-size", "-workers",
		"-dry-run", "-check", "-summary", "-digest", "-redigest",
		"--d", "--u", "--p", "--b", "--g", "--e",
		"--chunk-size", "--workers",
		"--dry-run", "--check", "--summary", "--digest", "--redigest",
	})

	fs := flag.NewFlagSet("hashindex", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "record store DSN")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.IntVar(&config.ChunkSizeBytes, "chunk-size", config.ChunkSizeBytes, "hasher chunk size in bytes")
	fs.IntVar(&config.Workers, "workers", config.Workers, "concurrent uploads")

	fs.BoolVar(&config.DryRun, "dry-run", config.DryRun, "simulate the upload without writing")
	fs.BoolVar(&config.Check, "check", config.Check, "count new vs existing files")
	fs.BoolVar(&config.Summary, "summary", config.Summary, "summarize stored files and duplicates")
	fs.BoolVar(&config.Digest, "digest", config.Digest, "compute missing fingerprints")
	fs.BoolVar(&config.Redigest, "redigest", config.Redigest, "recompute existing fingerprints")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if positional := flagx.Positional(argv, valueFlags); len(positional) > 0 {
		config.Directory = positional[0]
	}
}
