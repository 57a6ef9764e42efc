package config

import "os"

// parseEnv overlays configuration from the environment. DATABASE_DSN is the
// documented connection-string variable; flags still override it.
func parseEnv(config *Config) {
	if dsn, ok := os.LookupEnv("DATABASE_DSN"); ok && dsn != "" {
		config.DatabaseDSN = dsn
	}
}
