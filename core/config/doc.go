// Package config provides configuration management for the Inventory Manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults are declared on the section structs through
// `default` tags and registered by reflection, so every key can be overridden
// with an environment variable named SECTION_KEY (e.g. CACHE_DRIVER=redis).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, timeouts)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials, bucket and snapshot object
//   - Log: Logging level and format
//   - Cache: memory or Redis cache and entry TTL
//   - Metrics: Prometheus namespace and route
//   - Engine: dataset backend, enrichment batch size, fetch timeout
//
// The loaded configuration is validated with the `validate` tags of each section.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
