// Package config provides centralized configuration management for wranglecli.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern WRANGLE_* for namespacing:
//
//	WRANGLE_DATABASE_HOST=db.example.com
//	WRANGLE_DATABASE_USER=analyst
//	WRANGLE_DATABASE_PASSWORD=...
//	WRANGLE_DATABASE_PROPERTIES_NAME=zillow
//	WRANGLE_LOGGING_LEVEL=debug
//	WRANGLE_PIPELINE_REFERENCE_YEAR=2021
//
// # Validation
//
// Load validates logging, paths, pipeline and telemetry settings. Database
// credentials are validated separately by DatabaseConfig.Validate, right before
// a connection is opened, so runs that read flat files need no credentials.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
