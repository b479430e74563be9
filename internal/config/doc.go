// Package config loads metricsboard configuration.
//
// # Configuration Sources
//
// Values are layered, later sources overriding earlier ones:
//
//	1. Default()
//	2. A YAML file (METRICSBOARD_CONFIG_FILE, config.yaml or configs/config.yaml)
//	3. Environment variables, including any found in a local .env file
//
// # Environment Variables
//
// Variables are named METRICSBOARD_<SECTION>_<FIELD>:
//
//	METRICSBOARD_SERVER_PORT=8080
//	METRICSBOARD_LOGGING_LEVEL=debug
//	METRICSBOARD_UPLOAD_MAX_BYTES=10485760
//	METRICSBOARD_UPLOAD_EXTENSIONS=.csv,.xlsx
//	METRICSBOARD_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Validation
//
// The merged configuration is checked with go-playground/validator struct
// tags. Load returns an error rather than starting with an unusable setting.
//
// # Testing
//
// Tests should start from Default() and adjust fields directly.
package config
