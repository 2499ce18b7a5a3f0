// Package config loads the SafetyPulse configuration.
//
// # Configuration Sources
//
// Values are resolved in order of precedence:
//
//	1. Environment variables (SAFETY_* prefix, optionally from a .env file)
//	2. A YAML file (config.yaml, configs/config.yaml, or SAFETY_CONFIG_FILE)
//	3. Defaults declared in struct tags and Default()
//
// # Environment Variables
//
//	SAFETY_SERVER_PORT=8080
//	SAFETY_SOURCE_SPREADSHEET_ID=1qrBA6nc9ze_...
//	SAFETY_SOURCE_SHEET_NAME="Dados Tratados"
//	SAFETY_SOURCE_COLUMNS=0=id,1=timestamp,2=sector
//	SAFETY_REFRESH_INTERVAL=30s
//	SAFETY_LOGGING_LEVEL=debug
//
// # Column Mapping
//
// Source.Columns binds positions inside Source.Range to row fields. It is plain
// data so a changed sheet layout only needs a config change.
package config
