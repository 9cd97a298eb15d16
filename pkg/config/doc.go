// Package config provides configuration management using Viper.
//
// Loads and validates configuration for the database snapshot path, the
// audit-log sink, and logging, from YAML files with support for multiple
// config locations and default values.
package config
