// Package config loads and validates crawl configuration files.
// A configuration file is YAML; JSON files load unchanged because YAML is a
// superset of JSON. Keys that are absent keep the defaults from NewConfig.
package config
