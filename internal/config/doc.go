// Package config provides configuration structures and utilities for
// linklint. It defines the crawl options (site root, base URL, network
// timeout, retry and concurrency limits) and the report generation
// preferences, populated from CLI flags and an optional YAML file.
package config
