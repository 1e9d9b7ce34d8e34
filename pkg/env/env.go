// Package env reads raw process environment values. Typed configuration
// goes through pkg/config; this covers the few knobs consulted before the
// config layer loads, like the log output format.
package env

import "os"

// Get returns the variable's value, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
