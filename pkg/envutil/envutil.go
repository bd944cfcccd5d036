// Package envutil provides ad-hoc environment-variable lookups for the few
// call sites outside pkg/config.Load (the shift config path default,
// cmd/schedulectl flags), grounded on
// original_source/crates/common_rust/src/lib.rs's env::get_or/
// env::get_parsed_or pattern.
package envutil

import (
	"os"
	"strconv"
	"time"
)

// GetOr returns the named environment variable, or fallback if unset.
func GetOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// GetIntOr returns the named environment variable parsed as an int, or
// fallback if unset or unparseable.
func GetIntOr(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// GetDurationOr returns the named environment variable parsed with
// time.ParseDuration, or fallback if unset or unparseable.
func GetDurationOr(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
