// Package config loads EngineConfig from environment variables, following
// the teacher's env-parsing helpers (GetEnv/GetEnvBool/ParseByteSize) but
// dropping its secret-store (marble) integration, which has no analogue
// for a library-only engine core.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EngineConfig is the external configuration surface for internal/engine.
type EngineConfig struct {
	MemoryPoolSize      uint64
	RecordPoolCapacity  int
	MaxFPS              uint32
	DiagnosticsInterval time.Duration
}

// Default values applied when an environment variable is absent.
const (
	DefaultPoolSize = 64 << 20 // 64 MiB
	DefaultMaxFPS   = 0        // unbounded
)

// FromEnv builds an EngineConfig from EMBER_* environment variables,
// falling back to defaults for anything unset or unparsable.
func FromEnv() EngineConfig {
	return EngineConfig{
		MemoryPoolSize:      ParseByteSize(GetEnv("EMBER_POOL_SIZE", ""), DefaultPoolSize),
		RecordPoolCapacity:  ParseIntOrDefault(GetEnv("EMBER_RECORD_POOL_CAPACITY", ""), 0),
		MaxFPS:              uint32(ParseIntOrDefault(GetEnv("EMBER_MAX_FPS", ""), DefaultMaxFPS)),
		DiagnosticsInterval: ParseDurationOrDefault(GetEnv("EMBER_DIAGNOSTICS_INTERVAL", ""), 0),
	}
}

// GetEnv returns the value of key, or def if unset or empty.
func GetEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// GetEnvBool parses key as a bool, returning def on absence or parse error.
func GetEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// ParseIntOrDefault parses raw as an int, returning def on empty or error.
func ParseIntOrDefault(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// ParseDurationOrDefault parses raw as a time.Duration, returning def on
// empty or error.
func ParseDurationOrDefault(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

// ParseByteSize parses human-readable byte sizes like "64MB", "1GiB" or a
// bare integer byte count, returning def on empty or error.
func ParseByteSize(raw string, def uint64) uint64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	raw = strings.ToUpper(raw)

	multiplier := uint64(1)
	numeric := raw
	for _, suffix := range []struct {
		s string
		m uint64
	}{
		{"GIB", 1 << 30},
		{"MIB", 1 << 20},
		{"KIB", 1 << 10},
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"G", 1 << 30},
		{"M", 1 << 20},
		{"K", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(raw, suffix.s) {
			multiplier = suffix.m
			numeric = strings.TrimSuffix(raw, suffix.s)
			break
		}
	}

	numeric = strings.TrimSpace(numeric)
	n, err := strconv.ParseUint(numeric, 10, 64)
	if err != nil {
		return def
	}
	return n * multiplier
}

// SplitAndTrimCSV splits raw on commas and trims whitespace from each field,
// dropping empty fields.
func SplitAndTrimCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
