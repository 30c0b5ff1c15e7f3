package config

import (
	"os"
	"strings"
	"time"
)

const (
	minRegenerationDebounce     = 200 * time.Millisecond
	maxRegenerationDebounce     = 250 * time.Millisecond
	defaultRegenerationDebounce = 220 * time.Millisecond
)

// RegenerationDebounce is the coalescing window of SKU and variant regeneration.
//
// Set via env:
// - SKU_REGEN_DEBOUNCE_MS=220 (clamped to 200..250)
func RegenerationDebounce() time.Duration {
	ms := intFromEnv("SKU_REGEN_DEBOUNCE_MS", 0)
	if ms <= 0 {
		return defaultRegenerationDebounce
	}
	d := time.Duration(ms) * time.Millisecond
	if d < minRegenerationDebounce {
		return minRegenerationDebounce
	}
	if d > maxRegenerationDebounce {
		return maxRegenerationDebounce
	}
	return d
}

// UseSameConfigDefault is the initial "use same config" toggle of new item forms.
//
// Set via env:
// - USE_SAME_CONFIG_DEFAULT=false
func UseSameConfigDefault() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("USE_SAME_CONFIG_DEFAULT")))
	return !(v == "0" || v == "false" || v == "no" || v == "n")
}

// SessionIdleTimeout is how long an untouched form session is kept in memory.
func SessionIdleTimeout() time.Duration {
	return time.Duration(intFromEnv("FORM_SESSION_IDLE_MINUTES", 30)) * time.Minute
}
