package config

import (
	"os"
	"strconv"
	"time"
)

// Helpers shared by the config structs in this package. Defaults fill only
// empty fields, merges only take non-zero overlay values, and env overrides
// win over both.

func defaultString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func defaultInt(dst *int, v int) {
	if *dst == 0 {
		*dst = v
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func mergeInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// duration converts an already-validated duration string.
func duration(v string) time.Duration {
	d, _ := time.ParseDuration(v)
	return d
}
