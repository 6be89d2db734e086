package config

import (
	"fmt"
	"strings"
)

// ConfigurationError reports required settings that are absent or invalid.
// It is always fatal and is raised before any network or file work starts.
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid configuration: "+strings.Join(e.Invalid, "; "))
	}
	if len(parts) == 0 {
		return "configuration error"
	}
	return strings.Join(parts, "; ")
}

// MissingAPIKey returns the error raised when the BLS credential is absent.
func MissingAPIKey() *ConfigurationError {
	return &ConfigurationError{Missing: []string{EnvAPIKey}}
}

func (e *ConfigurationError) addInvalid(format string, args ...any) {
	e.Invalid = append(e.Invalid, fmt.Sprintf(format, args...))
}

func (e *ConfigurationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}
