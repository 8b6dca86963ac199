// Package featureflags reads on/off switches from FLAG_<NAME> environment
// variables.
package featureflags

import (
	"os"
	"strings"
)

// Known flags
const (
	// SanitizeInputs rejects query strings with markup or control characters.
	SanitizeInputs = "SANITIZE_INPUTS"
	// ReceivablesWorker runs the periodic unpaid-bill scan.
	ReceivablesWorker = "RECEIVABLES_WORKER"
)

// defaults apply when the variable is unset
var defaults = map[string]bool{
	SanitizeInputs:    false,
	ReceivablesWorker: true,
}

// Enabled reports whether FLAG_<name> is set to true/1/yes/on. Any other
// non-empty value turns the flag off.
func Enabled(name string) bool {
	name = strings.ToUpper(name)
	v, ok := os.LookupEnv("FLAG_" + name)
	if !ok || v == "" {
		return defaults[name]
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
