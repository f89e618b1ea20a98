package rna

import "fmt"

// ConfigurationError reports invalid constructor arguments: malformed
// residues, conflicting inputs, out-of-range indices.
type ConfigurationError struct {
	SeqID   string
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.SeqID == "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error for %s: %s: %s", e.SeqID, e.Field, e.Message)
}
