package engine

import "github.com/mikkokotila/eightchars/conventions"

// Config holds the engine configuration.
type Config struct {
	// Conventions applies when a request leaves its conventions unset.
	Conventions conventions.Settings

	// OTLPEndpoint, when non-empty, is passed to observability.NewObserver
	// by the process entry point.
	OTLPEndpoint string
}

// DefaultConfig returns the default configuration: split-midnight zi
// convention, true-solar hour and day-boundary bases, stdout tracing.
func DefaultConfig() Config {
	return Config{
		Conventions: conventions.Default(),
	}
}
