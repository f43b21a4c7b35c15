// Package db interacts with storing user attributes so they can be retrieved after the server restarts.
package db

import (
	"fmt"
	"time"
)

// Config contains options that every database backend shares.
type Config struct {
	// QueryPeriod is the amount of time that any database operation can take before it should timeout.
	QueryPeriod time.Duration
}

// Validate ensures the configuration has no errors.
func (cfg Config) Validate() error {
	switch {
	case cfg.QueryPeriod <= 0:
		return fmt.Errorf("positive query period required")
	}
	return nil
}
