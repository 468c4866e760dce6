package cache

import "time"

// Noop satisfies Cache without storing anything. Used when redis is
// not configured and in tests.
type Noop struct{}

// Get always reports a miss.
func (Noop) Get(string, any) (bool, error) { return false, nil }

// Set discards the value.
func (Noop) Set(string, any, time.Duration) error { return nil }

// Invalidate does nothing.
func (Noop) Invalidate(string) error { return nil }
