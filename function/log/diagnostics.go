package log

import (
	"fmt"
	"sync"
)

// Diagnostics receives non-fatal conditions raised while generating an export.
type Diagnostics interface {
	Warn(format string, elem ...any)
}

// Console prints warnings to stderr in yellow.
type Console struct{}

func (Console) Warn(format string, elem ...any) {
	Warning(format, elem...)
}

// Collector keeps warnings in memory instead of printing them.
type Collector struct {
	mu       sync.Mutex
	warnings []string
}

func (c *Collector) Warn(format string, elem ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, fmt.Sprintf(format, elem...))
}

// Warnings returns a copy of every warning recorded so far.
func (c *Collector) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.warnings))
	copy(out, c.warnings)
	return out
}
