package logging

import "time"

// dropWarnInterval rate-limits the stderr line emitted when the router
// queue overflows and events are dropped.
const dropWarnInterval = 5 * time.Second

// Config tunes the event router. Zero values fall back to the defaults.
type Config struct {
	EnabledSinks    []string
	BufferSize      int
	MinimumSeverity Severity
	Fields          map[string]any
	JSON            JSONConfig
	Console         ConsoleConfig
}

type JSONConfig struct {
	FlushInterval time.Duration
}

type ConsoleConfig struct {
	UseColor bool
}

func DefaultConfig() Config {
	return Config{
		EnabledSinks:    []string{"console"},
		BufferSize:      512,
		MinimumSeverity: SeverityInfo,
		JSON: JSONConfig{
			FlushInterval: 2 * time.Second,
		},
	}
}

// CloneFields returns a copy of the global field set, or nil when empty.
func (c Config) CloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
