package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"crownridge/server/internal/story"
)

// Config is the full server configuration, loaded from YAML with environment
// overrides layered on top.
type Config struct {
	Addr      string        `yaml:"addr"`
	ClientDir string        `yaml:"client_dir"`
	Seed      string        `yaml:"seed"`
	NPCCount  int           `yaml:"npc_count"`
	Logging   LoggingConfig `yaml:"logging"`
	Story     story.Config  `yaml:"story"`
}

// LoggingConfig selects sinks for the event router.
type LoggingConfig struct {
	Sinks    []string `yaml:"sinks"`
	JSONPath string   `yaml:"json_path"`
	UseColor bool     `yaml:"use_color"`
}

func defaults() Config {
	return Config{
		Addr:      ":8080",
		ClientDir: "",
		Seed:      "",
		Logging: LoggingConfig{
			Sinks:    []string{"console"},
			UseColor: true,
		},
		Story: story.Config{
			Model:   "gemini-2.5-flash",
			Timeout: 6 * time.Second,
		},
	}
}

// LoadConfig reads the YAML file at path (skipped when empty) and applies
// environment overrides. Missing file with an explicit path is an error;
// everything else falls back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := defaults()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CROWNRIDGE_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("CROWNRIDGE_SEED"); v != "" {
		c.Seed = v
	}
	if v := os.Getenv("CROWNRIDGE_CLIENT_DIR"); v != "" {
		c.ClientDir = v
	}
	if v := os.Getenv("CROWNRIDGE_NPC_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.NPCCount = n
		}
	}
	if v := os.Getenv("STORY_API_URL"); v != "" {
		c.Story.URL = v
	}
	if v := os.Getenv("STORY_API_KEY"); v != "" {
		c.Story.APIKey = v
	}
	if v := os.Getenv("STORY_MODEL"); v != "" {
		c.Story.Model = v
	}
}
