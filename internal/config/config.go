package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// SlugRegex validates organization slugs on create/update.
	SlugRegex string `json:"slugRegex" yaml:"slugRegex"`
	// MaxOrganizations caps the number of organizations; 0 means unlimited.
	MaxOrganizations int `json:"maxOrganizations" yaml:"maxOrganizations"`
	// SessionSendBuffer is the per-session outbound queue length for realtime
	// transports. A full queue counts as a delivery failure for that session.
	SessionSendBuffer int `json:"sessionSendBuffer" yaml:"sessionSendBuffer"`
	// AllowPublicSubscribe permits unauthenticated status-page viewers to open
	// realtime subscriptions.
	AllowPublicSubscribe bool `json:"allowPublicSubscribe" yaml:"allowPublicSubscribe"`
	// EventHistory is the number of recent notification envelopes retained per
	// organization for replay. 0 disables the history store.
	EventHistory int `json:"eventHistory" yaml:"eventHistory"`
	// Broker configures the optional cross-instance fan-out bridge.
	Broker BrokerConfig `json:"broker" yaml:"broker"`
}

// BrokerConfig configures the RabbitMQ bridge used when running more than one
// server instance. An empty URL disables the bridge.
type BrokerConfig struct {
	URL          string `json:"url" yaml:"url"`
	Exchange     string `json:"exchange" yaml:"exchange"`
	DialAttempts int    `json:"dialAttempts" yaml:"dialAttempts"`
	DialDelayMs  int    `json:"dialDelayMs" yaml:"dialDelayMs"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		SlugRegex:            "^[a-z0-9-]{1,50}$",
		SessionSendBuffer:    64,
		AllowPublicSubscribe: true,
		EventHistory:         200,
		Broker: BrokerConfig{
			Exchange:     "status.events",
			DialAttempts: 5,
			DialDelayMs:  500,
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path
// is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
