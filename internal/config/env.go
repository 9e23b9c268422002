package config

import (
	"os"
	"strconv"
)

// FromEnv overlays STATUSPAGE_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("STATUSPAGE_SLUG_REGEX"); v != "" {
		cfg.SlugRegex = v
	}
	if v := os.Getenv("STATUSPAGE_MAX_ORGANIZATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxOrganizations = n
		}
	}
	if v := os.Getenv("STATUSPAGE_SESSION_SEND_BUFFER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionSendBuffer = n
		}
	}
	if v := os.Getenv("STATUSPAGE_ALLOW_PUBLIC_SUBSCRIBE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AllowPublicSubscribe = b
		}
	}
	if v := os.Getenv("STATUSPAGE_EVENT_HISTORY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.EventHistory = n
		}
	}
	if v := os.Getenv("STATUSPAGE_BROKER_URL"); v != "" {
		cfg.Broker.URL = v
	}
	if v := os.Getenv("STATUSPAGE_BROKER_EXCHANGE"); v != "" {
		cfg.Broker.Exchange = v
	}
	if v := os.Getenv("STATUSPAGE_BROKER_DIAL_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Broker.DialAttempts = n
		}
	}
	if v := os.Getenv("STATUSPAGE_BROKER_DIAL_DELAY_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Broker.DialDelayMs = n
		}
	}
}
