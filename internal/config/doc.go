// Package config provides loading and environment overlay for the
// status-page runtime configuration. It exposes a Default() baseline, file
// loading (JSON or YAML), and a STATUSPAGE_* env overlay.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/status-page.yaml"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	rt, _ := runtime.Open(runtime.Options{DataDir: config.DefaultDataDir(), Config: cfg})
//	defer rt.Close()
package config
