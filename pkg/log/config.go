package log

import "fmt"

// Config declaratively describes a logger.
type Config struct {
	// Level is one of debug|info|warn|error|fatal. Empty means info.
	Level string `json:"level" yaml:"level"`
	// Format is one of text|json. Empty means text.
	Format string `json:"format" yaml:"format"`
	// Output is one of console|file|null. Empty means console.
	Output string `json:"output" yaml:"output"`
	// File configures the rotating file output when Output is "file".
	File FileOutputOptions `json:"file" yaml:"file"`
}

// ApplyConfig builds a Logger from a declarative Config.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var formatter Formatter
	switch cfg.Format {
	case "", "text":
		formatter = &TextFormatter{}
	case "json":
		formatter = &JSONFormatter{}
	default:
		return nil, fmt.Errorf("log: unknown format %q", cfg.Format)
	}

	var output Output
	switch cfg.Output {
	case "", "console":
		output = NewConsoleOutput()
	case "file":
		if cfg.File.Path == "" {
			return nil, fmt.Errorf("log: file output requires a path")
		}
		output = NewFileOutput(cfg.File)
	case "null":
		output = NewNullOutput()
	default:
		return nil, fmt.Errorf("log: unknown output %q", cfg.Output)
	}

	return NewLogger(WithLevel(level), WithFormatter(formatter), WithOutput(output)), nil
}
