package log

import (
	stdlog "log"
	"strings"
)

// stdWriter adapts a Logger to io.Writer so stdlib log output can be routed
// through the structured pipeline.
type stdWriter struct {
	logger Logger
}

func (w stdWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg != "" {
		w.logger.Info(msg)
	}
	return len(p), nil
}

// ToStdLogger returns a *log.Logger whose output is routed through logger.
// Useful for libraries that only accept the standard library logger.
func ToStdLogger(logger Logger) *stdlog.Logger {
	return stdlog.New(stdWriter{logger: logger.WithComponent("stdlog")}, "", 0)
}

// RedirectStdLog points the global standard library logger at logger.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdWriter{logger: logger.WithComponent("stdlog")})
}
