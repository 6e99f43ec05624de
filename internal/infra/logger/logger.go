// internal/infra/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the global logger instance
var Log = logrus.New()

// Init configures the global logger. The returned closer releases the log
// file when LogFile is set and is a no-op otherwise.
func Init(cfg *config.AppConfig) (io.Closer, error) {
	return Configure(Log, cfg)
}

// Configure applies level, formatter and output settings to l.
func Configure(l *logrus.Logger, cfg *config.AppConfig) (io.Closer, error) {
	var closer io.Closer = nopCloser{}
	out := io.Writer(os.Stdout)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}
	l.SetOutput(out)

	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		l.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetLevel(level)
	}

	if cfg.Environment == "production" || cfg.Environment == "staging" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else {
		l.SetFormatter(&LineFormatter{TimestampFormat: "2006-01-02 15:04:05,000"})
	}

	l.Debugf("Log level set to: %s", l.GetLevel().String())
	l.Debugf("Log format set for environment: %s", cfg.Environment)
	return closer, nil
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}

// LineFormatter renders "time - LEVEL - message key=value ..." lines.
type LineFormatter struct {
	TimestampFormat string
}

func (f *LineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(e.Time.Format(f.TimestampFormat))
	b.WriteString(" - ")
	b.WriteString(strings.ToUpper(e.Level.String()))
	b.WriteString(" - ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
