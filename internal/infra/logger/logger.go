// internal/infra/logger/logger.go
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05,000"

// New builds the application logger. Records go to cfg.LogFile (truncated on
// start) and are mirrored to stdout. The returned closer releases the file.
func New(cfg *config.AppConfig) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetReportCaller(true)

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
		}
		out = io.MultiWriter(f, os.Stdout)
		closer = f
	}
	log.SetOutput(out)

	// Set Log Level
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(level)
	}

	// Set Log Formatter
	if cfg.Environment == "production" || cfg.Environment == "staging" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else {
		log.SetFormatter(&LineFormatter{})
	}

	log.Debugf("Log level set to: %s", log.GetLevel().String())
	return log, closer, nil
}

// LineFormatter renders "<time> - <LEVEL> - <message> - <source>" followed by
// any structured fields as key=value pairs.
type LineFormatter struct{}

func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	b.WriteString(entry.Time.Format(timestampFormat))
	b.WriteString(" - ")
	b.WriteString(strings.ToUpper(entry.Level.String()))
	b.WriteString(" - ")
	b.WriteString(entry.Message)
	b.WriteString(" - ")
	b.WriteString(source(entry))

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == "component" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := entry.Data[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		fmt.Fprintf(&b, " %s=%q", k, fmt.Sprint(v))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// source prefers the component field, then the caller location.
func source(entry *logrus.Entry) string {
	name := "main"
	if c, ok := entry.Data["component"].(string); ok && c != "" {
		name = c
	}
	if entry.HasCaller() {
		return fmt.Sprintf("%s (%s:%d)", name, filepath.Base(entry.Caller.File), entry.Caller.Line)
	}
	return name
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
