package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	LevelTrace slog.Level = slog.LevelDebug - 4
	levelNone  slog.Level = slog.LevelError + 100
)

var noClose = io.NopCloser(nil)

// LogConfiguration is the logger section of the configuration, usually read
// from a YAML file with flags overriding individual fields.
type LogConfiguration struct {
	Level string `yaml:"defaultLevel"`
	// Format is "text" (default) or "json".
	Format string `yaml:"format"`
	// OutputPath is "stdout" (default), "stderr", "discard" or a file name.
	OutputPath string `yaml:"outputPath"`
	// TimeFormat is a Go time layout, "none" to drop the time or empty for
	// the handler default.
	TimeFormat string `yaml:"timeFormat"`
}

// LoadConfiguration decodes a YAML logger configuration.
func LoadConfiguration(r io.Reader) (*LogConfiguration, error) {
	cfg := &LogConfiguration{}
	if err := yaml.NewDecoder(r).Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding logger configuration: %w", err)
	}
	return cfg, nil
}

// New builds a logger from cfg. The returned closer releases the output file
// when OutputPath names one.
func New(cfg *LogConfiguration) (*slog.Logger, io.Closer, error) {
	w, closer, err := cfg.writer()
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{
		Level:       cfg.logLevel(),
		ReplaceAttr: formatTimeAttr(cfg.TimeFormat),
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, opts)
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return slog.New(h), closer, nil
}

// Discard returns a logger that drops everything. Mostly for tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func (cfg *LogConfiguration) writer() (io.Writer, io.Closer, error) {
	switch cfg.OutputPath {
	case "", "stdout":
		return os.Stdout, noClose, nil
	case "stderr":
		return os.Stderr, noClose, nil
	case "discard", os.DevNull:
		return io.Discard, noClose, nil
	}
	f, err := os.OpenFile(filepath.Clean(cfg.OutputPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, f, nil
}

func (cfg *LogConfiguration) logLevel() slog.Level {
	if cfg.OutputPath == "discard" || cfg.OutputPath == os.DevNull {
		return levelNone
	}

	switch s := strings.ToUpper(cfg.Level); s {
	case "":
		return slog.LevelInfo
	case "TRACE":
		return LevelTrace
	case "NONE":
		return levelNone
	case "WARNING":
		return slog.LevelWarn
	default:
		var l slog.Level
		if err := l.UnmarshalText([]byte(s)); err != nil {
			return slog.LevelInfo
		}
		return l
	}
}

func formatTimeAttr(format string) func(groups []string, a slog.Attr) slog.Attr {
	switch format {
	case "":
		return nil
	case "none":
		return func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		}
	default:
		return func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t := a.Value.Time(); !t.IsZero() {
					a.Value = slog.StringValue(t.Format(format))
				}
			}
			return a
		}
	}
}
