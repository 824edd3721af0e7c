// Package logging builds the slog logger used by the toolshop CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/marshallshelly/toolshop-fixtures/pkg/config"
)

var (
	infoColor  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warnColor  = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#EE6FF8"}
	errorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}
	debugColor = lipgloss.AdaptiveColor{Light: "#7E57C2", Dark: "#7E57C2"}
)

func styles() *log.Styles {
	s := log.DefaultStyles()

	level := func(icon string, color lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().SetString(icon).Bold(true).Padding(0, 1).Foreground(color)
	}
	s.Levels[log.ErrorLevel] = level("❌", errorColor)
	s.Levels[log.WarnLevel] = level("⚠️", warnColor)
	s.Levels[log.InfoLevel] = level("ℹ️", infoColor)
	s.Levels[log.DebugLevel] = level("🐛", debugColor)

	s.Keys["error"] = lipgloss.NewStyle().Foreground(errorColor)
	s.Values["error"] = lipgloss.NewStyle().Bold(true)
	s.Keys["stage"] = lipgloss.NewStyle().Foreground(infoColor)
	s.Values["stage"] = lipgloss.NewStyle().Bold(true)
	return s
}

// Logger is a configured slog logger plus the rotating file behind it, if any.
type Logger struct {
	*slog.Logger
	file io.Closer
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// New builds a logger writing to w and, when cfg.File is set, to a rotating file.
func New(cfg config.Log, w io.Writer) (*Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	formatter := log.TextFormatter
	if cfg.Format == "json" {
		formatter = log.JSONFormatter
	}

	out := &Logger{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		out.file = file
		w = io.MultiWriter(w, file)
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           level,
		Prefix:          "toolshop",
		Formatter:       formatter,
	})
	logger.SetStyles(styles())

	out.Logger = slog.New(logger)
	return out, nil
}

// Setup builds a stderr logger and installs it as the slog default.
func Setup(cfg config.Log) (*Logger, error) {
	logger, err := New(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.Logger)
	return logger, nil
}
