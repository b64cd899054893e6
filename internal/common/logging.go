// Package common provides logging and build information shared by the volc-mcp packages.
package common

import (
	"io"
	"os"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

const logTimeFormat = "2006-01-02T15:04:05Z07:00"

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"` // console, file
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// Logger wraps arbor.ILogger to provide a consistent interface
type Logger struct {
	arbor.ILogger
}

// discardWriter implements writers.IWriter and discards all output.
type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// ConsoleOutput picks the console log stream. The stdio transport owns
// stdout for JSON-RPC frames, so its logs go to stderr.
func ConsoleOutput(stdio bool) io.Writer {
	if stdio {
		return os.Stderr
	}
	return os.Stdout
}

// NewLoggerFromConfig builds the process logger. console receives the
// "console" output; a nil console means stderr.
func NewLoggerFromConfig(cfg LoggingConfig, console io.Writer) *Logger {
	if console == nil {
		console = os.Stderr
	}
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	l := arbor.NewLogger()
	for _, out := range outputs {
		switch out {
		case "console":
			l = l.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				Writer:     console,
				TimeFormat: logTimeFormat,
			})
		case "file":
			l = l.WithFileWriter(fileWriterConfig(cfg))
		}
	}

	return &Logger{ILogger: l.WithLevelFromString(level)}
}

func fileWriterConfig(cfg LoggingConfig) models.WriterConfiguration {
	path := cfg.FilePath
	if path == "" {
		path = "logs/volc-mcp.log"
	}
	maxSize := int64(cfg.MaxSizeMB) << 20
	if maxSize <= 0 {
		maxSize = 10 << 20
	}
	backups := cfg.MaxBackups
	if backups <= 0 {
		backups = 3
	}
	return models.WriterConfiguration{
		Type:       models.LogWriterTypeFile,
		FileName:   path,
		MaxSize:    maxSize,
		MaxBackups: backups,
		TimeFormat: logTimeFormat,
	}
}

// NewSilentLogger creates a logger that discards all output. Components
// fall back to it when no logger is supplied.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})}
}

// WithCorrelationId returns a new Logger with a correlation ID set.
// Tool handlers use one per invocation.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
