// Package logger configures the process-wide zerolog logger.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the global logger. It writes JSON to stderr until Init is called.
var Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// Config controls level, output format and destination.
type Config struct {
	Level        string    `json:"level" yaml:"level"`   // debug, info, warn, error
	Format       string    `json:"format" yaml:"format"` // json or pretty
	TimeFormat   string    `json:"time_format" yaml:"time_format"`
	ReportCaller bool      `json:"report_caller" yaml:"report_caller"`
	Output       io.Writer `json:"-" yaml:"-"` // defaults to stderr
}

// Init replaces the global logger. Unknown levels fall back to info.
func Init(cfg Config) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := cfg.Output
	if out == nil {
		// stdout is reserved for command output.
		out = os.Stderr
	}
	if cfg.Format == "pretty" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
	}

	if cfg.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.ReportCaller {
		ctx = ctx.Caller()
	}

	Logger = ctx.Logger()
	log.Logger = Logger
}

// Debug starts a debug event.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info starts an info event.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn starts a warning event.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error starts an error event.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Ctx returns the logger stored in ctx, or the global logger when there is none.
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}
