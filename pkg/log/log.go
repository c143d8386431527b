package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Level is a configured minimum severity.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Format selects the console rendering, mirroring the CLI's
// --log-format {Full,Compact,Pretty} flag (spec.md §6).
type Format string

const (
	FormatFull    Format = "Full"
	FormatCompact Format = "Compact"
	FormatPretty  Format = "Pretty"
)

// Config holds logging configuration.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

func init() {
	// A sane default so packages that log before main calls Init
	// (tests, early CLI errors) don't panic on a zero-value Logger.
	Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Init initializes the global logger from cfg.
func Init(cfg Config) {
	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case InfoLevel:
		level = zerolog.InfoLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	switch cfg.Format {
	case FormatCompact:
		Logger = zerolog.New(output).With().Timestamp().Logger()
	case FormatPretty:
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: "15:04:05",
		}).With().Timestamp().Logger()
	default: // FormatFull
		Logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
}

// WithComponent creates a child logger tagged with a component field.
func WithComponent(component string) zerolog.Logger {
	return Logger.With().Str("component", component).Logger()
}

// WithUser creates a child logger tagged with the acting user.
func WithUser(uid string) zerolog.Logger {
	return Logger.With().Str("user", uid).Logger()
}

// WithResource creates a child logger tagged with a resource id.
func WithResource(resourceID string) zerolog.Logger {
	return Logger.With().Str("resource", resourceID).Logger()
}

// WithSpan creates a child logger carrying a correlation id, the Go
// stand-in for the per-session tracing span spec.md §4.5 asks for.
func WithSpan(spanID string) zerolog.Logger {
	return Logger.With().Str("span", spanID).Logger()
}

func Info(msg string)  { Logger.Info().Msg(msg) }
func Debug(msg string) { Logger.Debug().Msg(msg) }
func Warn(msg string)  { Logger.Warn().Msg(msg) }
func Error(msg string) { Logger.Error().Msg(msg) }

func Errorf(format string, err error) {
	Logger.Error().Err(err).Msg(format)
}

func Fatal(msg string) { Logger.Fatal().Msg(msg) }
