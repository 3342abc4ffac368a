// Package log provides console output mirrored to a log file, plus the
// structured zerolog logger the rest of learnpath writes diagnostics to.
package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// FileName is the name of the log file inside the log directory.
const FileName = "learnpath.log"

// Config controls the structured logger.
type Config struct {
	// Level is debug, info, warn or error. Default info.
	Level string
	// Format is json or console. Default console.
	Format string
	// Console receives Printf and Println output. Default os.Stdout.
	Console io.Writer
}

// Logger writes user-facing output to the console and everything, including
// structured records, to a log file.
type Logger struct {
	file    *os.File
	console io.Writer
	zl      zerolog.Logger
}

// New creates a logger writing to logDir/learnpath.log.
func New(logDir string, cfg Config) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(logDir, FileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}

	var out io.Writer = file
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: file, NoColor: true, TimeFormat: "2006-01-02 15:04:05"}
	}

	return &Logger{
		file:    file,
		console: console,
		zl:      zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger(),
	}, nil
}

// Zerolog returns the structured logger.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

// Printf writes a formatted message to the console and the log file.
func (l *Logger) Printf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprint(l.console, msg)
	l.zl.Info().Msg(strings.TrimRight(msg, "\n"))
}

// Println writes a message to the console and the log file with a newline.
func (l *Logger) Println(args ...interface{}) {
	msg := fmt.Sprintln(args...)
	_, _ = fmt.Fprint(l.console, msg)
	l.zl.Info().Msg(strings.TrimRight(msg, "\n"))
}

// Errorf writes a formatted error message to stderr and the log file.
func (l *Logger) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintln(os.Stderr, strings.TrimRight(msg, "\n"))
	l.zl.Error().Msg(strings.TrimRight(msg, "\n"))
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

var (
	mu           sync.RWMutex
	globalLogger *Logger
)

// Init initializes the global logger. Go's standard log package is
// redirected to the log file as well.
func Init(logDir string, cfg Config) error {
	logger, err := New(logDir, cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	globalLogger = logger
	mu.Unlock()

	stdlog.SetOutput(logger.file)
	stdlog.SetFlags(stdlog.Ldate | stdlog.Ltime)
	return nil
}

func global() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// L returns the global structured logger, or a no-op logger before Init.
func L() zerolog.Logger {
	if g := global(); g != nil {
		return g.zl
	}
	return zerolog.Nop()
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return L().With().Str("component", name).Logger()
}

// Printf uses the global logger to print formatted output.
func Printf(format string, args ...interface{}) {
	if g := global(); g != nil {
		g.Printf(format, args...)
	} else {
		fmt.Printf(format, args...)
	}
}

// Println uses the global logger to print output with newline.
func Println(args ...interface{}) {
	if g := global(); g != nil {
		g.Println(args...)
	} else {
		fmt.Println(args...)
	}
}

// Errorf uses the global logger to print formatted error output.
func Errorf(format string, args ...interface{}) {
	if g := global(); g != nil {
		g.Errorf(format, args...)
	} else {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// Close closes the global logger.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		return nil
	}
	err := globalLogger.Close()
	globalLogger = nil
	return err
}
