package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents the severity level of log messages.
type LogLevel int

// Log level constants defining message severity.
const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INFO"
}

// ParseLogLevel converts a string log level to its LogLevel constant.
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return INFO
	}
}

// Options configures the logger output and rotation.
// When Path is empty only stdout is written.
type Options struct {
	Path       string
	Level      LogLevel
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger provides level-filtered logging with optional file rotation.
type Logger struct {
	loggers map[LogLevel]*log.Logger
	level   LogLevel
	mu      sync.RWMutex
}

var (
	instance *Logger
	once     sync.Once
)

// Init initializes the global logger. Only the first call has effect.
func Init(opts Options) error {
	var err error
	once.Do(func() {
		var l *Logger
		l, err = New(opts)
		if err == nil {
			instance = l
		}
	})
	return err
}

// New creates a logger writing to stdout and, when opts.Path is set, to a rotating file.
func New(opts Options) (*Logger, error) {
	var out io.Writer = os.Stdout
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		})
	}
	return NewWithWriter(out, opts.Level), nil
}

// NewWithWriter creates a logger on an arbitrary writer. Used by tests.
func NewWithWriter(w io.Writer, level LogLevel) *Logger {
	flags := log.LstdFlags | log.Lshortfile
	l := &Logger{
		loggers: make(map[LogLevel]*log.Logger, len(levelNames)),
		level:   level,
	}
	for lvl, name := range levelNames {
		l.loggers[lvl] = log.New(w, "["+name+"] ", flags)
	}
	return l
}

// SetLevel changes the minimum log level for filtering messages.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum log level.
func (l *Logger) GetLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) shouldLog(level LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

func (l *Logger) output(level LogLevel, depth int, msg string) {
	if l.shouldLog(level) {
		l.loggers[level].Output(depth+1, msg)
	}
}

// Debugf logs a formatted debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.output(DEBUG, 2, fmt.Sprintf(format, v...))
}

// Infof logs a formatted info-level message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.output(INFO, 2, fmt.Sprintf(format, v...))
}

// Warnf logs a formatted warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.output(WARN, 2, fmt.Sprintf(format, v...))
}

// Errorf logs a formatted error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.output(ERROR, 2, fmt.Sprintf(format, v...))
}

// Fatalf logs a formatted fatal-level message and exits the program.
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.output(FATAL, 2, fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Global convenience functions. They are no-ops until Init is called,
// except Fatalf which always exits.

func Debugf(format string, v ...interface{}) {
	if instance != nil {
		instance.output(DEBUG, 2, fmt.Sprintf(format, v...))
	}
}

func Infof(format string, v ...interface{}) {
	if instance != nil {
		instance.output(INFO, 2, fmt.Sprintf(format, v...))
	}
}

func Warnf(format string, v ...interface{}) {
	if instance != nil {
		instance.output(WARN, 2, fmt.Sprintf(format, v...))
	}
}

func Errorf(format string, v ...interface{}) {
	if instance != nil {
		instance.output(ERROR, 2, fmt.Sprintf(format, v...))
	}
}

func Fatalf(format string, v ...interface{}) {
	if instance != nil {
		instance.output(FATAL, 2, fmt.Sprintf(format, v...))
	} else {
		log.Printf("[FATAL] "+format, v...)
	}
	os.Exit(1)
}

// SetLevel changes the minimum log level for the global logger instance.
func SetLevel(level LogLevel) {
	if instance != nil {
		instance.SetLevel(level)
	}
}

// GetLevel returns the current minimum log level of the global logger instance.
func GetLevel() LogLevel {
	if instance != nil {
		return instance.GetLevel()
	}
	return INFO
}

// GormWriter adapts the global logger to gorm's logger.Writer interface.
// gorm formats slow-query and error lines itself; they are logged at WARN.
type GormWriter struct{}

func (GormWriter) Printf(format string, v ...interface{}) {
	Warnf(format, v...)
}

// MaskCode hides all but the last two characters of an access code.
func MaskCode(code string) string {
	r := []rune(code)
	if len(r) <= 2 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-2) + string(r[len(r)-2:])
}
