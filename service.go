package depthlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/petermattis/goid"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Config is the depthlog bootstrap surface. Zero values fall back to
// the documented defaults during Initialize; validation happens before
// any sink is built.
type Config struct {
	// Level is the minimum level emitted ("trace" ... "panic").
	Level string `validate:"omitempty,oneof=trace debug info warn error fatal panic"`

	// ConsoleLogging enables the indenting color sink on ConsoleOut.
	ConsoleLogging bool
	// FileLogging enables the rotating logfmt file sink. When both
	// channels are disabled, file logging is enabled.
	FileLogging bool

	// LogDir is the directory for log files, created if missing.
	LogDir string
	// FilePrefix names the log file: <prefix>_YYYYMMDD_HHMMSS.log.
	FilePrefix string
	// MaxFileSize bounds one log file in bytes (default 20 GiB).
	MaxFileSize int64 `validate:"gte=0"`
	// MaxFiles is the kept file count including the current file.
	MaxFiles int `validate:"gte=0"`

	// SpacesPerDepth is the console indent width per nesting level.
	SpacesPerDepth int `validate:"gte=0"`
	// FuncColor names the console function-name color; "none"
	// disables the decoration.
	FuncColor string `validate:"omitempty,oneof=none black red green yellow blue magenta cyan white bright_black bright_red bright_green bright_yellow bright_blue bright_magenta bright_cyan bright_white"`

	// FilePattern and ConsolePattern override the default layouts.
	FilePattern    string
	ConsolePattern string

	// NoColor forces ANSI output off even on a terminal.
	NoColor bool

	// ConsoleOut is the console destination (default os.Stderr).
	ConsoleOut io.Writer `validate:"-"`
}

// DefaultConfig returns the configuration matching the reference
// deployment: info level, both channels, 20 GiB single rotating file,
// four spaces per depth, cyan function names.
func DefaultConfig() Config {
	return Config{
		Level:          "info",
		ConsoleLogging: true,
		FileLogging:    true,
		LogDir:         "logs",
		FilePrefix:     "app",
		MaxFileSize:    DefaultMaxFileSize,
		MaxFiles:       DefaultMaxFiles,
		SpacesPerDepth: DefaultSpacesPerDepth,
		FuncColor:      DefaultFuncColor,
	}
}

// Service wires the depth-aware sink chain into a zerolog logger and
// exposes the logging facade. Initialize must complete before the
// service is shared across goroutines; the logger slot itself is a
// single-writer-then-many-readers cell.
type Service struct {
	Config Config

	logger      atomic.Pointer[zerolog.Logger]
	initialized atomic.Bool

	fileSink *FileSink
	indent   *IndentSink
	console  *PatternSink
}

// NewService returns an uninitialized service for the given config.
func NewService(cfg Config) *Service {
	return &Service{Config: cfg}
}

// Initialize validates the configuration and builds the sink chain:
// a rotating logfmt file sink and/or an indenting color console sink,
// multiplexed under one zerolog logger.
func (s *Service) Initialize() error {
	if s == nil {
		return fmt.Errorf(errMsgNilService)
	}

	cfg := &s.Config
	if err := validateConfig(cfg); err != nil {
		return err
	}

	if cfg.Level == emptyString {
		cfg.Level = "info"
	}
	if cfg.FuncColor == emptyString {
		cfg.FuncColor = DefaultFuncColor
	}
	if cfg.FilePrefix == emptyString {
		cfg.FilePrefix = "app"
	}
	// If both channels are disabled, enable the file channel.
	if !cfg.ConsoleLogging && !cfg.FileLogging {
		cfg.FileLogging = true
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("setting logging level: %w", err)
	}

	var writers []io.Writer

	if cfg.FileLogging {
		if cfg.LogDir != emptyString {
			if err := os.MkdirAll(cfg.LogDir, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create logs directory: %w", err)
			}
		}
		path := filepath.Join(cfg.LogDir, MakeLogFilename(cfg.FilePrefix))
		fileSink, err := NewRotatingFileSink(path, cfg.MaxFileSize, cfg.MaxFiles)
		if err != nil {
			return fmt.Errorf("building file sink: %w", err)
		}
		if cfg.FilePattern != emptyString {
			if err := fileSink.SetPattern(cfg.FilePattern); err != nil {
				return fmt.Errorf("compiling file pattern: %w", err)
			}
		}
		s.fileSink = fileSink
		writers = append(writers, NewSinkWriter(fileSink))
	}

	if cfg.ConsoleLogging {
		out := cfg.ConsoleOut
		if out == nil {
			out = os.Stderr
		}
		console, err := NewConsoleSink(out)
		if err != nil {
			return fmt.Errorf("building console sink: %w", err)
		}
		if cfg.NoColor {
			console.SetColorEnabled(false)
		}
		if cfg.ConsolePattern != emptyString {
			if err := console.SetPattern(cfg.ConsolePattern); err != nil {
				return fmt.Errorf("compiling console pattern: %w", err)
			}
		}
		indent := NewIndentSink(console)
		indent.SetSpacesPerDepth(cfg.SpacesPerDepth)
		indent.SetFuncColor(cfg.FuncColor)
		s.console = console
		s.indent = indent
		writers = append(writers, NewSinkWriter(indent))
	}

	if len(writers) == 0 {
		return fmt.Errorf(errMsgNoSinks)
	}

	zerolog.TimeFieldFormat = timeFieldFormat

	logger := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	logger = logger.Level(level)

	s.logger.Store(&logger)
	s.initialized.Store(true)
	return nil
}

// Close flushes and closes the rotating file, if any. Safe to call
// multiple times.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	s.initialized.Store(false)
	if s.fileSink != nil {
		return s.fileSink.Close()
	}
	return nil
}

// IndentSink returns the console decorator for runtime adjustments
// (indent width, function-name color), or nil when console logging is
// disabled.
func (s *Service) IndentSink() *IndentSink { return s.indent }

// Hook installs zerolog hooks on the active logger.
func (s *Service) Hook(hooks ...zerolog.Hook) {
	if !s.initialized.Load() {
		return
	}
	for {
		oldLogger := s.logger.Load()
		if oldLogger == nil {
			return
		}
		newLogger := oldLogger.Hook(hooks...)
		if s.logger.CompareAndSwap(oldLogger, &newLogger) {
			break
		}
	}
}

// Printf-style helpers. Source location is captured at the call site.

func (s *Service) Tracef(format string, args ...interface{}) {
	s.logf(zerolog.TraceLevel, callerSkipMethod, format, args...)
}

func (s *Service) Debugf(format string, args ...interface{}) {
	s.logf(zerolog.DebugLevel, callerSkipMethod, format, args...)
}

func (s *Service) Infof(format string, args ...interface{}) {
	s.logf(zerolog.InfoLevel, callerSkipMethod, format, args...)
}

func (s *Service) Warnf(format string, args ...interface{}) {
	s.logf(zerolog.WarnLevel, callerSkipMethod, format, args...)
}

func (s *Service) Errorf(format string, args ...interface{}) {
	s.logf(zerolog.ErrorLevel, callerSkipMethod, format, args...)
}

// Fatalf logs and then exits via zerolog's fatal handling.
func (s *Service) Fatalf(format string, args ...interface{}) {
	if s == nil || !s.initialized.Load() {
		fmt.Fprintf(os.Stderr, "FATAL: "+format+"\n", args...)
		os.Exit(1)
	}
	s.logf(zerolog.FatalLevel, callerSkipMethod, format, args...)
}

// Caller skip counted from inside callerInfo: 0 is callerInfo itself,
// 1 is logf, 2 is the exported helper, 3 is the user frame.
const callerSkipMethod = 3

func (s *Service) logf(level zerolog.Level, skip int, format string, args ...interface{}) {
	if s == nil || !s.initialized.Load() {
		return
	}
	e := eventForLevel(s.logger.Load(), level)
	if e == nil {
		return
	}
	file, line, fn := callerInfo(skip)
	e.Str(fieldFile, file).Int(fieldLine, line).Str(fieldFunc, fn).Int64(fieldTID, goid.Get())
	e.Msgf(format, args...)
}

// Structured logging methods.

// TraceWith returns a LogEvent for structured Trace-level logging.
func (s *Service) TraceWith() LogEvent { return logEventBuilder(s, zerolog.TraceLevel) }

// DebugWith returns a LogEvent for structured Debug-level logging.
func (s *Service) DebugWith() LogEvent { return logEventBuilder(s, zerolog.DebugLevel) }

// InfoWith returns a LogEvent for structured Info-level logging.
// Example: svc.InfoWith().Str("user_id", id).Int("count", 5).Msg("processed")
func (s *Service) InfoWith() LogEvent { return logEventBuilder(s, zerolog.InfoLevel) }

// WarnWith returns a LogEvent for structured Warn-level logging.
func (s *Service) WarnWith() LogEvent { return logEventBuilder(s, zerolog.WarnLevel) }

// ErrorWith returns a LogEvent for structured Error-level logging.
func (s *Service) ErrorWith() LogEvent { return logEventBuilder(s, zerolog.ErrorLevel) }

// FatalWith returns a LogEvent for structured Fatal-level logging.
// The program exits after the log is written.
func (s *Service) FatalWith() LogEvent { return logEventBuilder(s, zerolog.FatalLevel) }

// With returns a LogContext for creating a child logger with
// pre-populated fields.
func (s *Service) With() LogContext {
	if s == nil || !s.initialized.Load() {
		return &logContext{context: zerolog.New(nil).With(), service: s}
	}
	logger := s.logger.Load()
	if logger == nil {
		return &logContext{context: zerolog.New(nil).With(), service: s}
	}
	return &logContext{context: logger.With(), service: s}
}

// logEventBuilder creates a log event for the given level, or a no-op
// event when the service or level is disabled.
func logEventBuilder(s *Service, level zerolog.Level) LogEvent {
	if s == nil || !s.initialized.Load() {
		return newLogEvent(nil)
	}
	return newLogEvent(eventForLevel(s.logger.Load(), level))
}
