package depthlog

import (
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// InstallDepthFlag registers the depth token 'D' on a formatter, for
// callers who manage their own patterns and sinks. Must be called
// before the formatter's pattern is compiled.
func InstallDepthFlag(f *PatternFormatter) error {
	return f.AddFlag('D', DepthFlag{})
}

// NewLogfmtFormatter returns a formatter with the depth flag installed
// and the reference logfmt pattern compiled.
func NewLogfmtFormatter() (*PatternFormatter, error) {
	f := NewPatternFormatter()
	if err := InstallDepthFlag(f); err != nil {
		return nil, err
	}
	if err := f.SetPattern(DefaultLogfmtPattern); err != nil {
		return nil, err
	}
	return f, nil
}

// defaultService is the process-wide logger slot. Install it once at
// startup, before spawning goroutines that log; concurrent logging
// during installation is undefined.
var defaultService atomic.Pointer[Service]

// Init builds a Service from the config, initializes it and installs
// it as the process default.
func Init(cfg Config) (*Service, error) {
	s := NewService(cfg)
	if err := s.Initialize(); err != nil {
		return nil, err
	}
	SetDefault(s)
	return s, nil
}

// Default returns the process-default service, or nil before Init.
func Default() *Service { return defaultService.Load() }

// SetDefault installs a service as the process default.
func SetDefault(s *Service) { defaultService.Store(s) }

// Package-level helpers forwarding to the default service.

func Tracef(format string, args ...interface{}) {
	Default().logf(zerolog.TraceLevel, callerSkipMethod, format, args...)
}

func Debugf(format string, args ...interface{}) {
	Default().logf(zerolog.DebugLevel, callerSkipMethod, format, args...)
}

func Infof(format string, args ...interface{}) {
	Default().logf(zerolog.InfoLevel, callerSkipMethod, format, args...)
}

func Warnf(format string, args ...interface{}) {
	Default().logf(zerolog.WarnLevel, callerSkipMethod, format, args...)
}

func Errorf(format string, args ...interface{}) {
	Default().logf(zerolog.ErrorLevel, callerSkipMethod, format, args...)
}

// InfoWith returns a structured event on the default service.
func InfoWith() LogEvent { return logEventBuilder(Default(), zerolog.InfoLevel) }

// DebugWith returns a structured event on the default service.
func DebugWith() LogEvent { return logEventBuilder(Default(), zerolog.DebugLevel) }

// WarnWith returns a structured event on the default service.
func WarnWith() LogEvent { return logEventBuilder(Default(), zerolog.WarnLevel) }

// ErrorWith returns a structured event on the default service.
func ErrorWith() LogEvent { return logEventBuilder(Default(), zerolog.ErrorLevel) }
