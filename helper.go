package depthlog

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// parseLevel parses a string log level into a zerolog.Level.
// Returns zerolog.NoLevel and an error if parsing fails.
func parseLevel(level string) (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, err
	}
	return l, nil
}

// callerInfo resolves the source location skip frames above the
// caller of callerInfo itself: file basename, line, and the short
// function name (package path stripped).
func callerInfo(skip int) (file string, line int, fn string) {
	pc, f, l, ok := runtime.Caller(skip)
	if !ok {
		return emptyString, 0, emptyString
	}
	return filepath.Base(f), l, shortFuncName(pc)
}

// shortFuncName trims "github.com/org/pkg.(*T).Method" down to
// "(*T).Method".
func shortFuncName(pc uintptr) string {
	f := runtime.FuncForPC(pc)
	if f == nil {
		return emptyString
	}
	name := f.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// eventForLevel creates a zerolog event for the given level on the
// given logger, or nil when the level is disabled.
func eventForLevel(logger *zerolog.Logger, level zerolog.Level) *zerolog.Event {
	if logger == nil || level == zerolog.NoLevel {
		return nil
	}
	if logger.GetLevel() > level {
		return nil
	}
	switch level {
	case zerolog.TraceLevel:
		return logger.Trace()
	case zerolog.DebugLevel:
		return logger.Debug()
	case zerolog.InfoLevel:
		return logger.Info()
	case zerolog.WarnLevel:
		return logger.Warn()
	case zerolog.ErrorLevel:
		return logger.Error()
	case zerolog.FatalLevel:
		return logger.Fatal()
	case zerolog.PanicLevel:
		return logger.Panic()
	default:
		return nil
	}
}
