package depthlog

import (
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileSink is a PatternSink over a size-rotated log file.
type FileSink struct {
	*PatternSink
	lj *lumberjack.Logger
}

// NewRotatingFileSink builds a logfmt-formatted sink over a rotating
// file. maxSize is in bytes (DefaultMaxFileSize when <= 0); maxFiles
// counts the current file plus backups (DefaultMaxFiles when <= 0).
//
// maxFiles == 1 maps to lumberjack's MaxBackups == 0, which retains
// every rotated backup. Callers that lower maxSize and want old files
// pruned should pass maxFiles >= 2.
func NewRotatingFileSink(filename string, maxSize int64, maxFiles int) (*FileSink, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	f, err := NewLogfmtFormatter()
	if err != nil {
		return nil, err
	}

	// lumberjack sizes in megabytes and counts backups excluding the
	// current file.
	mb := int(maxSize / (1024 * 1024))
	if mb <= 0 {
		mb = 1
	}
	lj := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    mb,
		MaxBackups: maxFiles - 1,
	}
	return &FileSink{PatternSink: NewPatternSink(lj, f), lj: lj}, nil
}

// Close flushes and closes the underlying rotating file.
func (s *FileSink) Close() error {
	return s.lj.Close()
}

// MakeLogFilename derives a timestamped log file name from a prefix,
// e.g. "app" -> "app_20240131_154501.log".
func MakeLogFilename(prefix string) string {
	return prefix + time.Now().Format("_20060102_150405") + ".log"
}
