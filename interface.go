package depthlog

// Logger provides structured logging scoped by the current call depth.
// Prefer the structured methods (InfoWith, ErrorWith, ...) over the
// printf-style helpers on Service for queryable output.
type Logger interface {
	TraceWith() LogEvent
	DebugWith() LogEvent
	InfoWith() LogEvent
	WarnWith() LogEvent
	ErrorWith() LogEvent
	FatalWith() LogEvent

	// With creates a new logger with pre-populated fields included in
	// all subsequent logs.
	// Example: reqLogger := logger.With().Str("request_id", id).Logger()
	With() LogContext
}
