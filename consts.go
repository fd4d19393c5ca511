package depthlog

const (
	// DefaultSpacesPerDepth is the indent width per nesting level used
	// by the console decorator.
	DefaultSpacesPerDepth = 4

	// DefaultFuncColor is the named color applied to the function-name
	// prefix on the console. ColorNone disables the decoration.
	DefaultFuncColor = "cyan"

	// DefaultMaxFileSize bounds the rotating log file (20 GiB).
	DefaultMaxFileSize = int64(20) * 1024 * 1024 * 1024

	// DefaultMaxFiles is the number of log files kept, current file
	// included.
	DefaultMaxFiles = 1

	// DefaultLogfmtPattern is the file-sink line layout. The key order
	// and quoting are a stable contract consumed by the tree viewer
	// and by existing deployments.
	DefaultLogfmtPattern = `ts="%T" level=%l depth=%D tid=%i file="%s" line=%# func="%!" msg="%v"`

	// DefaultConsolePattern is the console line layout: clock time,
	// colored one-letter level, right-justified location, then the
	// (possibly indented and decorated) payload.
	DefaultConsolePattern = `%t [%^%L%$] %20s:%-4# | %v`

	// timeFieldFormat is ISO 8601 with millisecond precision and zone
	// offset, used both for the zerolog time field and the %T token.
	timeFieldFormat = "2006-01-02T15:04:05.000Z07:00"

	emptyString = ""
)

// Field names attached to every record by the Service facade.
const (
	fieldFile = "file"
	fieldLine = "line"
	fieldFunc = "func"
	fieldTID  = "tid"
)

const (
	errMsgNilConfig     = "depthlog config is nil."
	errMsgNilService    = "depthlog service is nil."
	errMsgConfigInvalid = "depthlog configuration is invalid."
	errMsgNoSinks       = "no logging channels enabled"
)
