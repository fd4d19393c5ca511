package depthlog

// ANSI SGR escapes for the minimal named-color table. Standard colors
// use 30-37, bright variants 90-97.
const (
	ansiReset = "\x1b[0m"

	// ColorNone disables coloring where a named color is expected.
	ColorNone = "none"
)

var ansiColors = map[string]string{
	"black":          "\x1b[30m",
	"red":            "\x1b[31m",
	"green":          "\x1b[32m",
	"yellow":         "\x1b[33m",
	"blue":           "\x1b[34m",
	"magenta":        "\x1b[35m",
	"cyan":           "\x1b[36m",
	"white":          "\x1b[37m",
	"bright_black":   "\x1b[90m",
	"bright_red":     "\x1b[91m",
	"bright_green":   "\x1b[92m",
	"bright_yellow":  "\x1b[93m",
	"bright_blue":    "\x1b[94m",
	"bright_magenta": "\x1b[95m",
	"bright_cyan":    "\x1b[96m",
	"bright_white":   "\x1b[97m",
}

// ansiColorCode resolves a named color to its SGR escape. Unknown or
// empty names (including ColorNone) resolve to the empty string, which
// callers treat as "emit no code".
func ansiColorCode(name string) string {
	if name == emptyString || name == ColorNone {
		return emptyString
	}
	return ansiColors[name]
}

// levelColor selects the SGR escape used for the %^...%$ range of a
// console pattern, keyed by the record's level string.
func levelColor(level string) string {
	switch level {
	case "trace":
		return ansiColors["bright_black"]
	case "debug":
		return ansiColors["cyan"]
	case "info":
		return ansiColors["green"]
	case "warn":
		return ansiColors["yellow"]
	case "error":
		return ansiColors["red"]
	case "fatal", "panic":
		return ansiColors["bright_red"]
	default:
		return emptyString
	}
}
