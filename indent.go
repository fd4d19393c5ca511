package depthlog

import (
	"bytes"

	"go.uber.org/atomic"
)

// 64 spaces; indentation is copied out of this chunk instead of
// allocating a spaces string per record.
const spaceChunk = "                                                                "

func writeSpaces(buf *bytes.Buffer, n int) {
	for n > 0 {
		c := n
		if c > len(spaceChunk) {
			c = len(spaceChunk)
		}
		buf.WriteString(spaceChunk[:c])
		n -= c
	}
}

// IndentSink decorates records with depth-proportional indentation and
// an optional colorized function-name prefix, then forwards them to a
// wrapped sink. Depth is read live from the emitting goroutine's
// counter, not recovered from the record: the sink runs synchronously
// on the goroutine that produced the record.
//
// Only the payload is rewritten; level, timestamp, location and tid
// pass through untouched, so the wrapped sink's own pattern still
// applies to the rest of the line.
type IndentSink struct {
	next    Sink
	spaces  atomic.Int64
	fnColor atomic.String
}

// NewIndentSink wraps next with the default indent width and
// function-name color.
func NewIndentSink(next Sink) *IndentSink {
	s := &IndentSink{next: next}
	s.spaces.Store(DefaultSpacesPerDepth)
	s.fnColor.Store(DefaultFuncColor)
	return s
}

// SetSpacesPerDepth changes the indent width per nesting level.
// Negative values clamp to zero. Affects subsequent records only.
func (s *IndentSink) SetSpacesPerDepth(n int) {
	if n < 0 {
		n = 0
	}
	s.spaces.Store(int64(n))
}

// SpacesPerDepth returns the current indent width per nesting level.
func (s *IndentSink) SpacesPerDepth() int { return int(s.spaces.Load()) }

// SetFuncColor changes the named color of the function-name prefix,
// e.g. "cyan", "yellow", "bright_magenta". ColorNone or an unknown
// name disables the coloring. Affects subsequent records only.
func (s *IndentSink) SetFuncColor(name string) { s.fnColor.Store(name) }

// FuncColor returns the current function-name color name.
func (s *IndentSink) FuncColor() string { return s.fnColor.Load() }

func (s *IndentSink) Log(r *Record) error {
	d := Depth()
	indent := 0
	if d > 0 {
		indent = d * int(s.spaces.Load())
	}

	// Fast path: nothing to decorate at top level.
	if indent == 0 && r.Func == emptyString {
		return s.next.Log(r)
	}

	code := ansiColorCode(s.fnColor.Load())
	if code != emptyString && !s.colorAllowed() {
		code = emptyString
	}

	var buf bytes.Buffer
	buf.Grow(indent + len(code) + len(r.Func) + len(r.Message) + 8)
	writeSpaces(&buf, indent)
	if r.Func != emptyString {
		if code != emptyString {
			buf.WriteString(code)
		}
		buf.WriteString(r.Func)
		if code != emptyString {
			buf.WriteString(ansiReset)
		}
		buf.WriteString(": ")
	}
	buf.WriteString(r.Message)

	// Shallow copy; only the payload changes.
	out := *r
	out.Message = buf.String()
	return s.next.Log(&out)
}

func (s *IndentSink) colorAllowed() bool {
	c, ok := s.next.(interface{ ColorEnabled() bool })
	if !ok {
		return true
	}
	return c.ColorEnabled()
}
