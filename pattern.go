package depthlog

import (
	"bytes"
	"fmt"
	"strconv"
)

// FlagFormatter is the extension point of the pattern mini-language.
// A flag is bound to a single-character token and invoked once per
// record while that record is being rendered. Implementations must be
// cloneable so every sink can hold an independent formatter chain.
type FlagFormatter interface {
	Format(r *Record, buf *bytes.Buffer)
	Clone() FlagFormatter
}

// DepthFlag renders the calling goroutine's current depth as a decimal
// literal. The value is read at render time, never cached on the
// record: rendering happens synchronously on the emitting goroutine,
// so this observes the depth at the emission point.
type DepthFlag struct{}

func (DepthFlag) Format(_ *Record, buf *bytes.Buffer) {
	buf.WriteString(strconv.Itoa(Depth()))
}

func (DepthFlag) Clone() FlagFormatter { return DepthFlag{} }

type segKind uint8

const (
	segLiteral segKind = iota
	segField
	segColorStart
	segColorEnd
)

type padSpec struct {
	width int
	left  bool
}

type segment struct {
	kind    segKind
	literal string
	render  func(r *Record, buf *bytes.Buffer)
	pad     padSpec
}

// PatternFormatter compiles a pattern string of single-character
// %-tokens into a segment list and renders records against it.
//
// Built-in tokens:
//
//	%T  ISO 8601 timestamp with milliseconds and zone
//	%t  clock time HH:MM:SS
//	%l  level word
//	%L  one-letter level
//	%i  goroutine id
//	%s  source file basename
//	%#  source line
//	%!  function name
//	%v  message payload
//	%^  level-color range start (console sinks only)
//	%$  level-color range end
//	%%  literal percent sign
//
// A token may carry a width modifier: %20s right-justifies to 20
// columns, %-6# left-justifies to 6. Additional tokens are bound with
// AddFlag before SetPattern compiles the pattern.
//
// A PatternFormatter is not safe for concurrent use; sinks serialize
// rendering and each sink owns its own Clone.
type PatternFormatter struct {
	custom  map[byte]FlagFormatter
	pattern string
	segs    []segment
	color   bool
}

func NewPatternFormatter() *PatternFormatter {
	return &PatternFormatter{custom: make(map[byte]FlagFormatter)}
}

// AddFlag binds a custom token. It must be called before SetPattern;
// binding a token that is already built in is rejected.
func (f *PatternFormatter) AddFlag(c byte, ff FlagFormatter) error {
	if ff == nil {
		return fmt.Errorf("pattern flag %q: nil formatter", c)
	}
	if isBuiltinFlag(c) {
		return fmt.Errorf("pattern flag %q is built in", c)
	}
	f.custom[c] = ff
	return nil
}

// SetPattern compiles the pattern. Unknown tokens are a compile error.
func (f *PatternFormatter) SetPattern(pattern string) error {
	segs, err := f.compile(pattern)
	if err != nil {
		return err
	}
	f.pattern = pattern
	f.segs = segs
	return nil
}

// Pattern returns the last successfully compiled pattern string.
func (f *PatternFormatter) Pattern() string { return f.pattern }

// SetColorEnabled toggles whether %^...%$ ranges emit ANSI codes.
func (f *PatternFormatter) SetColorEnabled(on bool) { f.color = on }

// Clone returns an independent formatter with the same custom flags
// and pattern. Custom flags are cloned, not shared.
func (f *PatternFormatter) Clone() *PatternFormatter {
	c := NewPatternFormatter()
	for tok, ff := range f.custom {
		c.custom[tok] = ff.Clone()
	}
	c.color = f.color
	if f.pattern != emptyString {
		// f.pattern was validated by the prior SetPattern.
		_ = c.SetPattern(f.pattern)
	}
	return c
}

// Format renders the record through the compiled pattern.
func (f *PatternFormatter) Format(r *Record, buf *bytes.Buffer) {
	for i := range f.segs {
		seg := &f.segs[i]
		switch seg.kind {
		case segLiteral:
			buf.WriteString(seg.literal)
		case segField:
			if seg.pad.width == 0 {
				seg.render(r, buf)
				continue
			}
			var tmp bytes.Buffer
			seg.render(r, &tmp)
			writePadded(buf, tmp.Bytes(), seg.pad)
		case segColorStart:
			if f.color {
				buf.WriteString(levelColor(r.Level))
			}
		case segColorEnd:
			if f.color {
				buf.WriteString(ansiReset)
			}
		}
	}
}

func (f *PatternFormatter) compile(pattern string) ([]segment, error) {
	var segs []segment
	var lit bytes.Buffer

	flushLiteral := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{kind: segLiteral, literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			lit.WriteByte(c)
			continue
		}
		i++
		if i >= len(pattern) {
			return nil, fmt.Errorf("pattern ends with a dangling %%")
		}

		var pad padSpec
		if pattern[i] == '-' {
			pad.left = true
			i++
		}
		for i < len(pattern) && pattern[i] >= '0' && pattern[i] <= '9' {
			pad.width = pad.width*10 + int(pattern[i]-'0')
			i++
		}
		if i >= len(pattern) {
			return nil, fmt.Errorf("pattern ends inside a width modifier")
		}

		tok := pattern[i]
		if tok == '%' && pad.width == 0 && !pad.left {
			lit.WriteByte('%')
			continue
		}

		seg, err := f.fieldSegment(tok)
		if err != nil {
			return nil, err
		}
		seg.pad = pad
		flushLiteral()
		segs = append(segs, seg)
	}
	flushLiteral()
	return segs, nil
}

func (f *PatternFormatter) fieldSegment(tok byte) (segment, error) {
	switch tok {
	case 'T':
		return segment{kind: segField, render: appendTimestamp}, nil
	case 't':
		return segment{kind: segField, render: appendClock}, nil
	case 'l':
		return segment{kind: segField, render: appendLevel}, nil
	case 'L':
		return segment{kind: segField, render: appendLevelLetter}, nil
	case 'i':
		return segment{kind: segField, render: appendTID}, nil
	case 's':
		return segment{kind: segField, render: appendFile}, nil
	case '#':
		return segment{kind: segField, render: appendLine}, nil
	case '!':
		return segment{kind: segField, render: appendFunc}, nil
	case 'v':
		return segment{kind: segField, render: appendMessage}, nil
	case '^':
		return segment{kind: segColorStart}, nil
	case '$':
		return segment{kind: segColorEnd}, nil
	}
	if ff, ok := f.custom[tok]; ok {
		return segment{kind: segField, render: ff.Format}, nil
	}
	return segment{}, fmt.Errorf("unknown pattern flag %q", string(tok))
}

func isBuiltinFlag(c byte) bool {
	switch c {
	case 'T', 't', 'l', 'L', 'i', 's', '#', '!', 'v', '^', '$', '%':
		return true
	}
	return false
}

func writePadded(buf *bytes.Buffer, b []byte, pad padSpec) {
	fill := pad.width - len(b)
	if fill <= 0 {
		buf.Write(b)
		return
	}
	if pad.left {
		buf.Write(b)
		writeSpaces(buf, fill)
		return
	}
	writeSpaces(buf, fill)
	buf.Write(b)
}

func appendTimestamp(r *Record, buf *bytes.Buffer) {
	if r.Time.IsZero() {
		return
	}
	buf.Write(r.Time.AppendFormat(buf.AvailableBuffer(), timeFieldFormat))
}

func appendClock(r *Record, buf *bytes.Buffer) {
	if r.Time.IsZero() {
		return
	}
	buf.Write(r.Time.AppendFormat(buf.AvailableBuffer(), "15:04:05"))
}

func appendLevel(r *Record, buf *bytes.Buffer) {
	if r.Level == emptyString {
		buf.WriteString("???")
		return
	}
	buf.WriteString(r.Level)
}

func appendLevelLetter(r *Record, buf *bytes.Buffer) {
	switch r.Level {
	case "trace":
		buf.WriteByte('T')
	case "debug":
		buf.WriteByte('D')
	case "info":
		buf.WriteByte('I')
	case "warn":
		buf.WriteByte('W')
	case "error":
		buf.WriteByte('E')
	case "fatal":
		buf.WriteByte('F')
	case "panic":
		buf.WriteByte('P')
	default:
		buf.WriteByte('?')
	}
}

func appendTID(r *Record, buf *bytes.Buffer) {
	buf.WriteString(strconv.FormatInt(r.TID, 10))
}

func appendFile(r *Record, buf *bytes.Buffer) {
	buf.WriteString(r.File)
}

func appendLine(r *Record, buf *bytes.Buffer) {
	buf.WriteString(strconv.Itoa(r.Line))
}

func appendFunc(r *Record, buf *bytes.Buffer) {
	buf.WriteString(r.Func)
}

func appendMessage(r *Record, buf *bytes.Buffer) {
	buf.WriteString(r.Message)
}
