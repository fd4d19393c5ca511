package depthlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
)

// Sink receives decoded records and delivers them to a destination.
// Implementations must be safe for concurrent use.
type Sink interface {
	Log(r *Record) error
}

// sinkWriter adapts a Sink to the io.Writer zerolog emits into. Each
// Write call carries exactly one JSON-encoded record and runs
// synchronously on the emitting goroutine.
type sinkWriter struct {
	sink Sink
}

// NewSinkWriter returns an io.Writer that decodes each zerolog line
// and forwards the record to the given sink.
func NewSinkWriter(s Sink) io.Writer {
	return sinkWriter{sink: s}
}

func (w sinkWriter) Write(p []byte) (int, error) {
	r, err := decodeRecord(p)
	if err != nil {
		return 0, err
	}
	if err := w.sink.Log(r); err != nil {
		return 0, err
	}
	return len(p), nil
}

// PatternSink renders records through a PatternFormatter and writes
// one line per record to an io.Writer. Structured fields that have no
// token in the pattern are appended as sorted logfmt k=v pairs.
type PatternSink struct {
	mu  sync.Mutex
	out io.Writer
	f   *PatternFormatter
	buf bytes.Buffer
}

// NewPatternSink wires a formatter to an output writer. The sink takes
// ownership of the formatter; callers needing the same formatting
// elsewhere should pass a Clone.
func NewPatternSink(out io.Writer, f *PatternFormatter) *PatternSink {
	return &PatternSink{out: out, f: f}
}

func (s *PatternSink) Log(r *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Reset()
	s.f.Format(r, &s.buf)
	appendExtras(r, &s.buf)
	s.buf.WriteByte('\n')

	if _, err := s.out.Write(s.buf.Bytes()); err != nil {
		return fmt.Errorf("writing log line: %w", err)
	}
	return nil
}

// SetPattern recompiles the sink's pattern. Safe at any time; affects
// subsequent records only.
func (s *PatternSink) SetPattern(pattern string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.SetPattern(pattern)
}

// SetColorEnabled toggles ANSI output for %^...%$ ranges.
func (s *PatternSink) SetColorEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.f.SetColorEnabled(on)
}

// ColorEnabled reports whether the sink currently emits ANSI codes.
func (s *PatternSink) ColorEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.color
}

func appendExtras(r *Record, buf *bytes.Buffer) {
	for _, k := range r.extraKeys() {
		buf.WriteByte(' ')
		buf.WriteString(k)
		buf.WriteByte('=')
		appendExtraValue(buf, r.Extra[k])
	}
}

func appendExtraValue(buf *bytes.Buffer, v interface{}) {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		buf.WriteString(strconv.Quote(x))
	case json.Number:
		buf.WriteString(x.String())
	case bool:
		buf.WriteString(strconv.FormatBool(x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			fmt.Fprintf(buf, "%q", fmt.Sprint(x))
			return
		}
		buf.Write(b)
	}
}
