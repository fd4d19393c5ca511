package depthlog

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// NewConsoleSink builds a color-capable pattern sink for terminal
// output using DefaultConsolePattern. ANSI coloring is enabled when
// the writer is a terminal; SetColorEnabled overrides the detection.
func NewConsoleSink(out io.Writer) (*PatternSink, error) {
	f := NewPatternFormatter()
	if err := f.SetPattern(DefaultConsolePattern); err != nil {
		return nil, err
	}
	f.SetColorEnabled(writerIsTerminal(out))
	return NewPatternSink(out, f), nil
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
