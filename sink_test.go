package depthlog

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSink records everything forwarded to it.
type captureSink struct {
	mu      sync.Mutex
	records []*Record
	color   bool
}

func (c *captureSink) Log(r *Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	return nil
}

func (c *captureSink) ColorEnabled() bool { return c.color }

func (c *captureSink) last(t *testing.T) *Record {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.records)
	return c.records[len(c.records)-1]
}

func TestPatternSinkWritesLine(t *testing.T) {
	var out bytes.Buffer
	f := NewPatternFormatter()
	require.NoError(t, f.SetPattern("%l: %v"))

	s := NewPatternSink(&out, f)
	require.NoError(t, s.Log(testRecord()))
	assert.Equal(t, "info: hello\n", out.String())
}

func TestPatternSinkAppendsExtrasSorted(t *testing.T) {
	var out bytes.Buffer
	f := NewPatternFormatter()
	require.NoError(t, f.SetPattern("%v"))

	r := testRecord()
	r.Extra = map[string]interface{}{
		"zeta":  "z value",
		"alpha": true,
	}

	s := NewPatternSink(&out, f)
	require.NoError(t, s.Log(r))
	assert.Equal(t, "hello alpha=true zeta=\"z value\"\n", out.String())
}

func TestPatternSinkSetPattern(t *testing.T) {
	var out bytes.Buffer
	f := NewPatternFormatter()
	require.NoError(t, f.SetPattern("%v"))

	s := NewPatternSink(&out, f)
	require.NoError(t, s.SetPattern("%l"))
	require.Error(t, s.SetPattern("%q"))
	require.NoError(t, s.Log(testRecord()))
	assert.Equal(t, "info\n", out.String())
}

func TestSinkWriterDecodesRecords(t *testing.T) {
	cap := &captureSink{}
	w := NewSinkWriter(cap)

	line := `{"level":"warn","message":"careful","file":"svc.go","line":7,"func":"handle","tid":9,"req":"abc"}` + "\n"
	n, err := w.Write([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	r := cap.last(t)
	assert.Equal(t, "warn", r.Level)
	assert.Equal(t, "careful", r.Message)
	assert.Equal(t, "svc.go", r.File)
	assert.Equal(t, 7, r.Line)
	assert.Equal(t, "handle", r.Func)
	assert.Equal(t, int64(9), r.TID)
	assert.Equal(t, "abc", r.Extra["req"])
}

func TestSinkWriterRejectsGarbage(t *testing.T) {
	w := NewSinkWriter(&captureSink{})
	_, err := w.Write([]byte("not json\n"))
	require.Error(t, err)
}

func TestDecodeRecordTime(t *testing.T) {
	r, err := decodeRecord([]byte(`{"time":"2024-01-31T15:45:01.123+09:00","level":"info","message":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, 2024, r.Time.Year())
	assert.Equal(t, 123_000_000, r.Time.Nanosecond())
	assert.Nil(t, r.Extra)
}
