package depthlog

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileService creates a ready-to-use file-only logger in a temp dir.
func newFileService(t testing.TB, level string) (*Service, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "logs")

	cfg := DefaultConfig()
	cfg.Level = level
	cfg.ConsoleLogging = false
	cfg.FileLogging = true
	cfg.LogDir = dir
	cfg.FilePrefix = "test"

	s := NewService(cfg)
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { _ = s.Close() })
	return s, dir
}

func readLogFile(t testing.TB, dir string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(content)
}

func TestServiceInitializeErrors(t *testing.T) {
	t.Run("nil service", func(t *testing.T) {
		var s *Service
		err := s.Initialize()
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgNilService)
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Level = "notalevel"
		err := NewService(cfg).Initialize()
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgConfigInvalid)
	})

	t.Run("negative spaces per depth", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SpacesPerDepth = -1
		require.Error(t, NewService(cfg).Initialize())
	})

	t.Run("unknown func color", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FuncColor = "mauve"
		require.Error(t, NewService(cfg).Initialize())
	})

	t.Run("bad console pattern", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FileLogging = false
		cfg.ConsoleOut = &bytes.Buffer{}
		cfg.ConsolePattern = "%q"
		err := NewService(cfg).Initialize()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown pattern flag")
	})
}

func TestServiceDefaultsToFileChannel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := Config{LogDir: dir, FilePrefix: "test"}

	s := NewService(cfg)
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { _ = s.Close() })
	assert.True(t, s.Config.FileLogging)
}

func TestFileLoggingWritesLogfmt(t *testing.T) {
	s, dir := newFileService(t, "debug")

	s.Infof("hello %s", "world")
	s.Warnf("be careful")

	text := readLogFile(t, dir)
	assert.Contains(t, text, `level=info`)
	assert.Contains(t, text, `msg="hello world"`)
	assert.Contains(t, text, `level=warn`)
	assert.Contains(t, text, `msg="be careful"`)
	assert.Contains(t, text, `depth=0`)
	assert.Contains(t, text, `file="service_test.go"`)
	assert.Regexp(t, `tid=\d+`, text)
	assert.Regexp(t, `ts="\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}`, text)
	assert.Contains(t, text, `func="TestFileLoggingWritesLogfmt"`, "caller func recorded")
}

func TestLevelFiltering(t *testing.T) {
	s, dir := newFileService(t, "warn")

	s.Infof("quiet")
	s.Errorf("loud")

	text := readLogFile(t, dir)
	assert.NotContains(t, text, "quiet")
	assert.Contains(t, text, "loud")
}

func TestStructuredEventFields(t *testing.T) {
	s, dir := newFileService(t, "debug")

	s.InfoWith().Str("user_id", "u1").Int("count", 5).Msg("processed")
	s.ErrorWith().Err(errors.New("kaput")).Msg("failed")

	text := readLogFile(t, dir)
	assert.Contains(t, text, `msg="processed"`)
	assert.Contains(t, text, `user_id="u1"`)
	assert.Contains(t, text, `count=5`)
	assert.Contains(t, text, `error="kaput"`)
	assert.Contains(t, text, `func="TestStructuredEventFields"`)
}

func TestContextLoggerCarriesFields(t *testing.T) {
	s, dir := newFileService(t, "debug")

	req := s.With().Str("request_id", "r42").Logger()
	req.InfoWith().Msg("step one")
	req.WarnWith().Msg("step two")

	text := readLogFile(t, dir)
	assert.Contains(t, text, `request_id="r42"`)
	assert.Contains(t, text, `msg="step one"`)
	assert.Contains(t, text, `msg="step two"`)
}

func TestDisabledLevelIsNoop(t *testing.T) {
	s, dir := newFileService(t, "error")

	s.DebugWith().Str("k", "v").Msg("nope")
	s.TraceWith().Send()
	s.Errorf("kept")

	text := readLogFile(t, dir)
	assert.NotContains(t, text, "nope")
	assert.Contains(t, text, "kept")
}

var depthRe = regexp.MustCompile(`depth=(\d+)`)

func TestEndToEndDepthTrace(t *testing.T) {
	s, dir := newFileService(t, "info")

	leaf := func() {
		defer Enter().Exit()
		s.Infof("in leaf")
	}
	middle := func() {
		defer Enter().Exit()
		s.Infof("middle before")
		leaf()
		s.Infof("middle after")
	}
	top := func() {
		s.Infof("top before")
		middle()
		s.Infof("top after")
	}
	top()

	text := readLogFile(t, dir)
	var got []string
	for _, m := range depthRe.FindAllStringSubmatch(text, -1) {
		got = append(got, m[1])
	}
	assert.Equal(t, []string{"0", "1", "2", "1", "0"}, got)
}

func TestConsoleOutput(t *testing.T) {
	var out bytes.Buffer

	cfg := DefaultConfig()
	cfg.FileLogging = false
	cfg.ConsoleLogging = true
	cfg.ConsoleOut = &out
	cfg.NoColor = true
	cfg.SpacesPerDepth = 2

	s := NewService(cfg)
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { _ = s.Close() })

	s.Infof("top level")

	func() {
		defer Enter().Exit()
		s.Infof("nested")
	}()

	lines := bytes.Split(bytes.TrimRight(out.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	first := string(lines[0])
	assert.Contains(t, first, "[I]")
	assert.Contains(t, first, "service_test.go")
	assert.Contains(t, first, "| ")
	assert.Contains(t, first, "TestConsoleOutput: top level")
	assert.NotContains(t, first, "\x1b[", "NoColor suppresses ANSI codes")

	second := string(lines[1])
	assert.Contains(t, second, "|   TestConsoleOutput.func", "one level -> two spaces")
	assert.Contains(t, second, ": nested")
}

func TestIndentSinkAccessor(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.FileLogging = false
	cfg.ConsoleOut = &out

	s := NewService(cfg)
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { _ = s.Close() })

	require.NotNil(t, s.IndentSink())
	assert.Equal(t, DefaultSpacesPerDepth, s.IndentSink().SpacesPerDepth())
	assert.Equal(t, DefaultFuncColor, s.IndentSink().FuncColor())

	fileOnly, _ := newFileService(t, "info")
	assert.Nil(t, fileOnly.IndentSink())
}

func TestInitInstallsDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	cfg := DefaultConfig()
	cfg.ConsoleLogging = false
	cfg.LogDir = dir
	cfg.FilePrefix = "test"

	s, err := Init(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
		SetDefault(nil)
	})
	require.Same(t, s, Default())

	Infof("via package helper")
	text := readLogFile(t, dir)
	assert.Contains(t, text, `msg="via package helper"`)
	assert.Contains(t, text, `func="TestInitInstallsDefault"`)
}

func TestLoggingBeforeInitializeIsNoop(t *testing.T) {
	s := NewService(DefaultConfig())
	assert.NotPanics(t, func() {
		s.Infof("dropped")
		s.InfoWith().Str("k", "v").Msg("dropped")
		s.With().Str("k", "v").Logger().InfoWith().Msg("dropped")
	})
}

func TestCloseIsIdempotent(t *testing.T) {
	s, _ := newFileService(t, "info")
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.NotPanics(t, func() { s.Infof("after close") })
}
