package pdlog_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdlog/pkg/pdlog"
)

func TestLogSink_Format(t *testing.T) {
	var buf bytes.Buffer
	s := pdlog.NewLogSink(&buf, 0)

	s.Println(pdlog.Verbose, pdlog.Tag, "at (main.go:12)")
	s.Println(pdlog.Info, "server.handleStream", "opened")

	assert.Equal(t, "V/PdLog: at (main.go:12)\nI/server.handleStream: opened\n", buf.String())
}

func TestColorSink_Forced(t *testing.T) {
	var buf bytes.Buffer
	s := pdlog.NewColorSink(&buf, true)

	s.Println(pdlog.Error, "server.run", "boom")

	out := buf.String()
	assert.Contains(t, out, "\x1b[31m")
	assert.Contains(t, out, "E/server.run: boom")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestColorSink_PlainWhenNotTerminal(t *testing.T) {
	// Pretend stdout is a terminal so the global switch allows color.
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	s := pdlog.NewColorSink(&buf, false)

	s.Println(pdlog.Error, "a.b", "c")

	assert.Equal(t, "E/a.b: c\n", buf.String())
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestLogger_WritesThroughLogSink(t *testing.T) {
	var buf bytes.Buffer
	l := pdlog.New(pdlog.NewLogSink(&buf, 0))
	l.Enable(true)

	l.I("ready")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "E/PdLog: "+pdlog.SentinelMessage, lines[0])
	assert.Regexp(t, `^V/PdLog: at \(sink_test\.go:\d+\)$`, lines[1])
	assert.Equal(t, "I/pdlog_test.TestLogger_WritesThroughLogSink: ready", lines[2])
}

func TestRegistry_BuiltIns(t *testing.T) {
	names := pdlog.ListSinks()
	assert.Subset(t, names, []string{"color", "discard", "log"})

	s, err := pdlog.BuildSink(pdlog.SinkConfig{Type: "discard"})
	require.NoError(t, err)
	assert.Equal(t, pdlog.Discard, s)
}

func TestRegistry_UnknownType(t *testing.T) {
	_, err := pdlog.BuildSink(pdlog.SinkConfig{Type: "syslog"})
	assert.EqualError(t, err, "unknown sink type: syslog")
}

func TestRegistry_FileOutputAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	s, err := pdlog.BuildSink(pdlog.SinkConfig{Type: "log", Output: path})
	require.NoError(t, err)
	s.Println(pdlog.Warn, "server.run", "slow")

	closer, ok := s.(io.Closer)
	require.True(t, ok, "file sinks must be closable")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "existing\n"))
	assert.Contains(t, string(data), "W/server.run: slow")
}

func TestLogger_CloseReleasesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "color.log")
	s, err := pdlog.BuildSink(pdlog.SinkConfig{Type: "color", Output: path})
	require.NoError(t, err)

	l := pdlog.New(s, pdlog.WithoutSentinel())
	l.Enable(true)
	l.W("slow")
	require.NoError(t, l.Close())
	assert.ErrorIs(t, l.Close(), os.ErrClosed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "W/pdlog_test.TestLogger_CloseReleasesOutputFile: slow")
	assert.NotContains(t, string(data), "\x1b[")
}

func TestLogger_CloseStandardStreams(t *testing.T) {
	s, err := pdlog.BuildSink(pdlog.SinkConfig{Type: "log", Output: "stdout"})
	require.NoError(t, err)
	assert.NoError(t, pdlog.New(s).Close())
	assert.NoError(t, pdlog.New(pdlog.Discard).Close())
}

func TestRegistry_BadOutput(t *testing.T) {
	_, err := pdlog.BuildSink(pdlog.SinkConfig{Type: "color", Output: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.ErrorContains(t, err, "failed to create sink color")
}

func TestRegistry_Register(t *testing.T) {
	rec := &recorder{}
	pdlog.RegisterSink("recorder", func(pdlog.SinkConfig) (pdlog.Sink, error) { return rec, nil })

	s, err := pdlog.BuildSink(pdlog.SinkConfig{Type: "recorder"})
	require.NoError(t, err)
	s.Println(pdlog.Debug, "a.b", "c")
	assert.Len(t, rec.Lines(), 1)
	assert.Contains(t, pdlog.ListSinks(), "recorder")
}
