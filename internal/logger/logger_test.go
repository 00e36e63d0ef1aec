package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWriter_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)

	l.Info("trigger %d", 1)
	l.Warning("duplicate")
	l.Error("boom: %v", "x")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	stamp := `\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}`
	require.Regexp(t, `INFO +`+stamp+` trigger 1$`, lines[0])
	require.Regexp(t, `WARNING +`+stamp+` duplicate$`, lines[1])
	require.Regexp(t, `ERROR +`+stamp+` boom: x$`, lines[2])
}

func TestNew_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	l, err := New(dir)
	require.NoError(t, err)

	l.Info("hello")
	l.Error("bad")
	require.NoError(t, l.Close())

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	require.Contains(t, string(info), "hello")

	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	require.Contains(t, string(errs), "bad")
	require.NotContains(t, string(errs), "hello")
}
