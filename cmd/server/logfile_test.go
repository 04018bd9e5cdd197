package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFileWriter_KeepsTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hourbank.log")
	w, err := newLogFileWriter(path)
	require.NoError(t, err)
	w.max, w.keep = 20, 10

	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)
	_, err = w.Write([]byte("abcdefghijKLMNOPQRST"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "KLMNOPQRST", string(data))
}

func TestLogFileWriter_AppendsBelowLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hourbank.log")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	w, err := newLogFileWriter(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.Equal([]byte("old\nnew\n"), data))
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "INFO", parseLogLevel("verbose").String())
}
