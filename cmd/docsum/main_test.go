package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"docsum-backend/internal/shared/config"
)

func TestExtractCommandPrintsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain notes"), 0o600))

	var out bytes.Buffer
	root := newRootCmd(config.Config{Port: "8080"})
	root.SetOut(&out)
	root.SetArgs([]string{"extract", path})
	require.NoError(t, root.ExecuteContext(context.Background()))
	require.Equal(t, "plain notes\n", out.String())
}

func TestExtractCommandRejectsUnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0o600))

	root := newRootCmd(config.Config{Port: "8080"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"extract", path})
	require.Error(t, root.ExecuteContext(context.Background()))
}

func TestSummarizeFileRequiresProviderSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain notes"), 0o600))

	root := newRootCmd(config.Config{Port: "8080", LLMProvider: config.ProviderOpenAI})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"summarize-file", path})
	require.Error(t, root.ExecuteContext(context.Background()))
}
