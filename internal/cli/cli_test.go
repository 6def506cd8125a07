package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/borg-helper/borg-helper/internal/berrors"
	"github.com/borg-helper/borg-helper/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config source at a fresh temp dir and returns it.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv(config.ConfigPathsEnv, "")
	t.Chdir(tmpDir)
	return tmpDir
}

func writeTestConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "test-config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv(config.ConfigPathsEnv, path)
	return path
}

func TestList_SortedOutput(t *testing.T) {
	tmpDir := isolate(t)
	writeTestConfig(t, tmpDir, `{
		"repositories": {
			"media": {"repository": "/backup/media"},
			"documents": {"repository": "ssh://backup@host/./docs"}
		}
	}`)

	var buf bytes.Buffer
	require.NoError(t, List("error", &buf))

	assert.Equal(t,
		"Available repositories:\n"+
			"  documents (ssh://backup@host/./docs)\n"+
			"  media (/backup/media)\n",
		buf.String())
}

func TestList_NoRepositoriesConfigured(t *testing.T) {
	isolate(t)

	var buf bytes.Buffer
	err := List("error", &buf)
	require.Error(t, err)
	assert.Equal(t, berrors.ExitUsage, berrors.ExitCode(err))
	assert.Contains(t, err.Error(), "no repositories configured")
}

func TestRun_UnknownRepository(t *testing.T) {
	tmpDir := isolate(t)
	writeTestConfig(t, tmpDir, `{
		"repositories": {"docs": {"repository": "/backup/docs"}}
	}`)

	err := Run(context.Background(), RunParams{
		LogLevel:   "error",
		Repository: "missing",
		Args:       []string{"info"},
	})
	require.Error(t, err)

	var repoErr *berrors.UnknownRepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, []string{"docs"}, repoErr.Known)
}

func TestRun_InvalidConfigIsFatal(t *testing.T) {
	tmpDir := isolate(t)
	writeTestConfig(t, tmpDir, `{"repositories": "nope"}`)

	err := Run(context.Background(), RunParams{
		LogLevel:   "error",
		Repository: "docs",
	})
	require.Error(t, err)
	assert.Equal(t, berrors.ExitUsage, berrors.ExitCode(err))
}

func TestRun_DispatchesThroughShell(t *testing.T) {
	tmpDir := isolate(t)
	marker := filepath.Join(tmpDir, "ran")
	writeTestConfig(t, tmpDir, `{
		"borg_binary": "touch",
		"repositories": {
			"docs": {
				"repository": "/backup/docs",
				"aliases": {"mark": "`+marker+`"}
			}
		}
	}`)

	err := Run(context.Background(), RunParams{
		LogLevel:   "error",
		Repository: "docs",
		Args:       []string{"mark"},
	})
	require.NoError(t, err)

	_, statErr := os.Stat(marker)
	assert.NoError(t, statErr, "dispatched command should have run")
}

func TestRun_ForwardsToolExitCode(t *testing.T) {
	tmpDir := isolate(t)
	writeTestConfig(t, tmpDir, `{
		"borg_binary": "false",
		"repositories": {"docs": {"repository": "/backup/docs"}}
	}`)

	err := Run(context.Background(), RunParams{
		LogLevel:   "error",
		Repository: "docs",
	})
	require.Error(t, err)
	assert.Equal(t, 1, berrors.ExitCode(err))
	assert.True(t, berrors.Silent(err))
}

func TestValidate_ValidFile(t *testing.T) {
	tmpDir := isolate(t)
	path := filepath.Join(tmpDir, "borg-helper.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"repositories": {"docs": {"repository": "/backup/docs"}}
	}`), 0644))

	assert.NoError(t, Validate(path))
}

func TestValidate_InvalidFile(t *testing.T) {
	tmpDir := isolate(t)
	path := filepath.Join(tmpDir, "borg-helper.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"repositories": {"docs": {}}}`), 0644))

	err := Validate(path)
	require.Error(t, err)
	assert.Equal(t, berrors.ExitUsage, berrors.ExitCode(err))
}

func TestValidate_NoCandidate(t *testing.T) {
	isolate(t)

	err := Validate("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no config file found")
}

func TestSchema_WritesFile(t *testing.T) {
	tmpDir := isolate(t)
	out := filepath.Join(tmpDir, "schema.json")

	require.NoError(t, Schema(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, config.GetSchemaJSON(), string(data))
}

func TestInit_CreatesAndRefusesOverwrite(t *testing.T) {
	tmpDir := isolate(t)

	require.NoError(t, Init(false))

	path := filepath.Join(tmpDir, config.ConfigFileName)
	_, err := os.Stat(path)
	require.NoError(t, err)

	err = Init(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_Global(t *testing.T) {
	tmpDir := isolate(t)

	require.NoError(t, Init(true))

	path := filepath.Join(tmpDir, ".config", config.ConfigFileName)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
