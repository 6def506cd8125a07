package berrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationError(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := NewConfigurationError("/etc/borg-helper.json", "failed to parse config", cause)

	assert.Equal(t, "CONFIG_ERROR", err.Code())
	assert.Equal(t, "/etc/borg-helper.json", err.Path)
	assert.Contains(t, err.Error(), "failed to parse config")
	assert.Contains(t, err.Error(), "unexpected end of JSON input")
	assert.ErrorIs(t, err, cause)
}

func TestUnknownRepositoryError(t *testing.T) {
	err := NewUnknownRepositoryError("prod", []string{"docs", "media"})

	assert.Equal(t, "UNKNOWN_REPOSITORY", err.Code())
	assert.Contains(t, err.Error(), "unknown repository: prod")
	assert.Contains(t, err.Error(), "docs, media")

	bare := NewUnknownRepositoryError("prod", nil)
	assert.NotContains(t, bare.Error(), "configured")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, ExitUsage, ExitCode(NewConfigurationError("", "bad", nil)))
	assert.Equal(t, ExitUsage, ExitCode(NewUnknownRepositoryError("x", nil)))
	assert.Equal(t, ExitUsage, ExitCode(NewUsageError("bad invocation")))
	assert.Equal(t, ExitAborted, ExitCode(NewAbortedError()))
	assert.Equal(t, 42, ExitCode(NewToolExitError("borg create", 42)))
	assert.Equal(t, ExitInternal, ExitCode(errors.New("anything else")))
	assert.Equal(t, ExitInternal, ExitCode(NewExecutionError("borg", "spawn failed", nil)))
}

func TestExitCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("dispatch: %w", NewToolExitError("borg prune", 2))
	assert.Equal(t, 2, ExitCode(err))
}

func TestSilent(t *testing.T) {
	assert.True(t, Silent(NewToolExitError("borg", 1)))
	assert.False(t, Silent(NewAbortedError()))
	assert.False(t, Silent(NewConfigurationError("", "bad", nil)))
	assert.False(t, Silent(errors.New("other")))
}
