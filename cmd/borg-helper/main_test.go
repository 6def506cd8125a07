package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	app := newApp()

	assert.Equal(t, "borg-helper", app.Name)
	require.NotNil(t, app.Action)

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{"list", "validate", "schema", "init"}, names)

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		for _, name := range flag.Names() {
			flagNames[name] = true
		}
	}
	assert.True(t, flagNames["interactive"])
	assert.True(t, flagNames["i"])
	assert.True(t, flagNames["debug"])
	assert.True(t, flagNames["d"])
	assert.True(t, flagNames["log-level"])
}
