package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/code-annotator/internal/config"
)

func TestRunDefaults(t *testing.T) {
	defaults := runDefaults()

	assert.Equal(t, ".", defaults.Root)
	assert.Equal(t, ".ignoreconfig", defaults.IgnoreFile)
	assert.Equal(t, "prepend", defaults.Policy)
	assert.Equal(t, []string{".js", ".ts"}, defaults.Suffixes)
	assert.Equal(t, 1, defaults.DropLeading)
	assert.Equal(t, 2, defaults.DropTrailing)
	assert.Equal(t, 4, defaults.Concurrency)
	assert.Empty(t, defaults.Ledger, "persistence is off unless asked for")
}

func TestApplyRunFlagOverrides(t *testing.T) {
	cfg := config.Config{Root: "/from-config", Policy: "replace", Concurrency: 8}

	// Unset flags must not clobber config file values.
	applyRunFlagOverrides(runCommand, &cfg)
	assert.Equal(t, "/from-config", cfg.Root)
	assert.Equal(t, "replace", cfg.Policy)
	assert.Equal(t, 8, cfg.Concurrency)

	// Explicitly set flags win over the config file.
	require.NoError(t, runCommand.Flags().Set("policy", "prepend"))
	require.NoError(t, runCommand.Flags().Set("concurrency", "2"))
	applyRunFlagOverrides(runCommand, &cfg)
	assert.Equal(t, "prepend", cfg.Policy)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "/from-config", cfg.Root, "untouched flag keeps config value")
}

func TestExplicitZeroFlagsSurviveDefaults(t *testing.T) {
	require.NoError(t, runCommand.Flags().Set("drop-leading", "0"))
	require.NoError(t, runCommand.Flags().Set("drop-trailing", "0"))
	require.NoError(t, runCommand.Flags().Set("temperature", "0"))

	// Same order as runAnnotateCmd: defaults first, flags last. The merge
	// cannot tell a set zero from an unset field, so flipping the order
	// would silently restore the defaults.
	cfg := config.Config{}
	cfg = cfg.MergeWithDefaults(runDefaults())
	applyRunFlagOverrides(runCommand, &cfg)

	assert.Equal(t, 0, cfg.DropLeading)
	assert.Equal(t, 0, cfg.DropTrailing)
	assert.Zero(t, cfg.Temperature)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123abcd", shortID("0123abcd-extra-long-uuid"))
	assert.Equal(t, "short", shortID("short"))
}
