package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"root": ".",
		"policy": "replace",
		"suffixes": [".js", ".ts"],
		"concurrency": 8,
		"drop_leading": 1,
		"drop_trailing": 2
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, "replace", cfg.Policy)
	assert.Equal(t, []string{".js", ".ts"}, cfg.Suffixes)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 1, cfg.DropLeading)
	assert.Equal(t, 2, cfg.DropTrailing)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := writeConfigFile(t, `{"polciy": "replace"}`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadConfigRejectsBadTypes(t *testing.T) {
	path := writeConfigFile(t, `{"concurrency": "four"}`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty config is valid", Config{}, false},
		{"valid policy", Config{Policy: "prepend"}, false},
		{"invalid policy", Config{Policy: "merge"}, true},
		{"negative trim", Config{DropLeading: -1}, true},
		{"temperature out of range", Config{Temperature: 3.5}, true},
		{"concurrency out of range", Config{Concurrency: 128}, true},
		{"missing root dir", Config{Root: "/no/such/directory"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Root:         ".",
		IgnoreFile:   ".ignoreconfig",
		Policy:       "prepend",
		Suffixes:     []string{".js", ".ts"},
		DropLeading:  1,
		DropTrailing: 2,
		Concurrency:  4,
		Temperature:  0.2,
		Model:        "gemini-2.5-flash",
	}

	t.Run("empty config takes all defaults", func(t *testing.T) {
		cfg := Config{}
		merged := cfg.MergeWithDefaults(defaults)
		assert.Equal(t, defaults, merged)
	})

	t.Run("set values are kept", func(t *testing.T) {
		cfg := Config{Policy: "replace", Concurrency: 2, Suffixes: []string{".py"}}
		merged := cfg.MergeWithDefaults(defaults)
		assert.Equal(t, "replace", merged.Policy)
		assert.Equal(t, 2, merged.Concurrency)
		assert.Equal(t, []string{".py"}, merged.Suffixes)
		assert.Equal(t, ".ignoreconfig", merged.IgnoreFile)
	})
}

func TestValidateSchemaAcceptsMinimalDocument(t *testing.T) {
	assert.NoError(t, ValidateSchema([]byte(`{}`)))
	assert.NoError(t, ValidateSchema([]byte(`{"verbose": true}`)))
}
