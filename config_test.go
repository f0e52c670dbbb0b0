package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, fakeEnv(nil))
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.HTTP)
	assert.Equal(t, "db.json", cfg.File)
	assert.Equal(t, "file", cfg.Adapter)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 20, cfg.Burst)
	assert.Zero(t, cfg.Rate)
}

func TestParseConfigEnv(t *testing.T) {
	cfg, err := parseConfig(nil, fakeEnv(map[string]string{
		"HTTP":            ":9000",
		"DB_FILE":         "data.json",
		"PREFIX":          "/api",
		"STORE_ADAPTER":   "sqlite",
		"ALLOWED_ORIGINS": "https://a.example, https://b.example",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP)
	assert.Equal(t, "data.json", cfg.File)
	assert.Equal(t, "/api", cfg.Prefix)
	assert.Equal(t, "sqlite", cfg.Adapter)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestParseConfigFiles(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "jsonrest.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
file = "from-toml.json"
prefix = "/v1"
rate = 2.5
burst = 5
allowed_origins = ["https://x.example"]
`), 0o644))
	yamlPath := filepath.Join(dir, "jsonrest.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
file: from-yaml.json
adapter: memory
metrics: localhost:9100
`), 0o644))

	cfg, err := parseConfig([]string{"-config", tomlPath}, fakeEnv(map[string]string{"DB_FILE": "env.json"}))
	require.NoError(t, err)
	assert.Equal(t, "from-toml.json", cfg.File)
	assert.Equal(t, "/v1", cfg.Prefix)
	assert.Equal(t, 2.5, cfg.Rate)
	assert.Equal(t, 5, cfg.Burst)
	assert.Equal(t, []string{"https://x.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "localhost:8080", cfg.HTTP, "unset keys keep their default")

	cfg, err = parseConfig([]string{"-file", "flag.json"}, fakeEnv(map[string]string{"CONFIG": yamlPath}))
	require.NoError(t, err)
	assert.Equal(t, "flag.json", cfg.File, "flags win over the config file")
	assert.Equal(t, "memory", cfg.Adapter)
	assert.Equal(t, "localhost:9100", cfg.Metrics)
}

func TestParseConfigErrors(t *testing.T) {
	dir := t.TempDir()
	ini := filepath.Join(dir, "c.ini")
	require.NoError(t, os.WriteFile(ini, nil, 0o644))
	bad := filepath.Join(dir, "c.toml")
	require.NoError(t, os.WriteFile(bad, []byte("file = "), 0o644))

	for name, args := range map[string][]string{
		"extra args":     {"serve"},
		"unknown flag":   {"-nope"},
		"empty file":     {"-file", ""},
		"negative rate":  {"-rate", "-1"},
		"zero burst":     {"-rate", "1", "-burst", "0"},
		"bad extension":  {"-config", ini},
		"malformed toml": {"-config", bad},
		"missing config": {"-config", filepath.Join(dir, "missing.yaml")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig(args, fakeEnv(nil))
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "error", ""} {
		_, err := parseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := parseLevel("verbose")
	assert.Error(t, err)
}
