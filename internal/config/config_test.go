package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFromDir(t *testing.T, dir string) *Config {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := loadFromDir(t, t.TempDir())

	assert.Equal(t, "three_tier", cfg.Tier.Scheme)
	assert.Equal(t, 52, cfg.Tier.OCMDeadlineDays)
	assert.Equal(t, 0.70, cfg.Resolver.FuzzyThreshold)
	assert.Equal(t, 1, cfg.Resolver.Parallelism)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("COLLECTIONS_TIER_SCHEME", "five_tier")
	t.Setenv("COLLECTIONS_LOG_LEVEL", "debug")

	cfg := loadFromDir(t, t.TempDir())
	assert.Equal(t, "five_tier", cfg.Tier.Scheme)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/config.yaml", []byte(`
tier:
  scheme: five_tier
  ocm_deadline_days: 45
resolver:
  fuzzy_threshold: 0.8
  base_cc:
    - ar@custom.example
  rep_emails:
    Alex: alex@custom.example
  source_trust:
    legacy crm: low
`), 0o644))

	cfg := loadFromDir(t, dir)
	assert.Equal(t, "five_tier", cfg.Tier.Scheme)
	assert.Equal(t, 45, cfg.Tier.OCMDeadlineDays)
	assert.Equal(t, 0.8, cfg.Resolver.FuzzyThreshold)
	assert.Equal(t, []string{"ar@custom.example"}, cfg.Resolver.BaseCC)
	assert.Equal(t, "alex@custom.example", cfg.Resolver.RepEmails["alex"])
	assert.Equal(t, "low", cfg.Resolver.SourceTrust["legacy crm"])
}

func TestLoad_BadConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/config.yaml", []byte("tier: [not a map"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = Load()
	assert.Error(t, err)
}

func TestInitLogger_Levels(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "loud", Format: "json"}))
}
