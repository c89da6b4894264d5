package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/star/scenario/internal/validate"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "DRO.csv", cfg.DataFile)
	assert.Equal(t, "satellite_traj", cfg.OutputName)
	assert.Equal(t, time.Second, cfg.LogStep)
	assert.Equal(t, time.Second, cfg.RecordStep)
	assert.Equal(t, "2026 January 04 15:00:00.0", cfg.Epoch)
	assert.Equal(t, time.Duration(0), cfg.Duration)
	assert.Equal(t, 99, cfg.PlayerPriority)
	assert.Empty(t, cfg.AccessFile)
	assert.Empty(t, cfg.TargetFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Date(2026, 1, 4, 15, 0, 0, 0, time.UTC), cfg.Anchor().Time())
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.toml")
	content := `
data_file = "chaser.csv"
target_file = "target.csv"
log_step = "60s"
record_step = "5m"
duration = "300h"
epoch = "2026-01-28T00:00:00Z"
player_priority = 120
log_level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "chaser.csv", cfg.DataFile)
	assert.Equal(t, "target.csv", cfg.TargetFile)
	assert.Equal(t, time.Minute, cfg.LogStep)
	assert.Equal(t, 5*time.Minute, cfg.RecordStep)
	assert.Equal(t, 300*time.Hour, cfg.Duration)
	assert.Equal(t, 120, cfg.PlayerPriority)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data_file": "file.csv", "log_step": "10s"}`), 0644))

	t.Setenv("SCENARIO_DATA_FILE", "env.csv")
	t.Setenv("SCENARIO_ACCESS_FILE", "access.csv")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env.csv", cfg.DataFile)
	assert.Equal(t, "access.csv", cfg.AccessFile)
	assert.Equal(t, 10*time.Second, cfg.LogStep)
	assert.Equal(t, 10*time.Second, cfg.RecordStep)
}

func TestLoad_BareNumbersAreSeconds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.toml")
	content := `
log_step = 180
record_step = 0.5
duration = 7200
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 180*time.Second, cfg.LogStep)
	assert.Equal(t, 500*time.Millisecond, cfg.RecordStep)
	assert.Equal(t, 2*time.Hour, cfg.Duration)
}

func TestLoad_EnvDurations(t *testing.T) {
	t.Setenv("SCENARIO_LOG_STEP", "60")
	t.Setenv("SCENARIO_DURATION", "90m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.LogStep)
	assert.Equal(t, time.Minute, cfg.RecordStep)
	assert.Equal(t, 90*time.Minute, cfg.Duration)
}

func TestLoad_RejectsLowPlayerPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte(`player_priority = -5`), 0644))

	_, err := Load(path)

	var verr *validate.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "player_priority", verr.Field)
	assert.ErrorIs(t, err, validate.ErrInvalid)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Scenario{
		DataFile:   "DRO.csv",
		LogStep:    time.Second,
		RecordStep: time.Second,
		Epoch:      "2026 January 04 15:00:00.0",
		LogLevel:   "info",
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Scenario)
		field  string
	}{
		{"no data file", func(s *Scenario) { s.DataFile = "" }, "data_file"},
		{"zero log step", func(s *Scenario) { s.LogStep = 0 }, "log_step"},
		{"negative record step", func(s *Scenario) { s.RecordStep = -time.Second }, "record_step"},
		{"nanosecond log step", func(s *Scenario) { s.LogStep = 180 }, "log_step"},
		{"sub-millisecond record step", func(s *Scenario) { s.RecordStep = 500 * time.Microsecond }, "record_step"},
		{"negative duration", func(s *Scenario) { s.Duration = -time.Hour }, "duration"},
		{"player below consumers", func(s *Scenario) { s.PlayerPriority = -5 }, "player_priority"},
		{"player level with consumers", func(s *Scenario) { s.PlayerPriority = -1 }, "player_priority"},
		{"bad epoch", func(s *Scenario) { s.Epoch = "yesterday" }, "epoch"},
		{"bad level", func(s *Scenario) { s.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			var verr *validate.Error
			require.True(t, errors.As(cfg.Validate(), &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)
}
