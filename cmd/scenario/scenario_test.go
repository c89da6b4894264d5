package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/star/scenario/internal/config"
	"github.com/star/scenario/internal/trajectory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// tableRow builds a 19-column row with the replayed body in columns 13-18.
func tableRow(t, x, vx float64) string {
	cols := make([]string, trajectory.MinColumns)
	for i := range cols {
		cols[i] = "0"
	}
	cols[0] = fmt.Sprint(t)
	cols[13] = fmt.Sprint(x)
	cols[16] = fmt.Sprint(vx)
	return strings.Join(cols, ",")
}

func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
}

func baseScenario(t *testing.T) (config.Scenario, string) {
	t.Helper()
	dir := t.TempDir()

	chaser := filepath.Join(dir, "chaser.csv")
	writeFile(t, chaser, tableRow(0, 0, 100), tableRow(60, 6000, 100), tableRow(120, 12000, 100))

	return config.Scenario{
		DataFile:       chaser,
		OutputName:     filepath.Join(dir, "satellite_traj"),
		LogStep:        60 * time.Second,
		RecordStep:     60 * time.Second,
		Epoch:          "2026 January 04 15:00:00.0",
		PlayerPriority: 99,
		LogLevel:       "info",
	}, dir
}

func TestRunEndToEnd(t *testing.T) {
	cfg, dir := baseScenario(t)

	cfg.TargetFile = filepath.Join(dir, "target.csv")
	writeFile(t, cfg.TargetFile, tableRow(0, 10000, 0), tableRow(120, 10000, 0))

	cfg.AccessFile = filepath.Join(dir, "access.csv")
	writeFile(t, cfg.AccessFile, "0,0", "60,1", "120,1", "180,0")

	cfg.TimelinePNG = filepath.Join(dir, "access.png")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, testLogger(), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "loaded 3 trajectory points, time range [0, 120] s", lines[0])
	assert.Equal(t, "Access windows (UTC):", lines[1])
	assert.Equal(t, "Window 1: 2026-01-04 15:01:00 UTC → 2026-01-04 15:03:00 UTC (2.0 min)", lines[2])
	// Tick 120 s puts the chaser at 12 km against a target parked at 10 km.
	assert.Equal(t, "minDistance: 2.00 km, minWindowTime: 0.03 h", lines[3])

	states, err := os.ReadFile(cfg.OutputName + ".csv")
	require.NoError(t, err)
	rows := strings.Split(strings.TrimSpace(string(states)), "\n")
	require.Len(t, rows, 4)
	assert.Equal(t, "0,0,0,0,100,0,0", rows[0])
	assert.Equal(t, "60,6000,0,0,100,0,0", rows[1])
	// Past the last sample the replay holds the final state.
	assert.Equal(t, "180,12000,0,0,100,0,0", rows[3])

	png, err := os.ReadFile(cfg.TimelinePNG)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestRunTrajectoryOnly(t *testing.T) {
	cfg, _ := baseScenario(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, testLogger(), &out))

	assert.Equal(t, "loaded 3 trajectory points, time range [0, 120] s\n", out.String())
	assert.FileExists(t, cfg.OutputName+".csv")
}

func TestRunNoAccess(t *testing.T) {
	cfg, dir := baseScenario(t)
	cfg.AccessFile = filepath.Join(dir, "access.csv")
	writeFile(t, cfg.AccessFile, "0,0", "60,0")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cfg, testLogger(), &out))
	assert.Contains(t, out.String(), "no access windows\n")
}

func TestRunFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		setup func(cfg *config.Scenario, dir string)
	}{
		{
			name: "non-monotonic trajectory",
			setup: func(cfg *config.Scenario, dir string) {
				writeFile(t, cfg.DataFile, tableRow(0, 0, 0), tableRow(60, 1, 0), tableRow(30, 2, 0))
			},
		},
		{
			name: "short rows",
			setup: func(cfg *config.Scenario, dir string) {
				writeFile(t, cfg.DataFile, "0,1,2", "1,2,3")
			},
		},
		{
			name: "conflicting access flags",
			setup: func(cfg *config.Scenario, dir string) {
				cfg.AccessFile = filepath.Join(dir, "access.csv")
				writeFile(t, cfg.AccessFile, "0,1", "0,0")
			},
		},
		{
			name: "player after its consumers",
			setup: func(cfg *config.Scenario, dir string) {
				cfg.PlayerPriority = -5
			},
		},
		{
			name: "missing target",
			setup: func(cfg *config.Scenario, dir string) {
				cfg.TargetFile = filepath.Join(dir, "absent.csv")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, dir := baseScenario(t)
			tt.setup(&cfg, dir)

			var out bytes.Buffer
			err := run(context.Background(), cfg, testLogger(), &out)
			require.Error(t, err)
			assert.Empty(t, out.String())
			assert.NoFileExists(t, cfg.OutputName+".csv")
		})
	}
}

func TestRunCanceled(t *testing.T) {
	cfg, _ := baseScenario(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	assert.ErrorIs(t, run(ctx, cfg, testLogger(), &out), context.Canceled)
	assert.Empty(t, out.String())
}

func TestStopTime(t *testing.T) {
	cfg, _ := baseScenario(t)
	primary, err := trajectory.LoadTable(cfg.DataFile, testLogger())
	require.NoError(t, err)

	assert.Equal(t, uint64(180e9), stopTime(cfg, primary, nil))

	cfg.Duration = time.Hour
	assert.Equal(t, uint64(3600e9), stopTime(cfg, primary))
}
