package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"feemeter/internal/core/billing"
	"feemeter/internal/ui/preferences"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMissingFileYieldsDefaults(t *testing.T) {
	settings, err := loadSettingsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestLoadSettingsFile(t *testing.T) {
	path := writeSettings(t, `
rate_per_minute: 250.5
rounding: floor
tick_interval_ms: 500
probe_interval_seconds: 3
suspend_threshold_seconds: 10
log_level: debug
`)

	settings, err := loadSettingsFile(path)
	require.NoError(t, err)

	assert.Equal(t, 250.5, settings.RatePerMinute)
	assert.Equal(t, billing.RoundFloor, settings.Rounding)
	assert.Equal(t, 500*time.Millisecond, settings.TickInterval)
	assert.Equal(t, 3*time.Second, settings.ProbeInterval)
	assert.Equal(t, 10*time.Second, settings.SuspendThreshold)
	assert.Equal(t, logrus.DebugLevel, settings.LogLevel)
}

func TestInvalidValuesKeepDefaults(t *testing.T) {
	path := writeSettings(t, `
rate_per_minute: -5
rounding: bankers
tick_interval_ms: 5
log_level: loud
`)

	settings, err := loadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestMalformedYaml(t *testing.T) {
	path := writeSettings(t, "rate_per_minute: [oops")

	settings, err := loadSettingsFile(path)
	assert.ErrorContains(t, err, "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestLoadSettingsUsesUserConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only drives os.UserConfigDir on linux")
	}
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	appDir := filepath.Join(configDir, "FeeMeterTest")
	require.NoError(t, os.MkdirAll(appDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(appDir, settingsFileName), []byte("rate_per_minute: 42\n"), 0o644))

	settings, err := LoadSettings("FeeMeterTest")
	require.NoError(t, err)
	assert.Equal(t, 42.0, settings.RatePerMinute)
}
