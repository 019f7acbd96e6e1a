package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"feemeter/internal/core/billing"
	"feemeter/internal/ui/preferences"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	RatePerMinute           float64 `yaml:"rate_per_minute"`
	Rounding                string  `yaml:"rounding"`
	TickIntervalMillis      int     `yaml:"tick_interval_ms"`
	ProbeIntervalSeconds    int     `yaml:"probe_interval_seconds"`
	SuspendThresholdSeconds int     `yaml:"suspend_threshold_seconds"`
	LogLevel                string  `yaml:"log_level"`
}

// LoadSettings reads startup preferences from YAML.
// If the config file does not exist, default settings are returned. The file
// is never written: rate changes made while running last for the session only.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return loadSettingsFile(configPath)
}

func loadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if billing.ValidateRate(fileData.RatePerMinute) == nil {
		settings.RatePerMinute = fileData.RatePerMinute
	}
	if policy, err := billing.ParseRoundingPolicy(fileData.Rounding); err == nil {
		settings.Rounding = policy
	}
	if fileData.TickIntervalMillis >= 100 {
		settings.TickInterval = time.Duration(fileData.TickIntervalMillis) * time.Millisecond
	}
	if fileData.ProbeIntervalSeconds > 0 {
		settings.ProbeInterval = time.Duration(fileData.ProbeIntervalSeconds) * time.Second
	}
	if fileData.SuspendThresholdSeconds > 0 {
		settings.SuspendThreshold = time.Duration(fileData.SuspendThresholdSeconds) * time.Second
	}
	if level, err := logrus.ParseLevel(fileData.LogLevel); err == nil {
		settings.LogLevel = level
	}
}
