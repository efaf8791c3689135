package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"more-shortcuts/log"
)

const ConfigFileName = "config.json"

// Config holds user preferences for the shortcut host.
type Config struct {
	// DisableCapture turns off the highlight-to-bind affordance, so no new
	// shortcuts can be created from the scene.
	DisableCapture bool `json:"disable_capture"`
	// HighlightKey is the host key that toggles the highlight affordance.
	HighlightKey string `json:"highlight_key"`
	// Log configures the rotating log file.
	Log *log.LogConfig `json:"log"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DisableCapture: false,
		HighlightKey:   "ctrl+a",
		Log:            log.DefaultLogConfig(),
	}
}

// GetConfigDir returns the path to the application's configuration directory
func GetConfigDir() (string, error) {
	return log.GetConfigDir()
}

// LoadConfig loads the configuration from disk. If it cannot be done, we return the default configuration.
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create and save default config if file doesn't exist
			defaultCfg := DefaultConfig()
			if saveErr := SaveConfig(defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return defaultCfg
		}

		log.WarningLog.Printf("failed to get config file: %v", err)
		return DefaultConfig()
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		log.ErrorLog.Printf("failed to parse config file: %v", err)
		return DefaultConfig()
	}
	if config.Log == nil {
		config.Log = log.DefaultLogConfig()
	}
	if config.HighlightKey == "" {
		config.HighlightKey = DefaultConfig().HighlightKey
	}

	return config
}

// SaveConfig saves the configuration to disk
func SaveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}
