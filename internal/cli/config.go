// Config loading for the tinyj CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tinyj/internal/logging"
	"github.com/mesh-intelligence/tinyj/internal/paths"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "TINYJ"

	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyLogLevel        = "log_level"
	cfgKeyLiveRedraw      = "live_redraw"
	cfgKeyLetteredChoices = "lettered_choices"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# tinyj configuration

# Storage backend
backend: sqlite

# Data directory (optional; overridable by --data-dir and TINYJ_DATA_DIR)
# data_dir:

# Log level: debug, info, warn, error
log_level: warn

# Redraw the answered questions after each answer when writing to a terminal
live_redraw: true

# Label choices a, b, c instead of 1, 2, 3
lettered_choices: false
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run. TINYJ_* environment
// variables override file values for every key except data_dir.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, logging.DefaultLevel)
	v.SetDefault(cfgKeyLiveRedraw, true)
	v.SetDefault(cfgKeyLetteredChoices, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	// data_dir has its own precedence chain in paths.ResolveDataDir.
	for _, key := range []string{cfgKeyBackend, cfgKeyLogLevel, cfgKeyLiveRedraw, cfgKeyLetteredChoices} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
