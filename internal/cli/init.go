package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tinyj/internal/paths"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend         string `yaml:"backend"`
	DataDir         string `yaml:"data_dir,omitempty"`
	LogLevel        string `yaml:"log_level,omitempty"`
	LiveRedraw      *bool  `yaml:"live_redraw,omitempty"`
	LetteredChoices *bool  `yaml:"lettered_choices,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tinyj storage",
		Long: "Create the configuration and data directories, record the data\n" +
			"directory in config.yaml and initialize the storage backend.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}

	if a.flags.dataDir != "" {
		if err := recordDataDir(paths.ConfigFile(configDir), cfg.DataDir); err != nil {
			return sysError(fmt.Errorf("write config: %w", err))
		}
	}

	if _, err := a.service(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tinyj initialized\nconfig: %s\ndata:   %s\n", configDir, cfg.DataDir)
	return nil
}

// recordDataDir rewrites config.yaml with data_dir set, keeping the other
// keys.
func recordDataDir(path, dataDir string) error {
	var cfg configFile
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Backend == "" {
		cfg.Backend = types.BackendSQLite
	}
	cfg.DataDir = dataDir

	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}
