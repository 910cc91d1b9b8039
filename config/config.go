package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RunConfig is the optional erdos.yaml run configuration. Every field has
// a working default so the file may be absent entirely. The command line
// only names the file (-config); no flag overrides the loaded values.
type RunConfig struct {
	CheckpointInterval int64  `yaml:"checkpoint_interval"`
	CatalogPath        string `yaml:"catalog_path"`
	OutputDir          string `yaml:"output_dir"`
	MetricsAddr        string `yaml:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() *RunConfig {
	return &RunConfig{
		CheckpointInterval: 10_000_000,
		OutputDir:          ".",
	}
}

// Load reads the config file at path. A missing file yields the defaults;
// a malformed file is an error.
func Load(path string) (*RunConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	// Re-apply defaults over zero values.
	if cfg.CheckpointInterval <= 0 {
		cfg.CheckpointInterval = 10_000_000
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg, nil
}
