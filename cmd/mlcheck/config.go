package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional mlcheck.yaml shape: default stream paths and
// whether to strip the 3-byte version prefix. A path flag wins over the
// config path when both are set; the prefix is stripped if either the
// flag or the config turns stripping on.
type fileConfig struct {
	Gamma              string `yaml:"gamma"`
	Claim              string `yaml:"claim"`
	Proof              string `yaml:"proof"`
	StripVersionPrefix bool   `yaml:"strip_version_prefix"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
