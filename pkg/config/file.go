package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the subset of Config an operator is likely to want in
// a checked-in YAML file rather than scattered across environment
// variables; LoadFromFile overlays it onto Load's environment-derived
// defaults, with file values taking precedence.
type fileConfig struct {
	StorageBackend     string `yaml:"storageBackend"`
	StorageRoot        string `yaml:"storageRoot"`
	BitcoinNetwork     string `yaml:"bitcoinNetwork"`
	BitcoinRPCHost     string `yaml:"bitcoinRpcHost"`
	OrdinalsIndexerURL string `yaml:"ordinalsIndexerUrl"`
	WebvhDomain        string `yaml:"webvhDomain"`
	ControllerKeyType  string `yaml:"controllerKeyType"`
	ControllerKeyPath  string `yaml:"controllerKeyPath"`
	LogLevel           string `yaml:"logLevel"`
}

// LoadFromFile reads environment-derived defaults via Load, then overlays
// any fields set in the YAML file at path.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	overlay(&cfg.StorageBackend, fc.StorageBackend)
	overlay(&cfg.StorageRoot, fc.StorageRoot)
	overlay(&cfg.BitcoinNetwork, fc.BitcoinNetwork)
	overlay(&cfg.BitcoinRPCHost, fc.BitcoinRPCHost)
	overlay(&cfg.OrdinalsIndexerURL, fc.OrdinalsIndexerURL)
	overlay(&cfg.WebvhDomain, fc.WebvhDomain)
	overlay(&cfg.ControllerKeyType, fc.ControllerKeyType)
	overlay(&cfg.ControllerKeyPath, fc.ControllerKeyPath)
	overlay(&cfg.LogLevel, fc.LogLevel)

	return cfg, nil
}

func overlay(dst *string, fileValue string) {
	if fileValue != "" {
		*dst = fileValue
	}
}
