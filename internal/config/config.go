// Package config loads engine configuration from YAML with baked-in
// defaults. A missing file is not an error; invalid YAML is.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	// Backend is one of "file", "sqlite", "memory".
	Backend string `yaml:"backend"`
	// Dir is the file backend's directory.
	Dir string `yaml:"dir"`
	// DBPath is the sqlite backend's database file.
	DBPath string `yaml:"db_path"`
}

// JudgeConfig parameterizes the external AI recheck pass.
type JudgeConfig struct {
	// Kind is one of "none", "http", "bedrock".
	Kind string `yaml:"kind"`

	// http judge
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`

	// bedrock judge
	Region  string `yaml:"region"`
	ModelID string `yaml:"model_id"`

	MaxTokens      int `yaml:"max_tokens"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// ServerConfig parameterizes the HTTP admin server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Config holds all configurable engine parameters.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Judge   JudgeConfig   `yaml:"judge"`
	Server  ServerConfig  `yaml:"server"`
}

// DefaultConfig returns the built-in configuration: file storage under
// ~/.copywatch, no external judge, port 8385.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Backend: "file"},
		Judge:   JudgeConfig{Kind: "none", MaxTokens: 800, TimeoutSeconds: 60},
		Server:  ServerConfig{Port: 8385},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "copywatch", "config.yaml")
	}
	return filepath.Join(home, ".copywatch", "config.yaml")
}

// Load reads configuration from a YAML file. Empty path falls back to
// DefaultPath. A missing file returns defaults. Invalid YAML returns an
// error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Start with defaults, YAML overwrites only specified fields
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// DefaultConfigYAML returns a commented YAML string for config init.
func DefaultConfigYAML() string {
	return `# copywatch engine configuration

# Rule storage backend.
#   backend: file | sqlite | memory
#   dir:     directory for the file backend (default ~/.copywatch)
#   db_path: database file for the sqlite backend
storage:
  backend: file

# External AI recheck pass. The local rule matcher always runs first and
# its findings are authoritative; the judge only adds coverage for
# paraphrased violations.
#   kind: none | http | bedrock
judge:
  kind: none
  # api_url: http://localhost:8080/v1/chat/completions
  # model: qwen2.5:14b
  # region: us-east-1
  # model_id: anthropic.claude-3-5-sonnet-20241022-v2:0
  max_tokens: 800
  timeout_seconds: 60

# HTTP admin/check server.
server:
  port: 8385
`
}
