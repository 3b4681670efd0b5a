// Package config handles Movi configuration loading and management.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Model    ModelConfig    `toml:"model"`
	Agent    AgentConfig    `toml:"agent"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DatabaseConfig configures the SQLite store.
type DatabaseConfig struct {
	Path string `toml:"path"`
	Seed bool   `toml:"seed"`
}

// ModelConfig configures the language model client.
// The API key is read from the OPENAI_API_KEY environment variable,
// never from the config file.
type ModelConfig struct {
	Name        string  `toml:"name"`
	Temperature float64 `toml:"temperature"`
}

// AgentConfig configures the action controller.
type AgentConfig struct {
	// MaxToolCalls bounds the model/tool loop per turn. Exceeding it
	// fails the turn deterministically.
	MaxToolCalls int `toml:"max_tool_calls"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".movi")

	return &Config{
		Server: ServerConfig{
			Addr: ":8000",
		},
		Database: DatabaseConfig{
			Path: filepath.Join(dataDir, "movi.db"),
			Seed: true,
		},
		Model: ModelConfig{
			Name:        "gpt-4o",
			Temperature: 0,
		},
		Agent: AgentConfig{
			MaxToolCalls: 8,
		},
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "failed to read config file", apperrors.CategorySystem)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigInvalid, "failed to parse config file", apperrors.CategoryUser)
	}

	cfg.expandPaths()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to the given path.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(c)
}

// expandPaths expands a leading ~ in the database path.
func (c *Config) expandPaths() {
	if len(c.Database.Path) > 0 && c.Database.Path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		c.Database.Path = filepath.Join(homeDir, c.Database.Path[1:])
	}
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return apperrors.New(apperrors.CodeConfigInvalid, "server.addr must not be empty", apperrors.CategoryUser)
	}
	if c.Database.Path == "" {
		return apperrors.New(apperrors.CodeConfigInvalid, "database.path must not be empty", apperrors.CategoryUser)
	}
	if c.Agent.MaxToolCalls < 1 {
		return apperrors.New(apperrors.CodeConfigInvalid, "agent.max_tool_calls must be at least 1", apperrors.CategoryUser)
	}
	return nil
}
