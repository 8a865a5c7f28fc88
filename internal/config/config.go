// Package config loads and persists Swara's configuration.
// Configuration lives at ~/.swara/config.yaml and every key can be
// overridden through SWARA_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration for the Swara assistant.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Assistant AssistantConfig `mapstructure:"assistant" yaml:"assistant"`
	Data      DataConfig      `mapstructure:"data" yaml:"data"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// LLMConfig contains configuration for language model providers.
type LLMConfig struct {
	// DefaultProvider selects which provider to use (e.g. "groq", "ollama").
	DefaultProvider string `mapstructure:"default_provider" yaml:"default_provider"`
	// Providers maps provider names to their specific configuration.
	Providers map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

// ProviderConfig contains configuration for a specific LLM provider.
type ProviderConfig struct {
	// Endpoint is the API base URL (primarily for local providers like Ollama).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	// APIKey is the authentication key for the provider.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	// Model is the model identifier to use with this provider.
	Model string `mapstructure:"model" yaml:"model,omitempty"`
}

// AssistantConfig controls the command-processing pipeline.
type AssistantConfig struct {
	// Normalization enables the LLM rewrite pass before classification.
	Normalization bool `mapstructure:"normalization" yaml:"normalization"`
	// LLMFallback enables LLM-based intent classification when no keyword
	// rule matches. When disabled, unmatched commands go to conversation.
	LLMFallback bool `mapstructure:"llm_fallback" yaml:"llm_fallback"`
	// SearchRoots lists the directories the file search agent walks.
	// Empty means the standard user directories (home, Documents, Downloads,
	// Desktop, Pictures).
	SearchRoots []string `mapstructure:"search_roots" yaml:"search_roots,omitempty"`
}

// DataConfig locates Swara's local state.
type DataConfig struct {
	// Dir is the data directory holding the SQLite database and screenshots.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ServerConfig configures the HTTP/WebSocket front end.
type ServerConfig struct {
	// Addr is the listen address for `swara serve`.
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	swaraDir := filepath.Join(homeDir, ".swara")

	return &Config{
		LLM: LLMConfig{
			DefaultProvider: "groq",
			Providers: map[string]ProviderConfig{
				"groq": {
					Endpoint: "https://api.groq.com/openai/v1",
					APIKey:   "",
					Model:    "llama-3.3-70b-versatile",
				},
				"ollama": {
					Endpoint: "http://127.0.0.1:11434",
					Model:    "llama3.2",
				},
			},
		},
		Assistant: AssistantConfig{
			Normalization: true,
			LLMFallback:   true,
		},
		Data: DataConfig{
			Dir: swaraDir,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8990",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(swaraDir, "logs", "swara.log"),
		},
	}
}

// Load reads configuration from ~/.swara/config.yaml, creating the file with
// defaults if it does not exist, and merges environment variable overrides.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home directory: %w", err)
	}
	return LoadFromPath(filepath.Join(homeDir, ".swara", "config.yaml"))
}

// LoadFromPath reads configuration from a specific file path. If the file
// does not exist it is created with default values first.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Example override: SWARA_LLM_DEFAULT_PROVIDER=ollama
	v.SetEnvPrefix("SWARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Data.Dir = expandPath(cfg.Data.Dir)
	cfg.Logging.File = expandPath(cfg.Logging.File)
	for i, root := range cfg.Assistant.SearchRoots {
		cfg.Assistant.SearchRoots[i] = expandPath(root)
	}

	return &cfg, nil
}

// Save writes the configuration to the given path.
func (c *Config) Save(path string) error {
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

// Validate checks the configuration for common mistakes.
func (c *Config) Validate() error {
	if c.LLM.DefaultProvider == "" {
		return fmt.Errorf("llm.default_provider cannot be empty")
	}
	if _, ok := c.LLM.Providers[c.LLM.DefaultProvider]; !ok {
		return fmt.Errorf("default provider %q not found in providers map", c.LLM.DefaultProvider)
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir cannot be empty")
	}
	return nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Data.Dir}
	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
