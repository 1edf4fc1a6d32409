package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"commitaid/internal/git"
	"commitaid/internal/llm"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	appName = "commit-aid"
	// CredentialFile lives directly in the home directory.
	CredentialFile = "." + appName + ".env"
	// APIKeyVar is the variable name used both in the environment and in
	// the credential file.
	APIKeyVar = "OPENAI_API_KEY"
	envPrefix = "COMMIT_AID"

	DefaultTimeout = 2 * time.Minute
)

// ErrNoAPIKey is returned when no API key was provided at the prompt.
var ErrNoAPIKey = errors.New("no API key provided")

type Config struct {
	APIKey       string        `mapstructure:"openai_api_key"`
	Provider     string        `mapstructure:"provider"`
	BaseURL      string        `mapstructure:"base_url"`
	ContextModel string        `mapstructure:"context_model"`
	CommitModel  string        `mapstructure:"commit_model"`
	ContextLines int           `mapstructure:"context_lines"`
	Exclude      []string      `mapstructure:"exclude"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// flagKeys maps config keys to the command-line flags that override them.
var flagKeys = map[string]string{
	"provider":      "provider",
	"base_url":      "base-url",
	"context_model": "context-model",
	"commit_model":  "commit-model",
	"context_lines": "context-lines",
	"exclude":       "exclude",
	"timeout":       "timeout",
}

func GetCredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, CredentialFile), nil
}

// Load reads the credential file at path, then the environment, then any of
// flags that were set, each layer overriding the previous one. A missing
// file is not an error. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("provider", llm.ProviderOpenAI)
	v.SetDefault("base_url", "")
	v.SetDefault("context_model", "")
	v.SetDefault("commit_model", "")
	v.SetDefault("context_lines", git.DefaultContextLines)
	v.SetDefault("exclude", []string{git.DefaultExclude})
	v.SetDefault("timeout", DefaultTimeout)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv("openai_api_key", APIKeyVar); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", APIKeyVar, err)
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	return &cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

// SaveAPIKey replaces the content of the credential file at path with the key.
func SaveAPIKey(path, key string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("openai_api_key", key)
	v.SetConfigType("env")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to restrict config permissions: %w", err)
	}
	return nil
}

// EnsureAPIKey asks for a key with ask when cfg has none, saves it to path
// and stores it in cfg.
func EnsureAPIKey(cfg *Config, path string, ask func() (string, error)) error {
	if cfg.APIKey != "" {
		return nil
	}

	key, err := ask()
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrNoAPIKey
	}

	if err := SaveAPIKey(path, key); err != nil {
		return err
	}
	cfg.APIKey = key
	return nil
}

// MaskedAPIKey returns the key with everything but its last four characters hidden.
func (c *Config) MaskedAPIKey() string {
	if c.APIKey == "" {
		return "(not set)"
	}
	if len(c.APIKey) <= 4 {
		return strings.Repeat("*", len(c.APIKey))
	}
	return strings.Repeat("*", len(c.APIKey)-4) + c.APIKey[len(c.APIKey)-4:]
}
