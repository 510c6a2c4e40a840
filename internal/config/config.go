package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Port             string       `mapstructure:"port"`
	DefaultOwner     string       `mapstructure:"default_owner"`
	DefaultRepo      string       `mapstructure:"default_repo"`
	ProjectQuery     string       `mapstructure:"project_query"`
	CloneConcurrency int          `mapstructure:"clone_concurrency"`
	GitHub           GitHubConfig `mapstructure:"github"`
}

// GitHubConfig groups App and OAuth credentials.
type GitHubConfig struct {
	App   AppConfig   `mapstructure:"app"`
	OAuth OAuthConfig `mapstructure:"oauth"`
}

// AppConfig contains GitHub App authentication settings.
type AppConfig struct {
	ID         string `mapstructure:"id"`
	PrivateKey string `mapstructure:"private_key"`
}

// OAuthConfig contains the OAuth app's client credentials.
type OAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// Load reads configuration from the environment (TRAINEETRACK_* variables)
// and, when present, a traineetrack.yaml file in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("traineetrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("traineetrack")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind nested keys explicitly so AutomaticEnv sees them without a file.
	for _, key := range []string{
		"port", "default_owner", "default_repo", "project_query", "clone_concurrency",
		"github.app.id", "github.app.private_key",
		"github.oauth.client_id", "github.oauth.client_secret",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DefaultRepo == "" {
		cfg.DefaultRepo = "coursework"
	}
	if cfg.ProjectQuery == "" {
		cfg.ProjectQuery = "coursework planner"
	}
	if cfg.CloneConcurrency == 0 {
		cfg.CloneConcurrency = 1
	}
}

// Validate reports every missing required field at once.
func (c *Config) Validate() error {
	var missing []string
	if c.DefaultOwner == "" {
		missing = append(missing, "default_owner")
	}
	if c.GitHub.App.ID == "" {
		missing = append(missing, "github.app.id")
	}
	if c.GitHub.App.PrivateKey == "" {
		missing = append(missing, "github.app.private_key")
	}
	if c.GitHub.OAuth.ClientID == "" {
		missing = append(missing, "github.oauth.client_id")
	}
	if c.GitHub.OAuth.ClientSecret == "" {
		missing = append(missing, "github.oauth.client_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config validation error: missing %s", strings.Join(missing, ", "))
	}
	if c.CloneConcurrency < 1 {
		return fmt.Errorf("config validation error: clone_concurrency must be at least 1")
	}
	return nil
}
