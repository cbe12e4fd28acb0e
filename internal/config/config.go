package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// APIConfig configures the remote API connection.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the request timeout applied to every API call.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// StorageConfig configures local durable state.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// ExportConfig configures where downloaded exports are written.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Config is the full application configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Export  ExportConfig  `mapstructure:"export"`
}

// Load reads configuration from the given file (YAML). If path is empty it
// looks for "config.yaml" in the working directory; a missing file is not
// an error and defaults apply. Environment variables prefixed with
// SALESADMIN_ override file values, e.g. SALESADMIN_API_BASE_URL.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:3001/api")
	v.SetDefault("api.timeout_seconds", 100)
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("export.dir", ".")

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("SALESADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults and env vars suffice when no file is present, but an
		// explicitly named file must exist.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
