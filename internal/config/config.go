package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "PAYLOAD_MAPPER"

type Config struct {
	App  AppConfig  `mapstructure:"app"`
	HTTP HTTPConfig `mapstructure:"http"`
	Data DataConfig `mapstructure:"data"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

type HTTPConfig struct {
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
	// StrictMode turns a failed generation into a 422 response.
	StrictMode bool `mapstructure:"strict_mode"`
}

// DataConfig points at the files the service reads. Vocabulary and guard
// paths are optional.
type DataConfig struct {
	MappingsDir           string `mapstructure:"mappings_dir"`
	InvoicingItemsPath    string `mapstructure:"invoicing_items_path"`
	MetadataVariablesPath string `mapstructure:"metadata_variables_path"`
	GuardsPath            string `mapstructure:"guards_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "payload-mapper")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.allow_origins", []string{"*"})
	v.SetDefault("http.strict_mode", false)
	v.SetDefault("data.mappings_dir", "data/mappings")
	v.SetDefault("data.invoicing_items_path", "data/vocabulary/invoicing-items.json")
	v.SetDefault("data.metadata_variables_path", "data/vocabulary/metadata-variables.json")
	v.SetDefault("data.guards_path", "")
}

// Load reads the service configuration. An empty path uses defaults and
// environment variables only (PAYLOAD_MAPPER_HTTP_PORT, ...).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config failed: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Data.MappingsDir == "" {
		return fmt.Errorf("data.mappings_dir is required")
	}
	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug, info, warn, error, got %q", c.App.LogLevel)
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}
