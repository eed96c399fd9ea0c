package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Data        DataConfig      `mapstructure:"data"`
	Assistant   AssistantConfig `mapstructure:"assistant"`
	RFM         RFMConfig       `mapstructure:"rfm"`
	Plan        PlanConfig      `mapstructure:"plan"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

type AssistantConfig struct {
	Provider       string   `mapstructure:"provider"`
	Model          string   `mapstructure:"model"`
	APIKeyEnv      string   `mapstructure:"api_key_env"`
	APIKey         string   `mapstructure:"api_key"`
	AssistantID    string   `mapstructure:"assistant_id"`
	FileIDs        []string `mapstructure:"file_ids"`
	InitialMessage string   `mapstructure:"initial_message"`
}

type RFMConfig struct {
	Scale string `mapstructure:"scale"`
}

type PlanConfig struct {
	Granularity string `mapstructure:"granularity"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.shoplens/")
	v.AddConfigPath("/etc/shoplens/")

	// Enable environment variable override with SHOPLENS_ prefix
	v.SetEnvPrefix("SHOPLENS")
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("data.dir", "./data")
	v.SetDefault("assistant.provider", "openai")
	v.SetDefault("assistant.model", "gpt-4o")
	v.SetDefault("assistant.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("rfm.scale", "classic")
	v.SetDefault("plan.granularity", "daily")

	// Read config file; every key has a default so a missing file is fine
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
