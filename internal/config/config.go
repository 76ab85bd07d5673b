package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`

	// MasterKey encrypts provider secrets at rest. It has no default: the
	// server refuses to start without one.
	MasterKey string `mapstructure:"MASTER_KEY"`

	LLMRequestTimeout time.Duration `mapstructure:"LLM_REQUEST_TIMEOUT"`
	LLMMaxRetries     int           `mapstructure:"LLM_MAX_RETRIES"`
	LLMRetryBaseDelay time.Duration `mapstructure:"LLM_RETRY_BASE_DELAY"`

	// CharsPerToken tunes the fallback token estimator used when a provider
	// does not report usage.
	CharsPerToken int `mapstructure:"CHARS_PER_TOKEN"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/parley.db")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("LLM_REQUEST_TIMEOUT", "120s")
	viper.SetDefault("LLM_MAX_RETRIES", 3)
	viper.SetDefault("LLM_RETRY_BASE_DELAY", "500ms")
	viper.SetDefault("CHARS_PER_TOKEN", 4)

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
