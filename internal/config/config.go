package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// AIConfig holds provider selection and the per-provider knobs the
// organization pipeline reads.
type AIConfig struct {
	Provider string `mapstructure:"provider"` // "gemini", "openrouter" or "ollama"

	Gemini struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"gemini"`

	OpenRouter struct {
		APIKey string `mapstructure:"api_key"`
		Model  string `mapstructure:"model"`
	} `mapstructure:"openrouter"`

	Ollama struct {
		BaseURL string `mapstructure:"base_url"`
		Model   string `mapstructure:"model"`
		APIKey  string `mapstructure:"api_key"` // optional bearer token
	} `mapstructure:"ollama"`

	// Throttling knobs for batch organization. Caller-controlled; the
	// pipeline never hardcodes them.
	BatchSize    int `mapstructure:"batch_size"`
	BatchDelayMs int `mapstructure:"batch_delay_ms"`
}

type Config struct {
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	AI AIConfig `mapstructure:"ai"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.linkhoard")

	viper.AutomaticEnv()
	// Keys can come from the environment without a config file entry.
	viper.BindEnv("ai.gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("ai.openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("ai.ollama.api_key", "OLLAMA_API_KEY")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("database.path", "linkhoard.db")
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.ollama.base_url", "http://localhost:11434")
	viper.SetDefault("ai.batch_size", 10)
	viper.SetDefault("ai.batch_delay_ms", 1000)
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("worker.concurrency", 2)
	viper.SetDefault("log.level", "info")
}

// Save writes the AI section back through viper so the settings command and
// API can persist provider changes.
func Save(cfg *Config) error {
	viper.Set("ai.provider", cfg.AI.Provider)
	viper.Set("ai.gemini.api_key", cfg.AI.Gemini.APIKey)
	viper.Set("ai.gemini.model", cfg.AI.Gemini.Model)
	viper.Set("ai.openrouter.api_key", cfg.AI.OpenRouter.APIKey)
	viper.Set("ai.openrouter.model", cfg.AI.OpenRouter.Model)
	viper.Set("ai.ollama.base_url", cfg.AI.Ollama.BaseURL)
	viper.Set("ai.ollama.model", cfg.AI.Ollama.Model)
	viper.Set("ai.ollama.api_key", cfg.AI.Ollama.APIKey)
	viper.Set("ai.batch_size", cfg.AI.BatchSize)
	viper.Set("ai.batch_delay_ms", cfg.AI.BatchDelayMs)

	if err := viper.WriteConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.WriteConfigAs("config.yaml")
		}
		return err
	}
	return nil
}
