package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every environment variable, e.g. ESSAYLAB_SERVER_PORT.
const envPrefix = "ESSAYLAB"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults must be bound explicitly for Unmarshal to see them.
	for _, key := range []string{"database.url", "redis.url", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalizePromoCodes(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Guest.Store == "redis" && cfg.Redis.URL == "" {
		return nil, fmt.Errorf("config validation failed: redis.url is required when guest.store is redis")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("llm.gemini_api_keys", []string{})
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("quota.timezone", "UTC")

	v.SetDefault("guest.store", "postgres")
	v.SetDefault("guest.dev_bypass", false)

	v.SetDefault("promo.codes", map[string]int{
		"WELCOME3": 3,
		"ESSAYPRO": 5,
	})
}

// normalizePromoCodes upper-cases promo keys; viper lower-cases map keys.
func normalizePromoCodes(cfg *Config) {
	codes := make(map[string]int, len(cfg.Promo.Codes))
	for code, bonus := range cfg.Promo.Codes {
		codes[strings.ToUpper(strings.TrimSpace(code))] = bonus
	}
	cfg.Promo.Codes = codes
}
