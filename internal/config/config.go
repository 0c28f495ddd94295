package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Quota    QuotaConfig    `mapstructure:"quota" validate:"required"`
	Guest    GuestConfig    `mapstructure:"guest" validate:"required"`
	Promo    PromoConfig    `mapstructure:"promo"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins feeds the CORS policy of the public guest and invite endpoints.
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
}

// RedisConfig is only required when the guest gate is backed by Redis.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains the settings used to verify bearer tokens issued by the
// hosted auth backend.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// LLMConfig contains all LLM integration related settings.
// An empty key list disables vocabulary generation.
type LLMConfig struct {
	GeminiAPIKeys     []string `mapstructure:"gemini_api_keys" validate:"dive,required"`
	ModelName         string   `mapstructure:"model_name" validate:"required"`
	MaxRetries        int      `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int      `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
}

// QuotaConfig controls how calendar days are computed for the daily reset.
type QuotaConfig struct {
	Timezone string `mapstructure:"timezone" validate:"required,timezone"`
}

// GuestConfig controls the anonymous single-trial gate.
type GuestConfig struct {
	Store string `mapstructure:"store" validate:"required,oneof=postgres redis"`
	// DevBypass makes every fingerprint look unused. Never enable in production.
	DevBypass bool `mapstructure:"dev_bypass"`
}

// PromoConfig holds the static promo code table (code -> bonus credits).
type PromoConfig struct {
	Codes map[string]int `mapstructure:"codes" validate:"dive,keys,required,endkeys,gt=0"`
}
