package chatmod

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/datar-psa/chatmod/governor"
)

// Config is the environment-driven configuration of a Moderator
type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GeminiBackend   string `env:"GEMINI_BACKEND,default=gemini" validate:"oneof=gemini vertex"`
	GoogleProjectID string `env:"GOOGLE_PROJECT_ID" validate:"required_if=GeminiBackend vertex"`
	GoogleRegion    string `env:"GOOGLE_REGION,default=us-central1"`
	GeminiModel     string `env:"GEMINI_MODEL,default=gemini-2.5-flash" validate:"required"`

	SecondaryProvider string  `env:"SECONDARY_PROVIDER,default=openai" validate:"oneof=openai language none"`
	OpenAIAPIKey      string  `env:"OPENAI_API_KEY"`
	OpenAIEndpoint    string  `env:"OPENAI_ENDPOINT" validate:"omitempty,url"`
	OpenAIModel       string  `env:"OPENAI_MODEL"`
	LanguageThreshold float64 `env:"LANGUAGE_THRESHOLD,default=0.5" validate:"gt=0,lte=1"`

	PrimaryRateWindow      time.Duration `env:"PRIMARY_RATE_WINDOW,default=60s" validate:"gt=0"`
	PrimaryRateCeiling     int           `env:"PRIMARY_RATE_CEILING,default=15" validate:"gt=0"`
	PrimaryShortCooldown   time.Duration `env:"PRIMARY_SHORT_COOLDOWN,default=60s" validate:"gt=0"`
	PrimaryLongCooldown    time.Duration `env:"PRIMARY_LONG_COOLDOWN,default=1h" validate:"gtefield=PrimaryShortCooldown"`
	SecondaryRateWindow    time.Duration `env:"SECONDARY_RATE_WINDOW,default=60s" validate:"gt=0"`
	SecondaryRateCeiling   int           `env:"SECONDARY_RATE_CEILING,default=15" validate:"gt=0"`
	SecondaryShortCooldown time.Duration `env:"SECONDARY_SHORT_COOLDOWN,default=60s" validate:"gt=0"`
	SecondaryLongCooldown  time.Duration `env:"SECONDARY_LONG_COOLDOWN,default=1h" validate:"gtefield=SecondaryShortCooldown"`

	CacheCapacity            int           `env:"CACHE_CAPACITY,default=1000" validate:"gt=0"`
	CacheMaintenanceInterval time.Duration `env:"CACHE_MAINTENANCE_INTERVAL,default=5m" validate:"gt=0"`
	CallTimeout              time.Duration `env:"CALL_TIMEOUT,default=10s" validate:"gt=0"`
	CoalesceInflight         bool          `env:"COALESCE_INFLIGHT,default=false"`
	LexiconBadgerPath        string        `env:"LEXICON_BADGER_PATH"`
}

// LoadConfig reads a .env file when present, then the environment, and validates the result
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field requirements
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// PrimaryLimits returns the governor limits of the primary tier
func (c Config) PrimaryLimits() governor.Limits {
	return governor.Limits{
		Window:        c.PrimaryRateWindow,
		Ceiling:       c.PrimaryRateCeiling,
		ShortCooldown: c.PrimaryShortCooldown,
		LongCooldown:  c.PrimaryLongCooldown,
	}
}

// SecondaryLimits returns the governor limits of the secondary tier
func (c Config) SecondaryLimits() governor.Limits {
	return governor.Limits{
		Window:        c.SecondaryRateWindow,
		Ceiling:       c.SecondaryRateCeiling,
		ShortCooldown: c.SecondaryShortCooldown,
		LongCooldown:  c.SecondaryLongCooldown,
	}
}
