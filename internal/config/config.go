package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	MealDB    MealDBConfig    `mapstructure:"mealdb"`
	Translate TranslateConfig `mapstructure:"translate"`
	Import    ImportConfig    `mapstructure:"import"`
	LogLevel  string          `mapstructure:"log_level"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	AllowOrigins []string      `mapstructure:"allow_origins"`
}

// DatabaseConfig configures the relational store connection.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// MealDBConfig configures the external recipe source.
type MealDBConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TranslateConfig configures the translation provider.
type TranslateConfig struct {
	Provider   string        `mapstructure:"provider"` // "libretranslate" or "deepl"
	Endpoint   string        `mapstructure:"endpoint"`
	APIKey     string        `mapstructure:"api_key"`
	SourceLang string        `mapstructure:"source_lang"`
	TargetLang string        `mapstructure:"target_lang"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ImportConfig configures the import pipeline and the defaults used for
// fields the external source does not provide.
type ImportConfig struct {
	BatchSize       int           `mapstructure:"batch_size"`
	Servings        int           `mapstructure:"servings"`
	Cost            float64       `mapstructure:"cost"`
	DifficultyID    int64         `mapstructure:"difficulty_id"`
	PrepTimeMinutes int           `mapstructure:"prep_time_minutes"`
	SaveThumbs      bool          `mapstructure:"save_thumbs"`
	ImageDir        string        `mapstructure:"image_dir"`
	ImageTimeout    time.Duration `mapstructure:"image_timeout"`
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NUTRICHEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Common variables without the prefix.
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("translate.api_key", "TRANSLATE_API_KEY")
	v.BindEnv("translate.provider", "TRANSLATE_PROVIDER")
	v.BindEnv("log_level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.allow_origins", []string{"http://localhost:8081"})

	v.SetDefault("mealdb.base_url", "https://www.themealdb.com/api/json/v1/1")
	v.SetDefault("mealdb.timeout", "15s")

	v.SetDefault("translate.provider", "libretranslate")
	v.SetDefault("translate.endpoint", "")
	v.SetDefault("translate.source_lang", "en")
	v.SetDefault("translate.target_lang", "pt")
	v.SetDefault("translate.timeout", "15s")

	v.SetDefault("import.batch_size", 80)
	v.SetDefault("import.servings", 1)
	v.SetDefault("import.cost", 0)
	v.SetDefault("import.difficulty_id", 1)
	v.SetDefault("import.prep_time_minutes", 30)
	v.SetDefault("import.save_thumbs", false)
	v.SetDefault("import.image_dir", "public/receitas")
	v.SetDefault("import.image_timeout", "20s")

	v.SetDefault("log_level", "info")
}

func validate(cfg *Config) error {
	if cfg.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	switch cfg.Translate.Provider {
	case "libretranslate":
	case "deepl":
		if cfg.Translate.APIKey == "" {
			return fmt.Errorf("deepl provider requires an api key")
		}
	default:
		return fmt.Errorf("unknown translate provider %q", cfg.Translate.Provider)
	}
	if cfg.Import.BatchSize <= 0 {
		return fmt.Errorf("import batch size must be positive")
	}
	return nil
}
