package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/nutrichef_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://www.themealdb.com/api/json/v1/1", cfg.MealDB.BaseURL)
	assert.Equal(t, "libretranslate", cfg.Translate.Provider)
	assert.Equal(t, "en", cfg.Translate.SourceLang)
	assert.Equal(t, "pt", cfg.Translate.TargetLang)
	assert.Equal(t, 80, cfg.Import.BatchSize)
	assert.Equal(t, 1, cfg.Import.Servings)
	assert.Equal(t, int64(1), cfg.Import.DifficultyID)
	assert.Equal(t, 30, cfg.Import.PrepTimeMinutes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database url")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/nutrichef_test")
	t.Setenv("NUTRICHEF_SERVER_PORT", "8080")
	t.Setenv("NUTRICHEF_IMPORT_BATCH_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Import.BatchSize)
}

func TestLoadDeepLRequiresAPIKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/nutrichef_test")
	t.Setenv("TRANSLATE_PROVIDER", "deepl")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")

	t.Setenv("TRANSLATE_API_KEY", "deepl-key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "deepl", cfg.Translate.Provider)
	assert.Equal(t, "deepl-key", cfg.Translate.APIKey)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/nutrichef_test")
	t.Setenv("TRANSLATE_PROVIDER", "babelfish")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown translate provider")
}
