package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "eureka.db", cfg.Database.DBName)
	assert.Equal(t, 10, cfg.Feed.PageSize)
	assert.Equal(t, 50, cfg.Feed.MaxPageSize)
	assert.Equal(t, 3600, cfg.Auth.SessionTTLSecs)
	assert.Equal(t, "mistral-small-latest", cfg.Transform.Model)
}

func TestValidate(t *testing.T) {
	t.Run("requires a database target", func(t *testing.T) {
		cfg := &Config{}
		cfg.Feed.PageSize = 10
		cfg.Feed.MaxPageSize = 50
		assert.Error(t, validate(cfg))
	})

	t.Run("libsql needs a url", func(t *testing.T) {
		cfg := &Config{}
		cfg.Database.Type = "libsql"
		cfg.Database.DBName = "eureka.db"
		cfg.Feed.PageSize = 10
		cfg.Feed.MaxPageSize = 50
		assert.Error(t, validate(cfg))
	})

	t.Run("page size must fit the cap", func(t *testing.T) {
		cfg := &Config{}
		cfg.Database.DBName = "eureka.db"
		cfg.Feed.PageSize = 100
		cfg.Feed.MaxPageSize = 50
		assert.Error(t, validate(cfg))

		cfg.Feed.PageSize = 10
		assert.NoError(t, validate(cfg))
	})
}
