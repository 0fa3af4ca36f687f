package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_EnvOverrideBranch(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db?sslmode=disable")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("JWT_SECRET", "secret")

	LoadConfig()
	cfg := AppConfig
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://u:p@localhost:5432/db?sslmode=disable", cfg.Database.DSN)
	assert.Equal(t, "local", cfg.Storage.Type)

	// local files are served at the root /files route; a mismatched base
	// would make every resolved URL 404
	assert.Equal(t, "/files", cfg.Storage.BaseURL)

	// defaults still apply in the env branch
	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, int64(20*1024*1024), cfg.Upload.MaxSize)
	assert.Equal(t, 300, cfg.Preview.ResetDelayMs)
}
