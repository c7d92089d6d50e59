package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DRAFT_STORE", "")
	t.Setenv("DRAFT_TTL", "")
	t.Setenv("ENGINE_BASE_URL", "http://engine.local/api/")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, DraftStoreRedis, cfg.Draft.Store)
	assert.Zero(t, cfg.Draft.TTL)
	assert.Equal(t, "http://engine.local/api", cfg.Engine.BaseURL)
	assert.Equal(t, 10, cfg.CommandCenter.PageSize)
	assert.Equal(t, "total_amount,transaction_uuid,product_code", cfg.Gateway.SignedFieldNames)
	assert.Equal(t, 20.0, cfg.RateLimit.PerIPPerSecond)
	assert.Equal(t, 40, cfg.RateLimit.PerIPBurst)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DRAFT_STORE", "Postgres")
	t.Setenv("DRAFT_TTL", "2h")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, DraftStorePostgres, cfg.Draft.Store)
	assert.Equal(t, 2*time.Hour, cfg.Draft.TTL)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown draft store", func(t *testing.T) {
		t.Setenv("DRAFT_STORE", "localstorage")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad rate", func(t *testing.T) {
		t.Setenv("API_RATE_PER_SECOND", "fast")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("ENGINE_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dsn := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}.DSN()
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", dsn)
}
