package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "data/railway.db", cfg.Database.Path)
	assert.Equal(t, "123456", cfg.Auth.RecoveryCode)
	assert.True(t, cfg.Auth.RecoveryRequireVerified)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Len(t, cfg.Kafka.Topics.All(), 7)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("JWT_TTL_MINUTES", "15")
	t.Setenv("RECOVERY_REQUIRE_VERIFIED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://rail.example.com")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.RecoveryRequireVerified)
	assert.Equal(t, []string{"https://rail.example.com"}, cfg.HTTP.CORSAllowedOrigins)
}

func TestGetEnvInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")
	assert.Equal(t, 10, getEnvInt("BCRYPT_COST", 10))

	t.Setenv("KAFKA_ENABLED", "maybe")
	assert.False(t, getEnvBool("KAFKA_ENABLED", false))
}
