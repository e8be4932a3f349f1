package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Auth     AuthConfig
	HTTP     HTTPConfig
	Log      LogConfig
	QR       QRConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Path         string
	MaxOpenConns int
	AutoMigrate  bool
	Seed         bool
}

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	StationCacheTTL time.Duration
	BookingLockTTL  time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	OrderCreated          string
	OrderPaid             string
	OrderCancelled        string
	OrderRefunded         string
	CateringOrderCreated  string
	CateringOrderPaid     string
	CateringOrderCanceled string
}

// All returns every configured topic name, used for topic bootstrap.
func (t TopicConfig) All() []string {
	return []string{
		t.OrderCreated,
		t.OrderPaid,
		t.OrderCancelled,
		t.OrderRefunded,
		t.CateringOrderCreated,
		t.CateringOrderPaid,
		t.CateringOrderCanceled,
	}
}

type AuthConfig struct {
	JWTSecret               string
	TokenTTL                time.Duration
	BcryptCost              int
	RecoveryCode            string
	RecoveryTTL             time.Duration
	RecoveryRequireVerified bool
}

type HTTPConfig struct {
	CORSAllowedOrigins []string
	AuthRateLimit      int
}

type LogConfig struct {
	Dir   string
	Level string
}

type QRConfig struct {
	Secret string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Path:         getEnv("DB_PATH", "data/railway.db"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 1),
			AutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", true),
			Seed:         getEnvBool("DB_SEED", true),
		},
		Redis: RedisConfig{
			Addr:            getEnv("REDIS_ADDR", "localhost:6379"),
			Password:        getEnv("REDIS_PASSWORD", ""),
			DB:              getEnvInt("REDIS_DB", 0),
			StationCacheTTL: time.Duration(getEnvInt("STATION_CACHE_TTL_SECONDS", 600)) * time.Second,
			BookingLockTTL:  time.Duration(getEnvInt("BOOKING_LOCK_TTL_SECONDS", 30)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Topics: TopicConfig{
				OrderCreated:          getEnv("KAFKA_TOPIC_ORDER_CREATED", "railway.order.created"),
				OrderPaid:             getEnv("KAFKA_TOPIC_ORDER_PAID", "railway.order.paid"),
				OrderCancelled:        getEnv("KAFKA_TOPIC_ORDER_CANCELLED", "railway.order.cancelled"),
				OrderRefunded:         getEnv("KAFKA_TOPIC_ORDER_REFUNDED", "railway.order.refunded"),
				CateringOrderCreated:  getEnv("KAFKA_TOPIC_CATERING_CREATED", "railway.catering.order.created"),
				CateringOrderPaid:     getEnv("KAFKA_TOPIC_CATERING_PAID", "railway.catering.order.paid"),
				CateringOrderCanceled: getEnv("KAFKA_TOPIC_CATERING_CANCELLED", "railway.catering.order.cancelled"),
			},
		},
		Auth: AuthConfig{
			JWTSecret:               getEnv("JWT_SECRET", "change-me-in-production"),
			TokenTTL:                time.Duration(getEnvInt("JWT_TTL_MINUTES", 24*60)) * time.Minute,
			BcryptCost:              getEnvInt("BCRYPT_COST", 10),
			RecoveryCode:            getEnv("RECOVERY_CODE", "123456"),
			RecoveryTTL:             time.Duration(getEnvInt("RECOVERY_TTL_MINUTES", 10)) * time.Minute,
			RecoveryRequireVerified: getEnvBool("RECOVERY_REQUIRE_VERIFIED", true),
		},
		HTTP: HTTPConfig{
			CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			AuthRateLimit:      getEnvInt("AUTH_RATE_LIMIT", 30),
		},
		Log: LogConfig{
			Dir:   getEnv("LOG_DIR", "logs"),
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		QR: QRConfig{
			Secret: getEnv("QR_SECRET", "boarding-pass-secret"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
