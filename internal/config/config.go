package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DraftStoreRedis    = "redis"
	DraftStorePostgres = "postgres"
	DraftStoreMemory   = "memory"
)

type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	JWT           JWTConfig
	Engine        EngineConfig
	Gateway       GatewayConfig
	Draft         DraftConfig
	CommandCenter CommandCenterConfig
	RateLimit     RateLimitConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	MaxRetries int
}

type KafkaConfig struct {
	Broker        string
	ConsumerGroup string
	PollInterval  time.Duration
}

type JWTConfig struct {
	Secret string
}

// EngineConfig points at the external payroll calculation engine.
type EngineConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GatewayConfig holds defaults used when the engine's initiate response omits them.
type GatewayConfig struct {
	FormURL          string
	SignedFieldNames string
}

type DraftConfig struct {
	Store string
	TTL   time.Duration
}

type CommandCenterConfig struct {
	CacheTTL time.Duration
	PageSize int
}

type RateLimitConfig struct {
	PreviewPerSecond float64
	PreviewBurst     int
	PerIPPerSecond   float64
	PerIPBurst       int
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	cfg.App = AppConfig{
		Port:     getEnv("PORT", "3000"),
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	dbRetries, err := getEnvInt("DB_MAX_RETRIES", 5)
	if err != nil {
		return nil, err
	}
	cfg.Database = DatabaseConfig{
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       getEnv("DB_PORT", "5432"),
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "payrun"),
		SSLMode:    getEnv("DB_SSLMODE", "disable"),
		MaxRetries: dbRetries,
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.Redis = RedisConfig{
		Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
		Password:   getEnv("REDIS_PASSWORD", ""),
		DB:         redisDB,
		MaxRetries: 5,
	}

	pollInterval, err := getEnvDuration("KAFKA_POLL_INTERVAL", 3*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Kafka = KafkaConfig{
		Broker:        getEnv("KAFKA_BROKER", ""),
		ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "go-payrun-command-center"),
		PollInterval:  pollInterval,
	}

	cfg.JWT = JWTConfig{Secret: getEnv("JWT_SECRET", "")}

	engineTimeout, err := getEnvDuration("ENGINE_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.Engine = EngineConfig{
		BaseURL: strings.TrimRight(getEnv("ENGINE_BASE_URL", "http://localhost:8080/api"), "/"),
		Timeout: engineTimeout,
	}

	cfg.Gateway = GatewayConfig{
		FormURL:          getEnv("ESEWA_FORM_URL", "https://rc-epay.esewa.com.np/api/epay/main/v2/form"),
		SignedFieldNames: getEnv("ESEWA_SIGNED_FIELD_NAMES", "total_amount,transaction_uuid,product_code"),
	}

	// zero keeps drafts until they are confirmed, discarded or dropped
	draftTTL, err := getEnvDuration("DRAFT_TTL", 0)
	if err != nil {
		return nil, err
	}
	cfg.Draft = DraftConfig{
		Store: strings.ToLower(getEnv("DRAFT_STORE", DraftStoreRedis)),
		TTL:   draftTTL,
	}
	switch cfg.Draft.Store {
	case DraftStoreRedis, DraftStorePostgres, DraftStoreMemory:
	default:
		return nil, fmt.Errorf("invalid DRAFT_STORE: %s", cfg.Draft.Store)
	}

	cacheTTL, err := getEnvDuration("COMMAND_CENTER_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.CommandCenter = CommandCenterConfig{CacheTTL: cacheTTL, PageSize: 10}

	burst, err := getEnvInt("PREVIEW_RATE_BURST", 5)
	if err != nil {
		return nil, err
	}
	perSecond, err := strconv.ParseFloat(getEnv("PREVIEW_RATE_PER_SECOND", "2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PREVIEW_RATE_PER_SECOND: %w", err)
	}
	ipBurst, err := getEnvInt("API_RATE_BURST", 40)
	if err != nil {
		return nil, err
	}
	ipPerSecond, err := strconv.ParseFloat(getEnv("API_RATE_PER_SECOND", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_PER_SECOND: %w", err)
	}
	cfg.RateLimit = RateLimitConfig{
		PreviewPerSecond: perSecond,
		PreviewBurst:     burst,
		PerIPPerSecond:   ipPerSecond,
		PerIPBurst:       ipBurst,
	}

	return cfg, nil
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
