package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Notification providers.
const (
	ProviderSendgrid = "sendgrid"
	ProviderLog      = "log"
)

type Config struct {
	Env        string
	Port       int
	APIPrefix  string
	SchoolName string

	Database      DatabaseConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	Log           LogConfig
	Artifacts     ArtifactsConfig
	Notifications NotificationsConfig
	Ranking       RankingConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ArtifactsConfig controls report card storage and download links.
type ArtifactsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	RenderTimeout   time.Duration
}

// NotificationsConfig configures publication emails.
type NotificationsConfig struct {
	Enabled        bool
	Provider       string
	SendgridAPIKey string
	FromEmail      string
	FromName       string
	Workers        int
	Retries        int
	Timeout        time.Duration
}

// RankingConfig governs the cached class ranking view.
type RankingConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.SchoolName = v.GetString("SCHOOL_NAME")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Artifacts = ArtifactsConfig{
		StorageDir:      v.GetString("ARTIFACTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("ARTIFACTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("ARTIFACTS_SIGNED_URL_TTL"), 30*time.Minute),
		RenderTimeout:   parseDuration(v.GetString("ARTIFACT_TIMEOUT"), 10*time.Second),
	}

	cfg.Notifications = NotificationsConfig{
		Enabled:        v.GetBool("NOTIFY_ENABLED"),
		Provider:       strings.ToLower(v.GetString("NOTIFY_PROVIDER")),
		SendgridAPIKey: v.GetString("SENDGRID_API_KEY"),
		FromEmail:      v.GetString("NOTIFY_FROM_EMAIL"),
		FromName:       v.GetString("NOTIFY_FROM_NAME"),
		Workers:        v.GetInt("NOTIFY_WORKERS"),
		Retries:        v.GetInt("NOTIFY_RETRIES"),
		Timeout:        parseDuration(v.GetString("NOTIFY_TIMEOUT"), 15*time.Second),
	}

	cfg.Ranking = RankingConfig{
		CacheEnabled: v.GetBool("RANKING_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("RANKING_CACHE_TTL"), 10*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SCHOOL_NAME", "School Administration")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "school_results")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ARTIFACTS_STORAGE_DIR", "./artifacts")
	v.SetDefault("ARTIFACTS_SIGNED_URL_SECRET", "dev_artifacts_secret")
	v.SetDefault("ARTIFACTS_SIGNED_URL_TTL", "30m")
	v.SetDefault("ARTIFACT_TIMEOUT", "10s")

	v.SetDefault("NOTIFY_ENABLED", true)
	v.SetDefault("NOTIFY_PROVIDER", ProviderLog)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("NOTIFY_FROM_EMAIL", "no-reply@school.local")
	v.SetDefault("NOTIFY_FROM_NAME", "School Administration")
	v.SetDefault("NOTIFY_WORKERS", 2)
	v.SetDefault("NOTIFY_RETRIES", 3)
	v.SetDefault("NOTIFY_TIMEOUT", "15s")

	v.SetDefault("RANKING_CACHE_ENABLED", true)
	v.SetDefault("RANKING_CACHE_TTL", "10m")
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
