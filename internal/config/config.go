package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI        string
	DBName          string
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	Port        string
	Environment string
	CORSOrigins []string
	APIBaseURL  string

	DefaultPageLimit int64
	MaxPageLimit     int64
	FeaturedLimit    int64

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	UploadDir         string

	OrphanSweepCron string
	LogFile         string
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads .env (when present) and the process environment into AppEnv.
// It is called once at start; missing required keys are fatal.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	AppEnv = cfg
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "realestate"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 60*24*30, time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 30, 24*time.Hour),

		Port:        getEnvOrDefault("PORT", "5000"),
		Environment: getEnvOrDefault("APP_ENV", "development"),
		CORSOrigins: getListEnv("CORS_ORIGINS", []string{"http://localhost:5173"}),
		APIBaseURL:  strings.TrimRight(getEnvOrDefault("API_BASE_URL", ""), "/"),

		DefaultPageLimit: getIntEnv("DEFAULT_PAGE_LIMIT", 10),
		MaxPageLimit:     getIntEnv("MAX_PAGE_LIMIT", 100),
		FeaturedLimit:    getIntEnv("FEATURED_LIMIT", 6),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		CacheTTL:      getDurationEnv("CACHE_TTL", 60, time.Second),

		S3Bucket:          getEnvOrDefault("S3_BUCKET", ""),
		S3Region:          getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:        getEnvOrDefault("S3_ENDPOINT", ""),
		S3AccessKeyID:     getEnvOrDefault("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnvOrDefault("S3_SECRET_ACCESS_KEY", ""),
		UploadDir:         getEnvOrDefault("UPLOAD_DIR", "./public/uploads"),

		OrphanSweepCron: getEnvOrDefault("ORPHAN_SWEEP_CRON", ""),
		LogFile:         getEnvOrDefault("LOG_FILE", ""),
	}

	if missing := missingKeys(map[string]string{
		"MONGO_URI":  cfg.MongoURI,
		"JWT_SECRET": cfg.JWTSecret,
	}); len(missing) > 0 {
		return Config{}, fmt.Errorf("required env not set: %s", strings.Join(missing, ", "))
	}
	if cfg.DefaultPageLimit > cfg.MaxPageLimit {
		cfg.DefaultPageLimit = cfg.MaxPageLimit
	}
	return cfg, nil
}
