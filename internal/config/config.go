package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Storage   string
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Admin     AdminConfig
	Register  RegisterConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for the Redis client, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return r.Host + ":" + port
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// AdminConfig controls the bootstrap admin account and the legacy admin-auth payload.
type AdminConfig struct {
	ID              string
	Password        string
	IncludeTeachers bool
}

// RegisterConfig controls register-number generation and credential hashing.
type RegisterConfig struct {
	Sequence    string
	StreamCodes map[string]int
	BcryptCost  int
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type LogConfig struct {
	Level  string
	Format string
}

// Register sequence sources
const (
	SequenceCounter = "counter"
	SequenceRedis   = "redis"
	SequenceCount   = "count"
)

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_REQUEST_TIMEOUT", 10)
	v.SetDefault("STORAGE", "mongo")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "teachers")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	v.SetDefault("JWT_REFRESH_TOKEN_TTL", 10080)
	v.SetDefault("ADMIN_AUTH_INCLUDE_TEACHERS", true)
	v.SetDefault("REGISTER_SEQUENCE", SequenceCounter)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	codes, err := ParseStreamCodes(v.GetString("REGISTER_STREAM_CODES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: time.Duration(v.GetInt("SERVER_REQUEST_TIMEOUT")) * time.Second,
		},
		Storage: strings.ToLower(v.GetString("STORAGE")),
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:          os.Getenv("JWT_SECRET"),
			AccessTokenTTL:  time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(v.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		Admin: AdminConfig{
			ID:              v.GetString("ADMIN_ID"),
			Password:        os.Getenv("ADMIN_PASSWORD"),
			IncludeTeachers: v.GetBool("ADMIN_AUTH_INCLUDE_TEACHERS"),
		},
		Register: RegisterConfig{
			Sequence:    strings.ToLower(v.GetString("REGISTER_SEQUENCE")),
			StreamCodes: codes,
			BcryptCost:  v.GetInt("BCRYPT_COST"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	switch cfg.Register.Sequence {
	case SequenceCounter, SequenceRedis, SequenceCount:
	default:
		return nil, fmt.Errorf("REGISTER_SEQUENCE must be one of counter|redis|count, got %q", cfg.Register.Sequence)
	}
	if cfg.Storage != "mongo" && cfg.Storage != "memory" {
		return nil, fmt.Errorf("STORAGE must be mongo or memory, got %q", cfg.Storage)
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 10 * time.Second
	}

	return cfg, nil
}

// ParseStreamCodes parses "BTech=42,MCA=74" into a code table. An empty string yields nil,
// which callers treat as "use the built-in table".
func ParseStreamCodes(s string) (map[string]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	out := map[string]int{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, code, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid stream code %q: expected NAME=CODE", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(code))
		if err != nil || n < 0 || n > 99 {
			return nil, fmt.Errorf("invalid stream code %q: code must be 0-99", pair)
		}
		out[strings.TrimSpace(name)] = n
	}
	return out, nil
}
