package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Places   PlacesConfig
	LLM      LLMConfig
	Log      LogConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	AllowedOrigins string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	PoolSize    int
	ReadTimeout time.Duration
}

// CacheConfig - Driver: "redis" или "memory" (go-cache, без внешних зависимостей)
type CacheConfig struct {
	Driver            string
	PlacesCacheTTL    time.Duration
	ItineraryCacheTTL time.Duration
	StatsCacheTTL     time.Duration
	CleanupInterval   time.Duration
}

// PlacesConfig - настройки Google Places API (v1)
type PlacesConfig struct {
	APIKey             string
	BaseURL            string
	RequestTimeout     time.Duration
	MaxRadiusMeters    float64
	MaxResults         int
	RateLimitPerSecond float64
	RateLimitBurst     int
	FallbackQueries    []string
}

// LLMConfig - настройки бэкенда генерации текста
type LLMConfig struct {
	Provider        string
	GeminiAPIKey    string
	ClaudeAPIKey    string
	BaseURL         string
	Model           string
	Temperature     float32
	MaxOutputTokens int
	Timeout         time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	// StreamReadTimeout - пауза воркера при пустой очереди
	StreamReadTimeout time.Duration
	MaxRetries        int
	BatchSize         int
}

const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"

	CacheDriverRedis  = "redis"
	CacheDriverMemory = "memory"
)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// .env опционален: в контейнере всё приходит через окружение
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("API_HOST"),
			Port:           v.GetInt("API_PORT"),
			Env:            v.GetString("API_ENV"),
			AllowedOrigins: v.GetString("API_ALLOWED_ORIGINS"),
			RequestTimeout: time.Duration(v.GetInt("API_REQUEST_TIMEOUT")) * time.Second,
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:        v.GetString("REDIS_HOST"),
			Port:        v.GetInt("REDIS_PORT"),
			Password:    v.GetString("REDIS_PASSWORD"),
			DB:          v.GetInt("REDIS_DB"),
			PoolSize:    v.GetInt("REDIS_POOL_SIZE"),
			ReadTimeout: time.Duration(v.GetInt("REDIS_READ_TIMEOUT")) * time.Second,
		},
		Cache: CacheConfig{
			Driver:            strings.ToLower(v.GetString("CACHE_DRIVER")),
			PlacesCacheTTL:    time.Duration(v.GetInt("PLACES_CACHE_TTL")) * time.Second,
			ItineraryCacheTTL: time.Duration(v.GetInt("ITINERARY_CACHE_TTL")) * time.Second,
			StatsCacheTTL:     time.Duration(v.GetInt("STATS_CACHE_TTL")) * time.Second,
			CleanupInterval:   time.Duration(v.GetInt("CACHE_CLEANUP_INTERVAL")) * time.Second,
		},
		Places: PlacesConfig{
			APIKey:             v.GetString("GOOGLE_PLACES_API_KEY"),
			BaseURL:            v.GetString("GOOGLE_PLACES_BASE_URL"),
			RequestTimeout:     time.Duration(v.GetInt("GOOGLE_PLACES_REQUEST_TIMEOUT")) * time.Second,
			MaxRadiusMeters:    v.GetFloat64("GOOGLE_PLACES_MAX_RADIUS"),
			MaxResults:         v.GetInt("GOOGLE_PLACES_MAX_RESULTS"),
			RateLimitPerSecond: v.GetFloat64("GOOGLE_PLACES_RATE_LIMIT"),
			RateLimitBurst:     v.GetInt("GOOGLE_PLACES_RATE_BURST"),
			FallbackQueries:    parseList(v.GetString("GOOGLE_PLACES_FALLBACK_QUERIES")),
		},
		LLM: LLMConfig{
			Provider:        strings.ToLower(v.GetString("LLM_PROVIDER")),
			GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
			ClaudeAPIKey:    v.GetString("ANTHROPIC_API_KEY"),
			BaseURL:         v.GetString("LLM_BASE_URL"),
			Model:           v.GetString("LLM_MODEL"),
			Temperature:     float32(v.GetFloat64("LLM_TEMPERATURE")),
			MaxOutputTokens: v.GetInt("LLM_MAX_OUTPUT_TOKENS"),
			Timeout:         time.Duration(v.GetInt("LLM_TIMEOUT")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
			BatchSize:         v.GetInt("WORKER_BATCH_SIZE"),
		},
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults - значения по умолчанию, если не заданы в окружении
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.AllowedOrigins == "" {
		c.Server.AllowedOrigins = "http://localhost:3000,http://localhost:5173"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 60 * time.Second
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == 0 {
		c.Redis.Port = 6379
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}

	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheDriverRedis
	}
	if c.Cache.PlacesCacheTTL == 0 {
		c.Cache.PlacesCacheTTL = 15 * time.Minute
	}
	if c.Cache.ItineraryCacheTTL == 0 {
		c.Cache.ItineraryCacheTTL = time.Hour
	}
	if c.Cache.StatsCacheTTL == 0 {
		c.Cache.StatsCacheTTL = time.Minute
	}
	if c.Cache.CleanupInterval == 0 {
		c.Cache.CleanupInterval = 10 * time.Minute
	}

	if c.Places.BaseURL == "" {
		c.Places.BaseURL = "https://places.googleapis.com/v1"
	}
	if c.Places.RequestTimeout == 0 {
		c.Places.RequestTimeout = 10 * time.Second
	}
	if c.Places.MaxRadiusMeters == 0 {
		c.Places.MaxRadiusMeters = 50000
	}
	if c.Places.MaxResults == 0 {
		c.Places.MaxResults = 20
	}
	if c.Places.RateLimitPerSecond == 0 {
		c.Places.RateLimitPerSecond = 10
	}
	if c.Places.RateLimitBurst == 0 {
		c.Places.RateLimitBurst = 5
	}
	if len(c.Places.FallbackQueries) == 0 {
		c.Places.FallbackQueries = []string{"popular places", "attractions", "restaurants", "parks", "shopping"}
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case ProviderClaude:
			c.LLM.Model = "claude-3-5-haiku-latest"
		default:
			c.LLM.Model = "gemini-2.0-flash"
		}
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxOutputTokens == 0 {
		c.LLM.MaxOutputTokens = 2048
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 45 * time.Second
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "itinerary-generation-workers"
	}
	if c.Worker.StreamReadTimeout == 0 {
		c.Worker.StreamReadTimeout = 500 * time.Millisecond
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}
	if c.Worker.BatchSize == 0 {
		c.Worker.BatchSize = 5
	}
}

// Validate проверяет взаимоисключающие и обязательные настройки
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case CacheDriverRedis, CacheDriverMemory:
	default:
		return fmt.Errorf("unsupported cache driver %q", c.Cache.Driver)
	}

	switch c.LLM.Provider {
	case ProviderGemini, ProviderClaude:
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}

	if c.Places.MaxResults < 1 || c.Places.MaxResults > 20 {
		return fmt.Errorf("GOOGLE_PLACES_MAX_RESULTS must be between 1 and 20, got %d", c.Places.MaxResults)
	}

	return nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DSN - строка подключения в формате key=value для pgx
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AllowedOriginsList - список origin для CORS
func (c *Config) AllowedOriginsList() []string {
	return parseList(c.Server.AllowedOrigins)
}
