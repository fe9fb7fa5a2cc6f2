package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	DatabaseURL string
	DBHost      string
	DBUser      string
	DBPass      string
	DBName      string
	DBPort      string
	RedisURL    string

	JWTSecret     string
	JWTTTL        time.Duration
	AdminPassword string

	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	LLMTimeout   time.Duration

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryURL          string
	CloudinaryUploadFolder string

	RateLimitAI        time.Duration
	LeagueRefreshCron  string
	DefaultDailyTarget int
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPass:      os.Getenv("DB_PASS"),
		DBName:      getEnv("DB_NAME", "leximind"),
		DBPort:      getEnv("DB_PORT", "5432"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		LLMProvider:  strings.ToLower(os.Getenv("LLM_PROVIDER")),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryURL:          os.Getenv("CLOUDINARY_URL"),
		CloudinaryUploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "leximind"),

		LeagueRefreshCron: getEnv("LEAGUE_REFRESH_CRON", "0 * * * *"),
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "leximind-dev-secret"
	}

	ttlHours, err := getInt("JWT_TTL_HOURS", 24)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	cfg.DefaultDailyTarget, err = getInt("DEFAULT_DAILY_TARGET", 5)
	if err != nil {
		return nil, err
	}

	// Parsing durations
	cfg.LLMTimeout, err = time.ParseDuration(getEnv("LLM_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}
	cfg.RateLimitAI, err = time.ParseDuration(getEnv("RATE_LIMIT_AI", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AI: %w", err)
	}

	switch cfg.LLMProvider {
	case "", "gemini", "openai":
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q", cfg.LLMProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
