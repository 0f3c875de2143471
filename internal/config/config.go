package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	ServerPort  string
	Environment string

	// SecretKey signs the purpose-tagged tokens (confirm / reset / change
	// email); JWTSecret signs login sessions. Keeping them separate means a
	// leaked mail link secret can't mint sessions.
	SecretKey string
	JWTSecret string
	JWTExpiry time.Duration

	// AdminEmail registrations are granted the Administrator role.
	AdminEmail string

	ConfirmTokenTTL     time.Duration
	ResetTokenTTL       time.Duration
	ChangeEmailTokenTTL time.Duration

	PostsPerPage    int
	CommentsPerPage int
	FollowsPerPage  int
	UsersPerPage    int

	// Outbound mail
	MailHost          string
	MailPort          int
	MailUsername      string
	MailPassword      string
	MailSender        string
	MailSubjectPrefix string

	// Rate limiting
	RateLimitMaxRequests int
	RateLimitWindow      time.Duration
	RateLimitBlockTime   time.Duration
}

func Load() *Config {
	// Try to load .env file, but don't fail if it doesn't exist
	// (containers use environment variables directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment")
	}

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		ServerPort:  getEnv("SERVER_PORT", ":8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		SecretKey: os.Getenv("SECRET_KEY"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: getEnvAsDuration("JWT_EXPIRY", "24h"),

		AdminEmail: os.Getenv("RBLOG_ADMIN"),

		ConfirmTokenTTL:     getEnvAsDuration("CONFIRM_TOKEN_TTL", "1h"),
		ResetTokenTTL:       getEnvAsDuration("RESET_TOKEN_TTL", "30m"),
		ChangeEmailTokenTTL: getEnvAsDuration("CHANGE_EMAIL_TOKEN_TTL", "30m"),

		PostsPerPage:    getEnvAsInt("RBLOG_POSTS_PER_PAGE", 20),
		CommentsPerPage: getEnvAsInt("RBLOG_COMMENTS_PER_PAGE", 30),
		FollowsPerPage:  getEnvAsInt("RBLOG_FOLLOWS_PER_PAGE", 50),
		UsersPerPage:    getEnvAsInt("RBLOG_USERS_PER_PAGE", 50),

		MailHost:          getEnv("MAIL_SERVER", "localhost"),
		MailPort:          getEnvAsInt("MAIL_PORT", 25),
		MailUsername:      os.Getenv("MAIL_USERNAME"),
		MailPassword:      os.Getenv("MAIL_PASSWORD"),
		MailSender:        os.Getenv("MAIL_SENDER"),
		MailSubjectPrefix: getEnv("MAIL_SUBJECT_PREFIX", "[Rblog]"),

		RateLimitMaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:      getEnvAsDuration("RATE_LIMIT_WINDOW", "1m"),
		RateLimitBlockTime:   getEnvAsDuration("RATE_LIMIT_BLOCK_TIME", "5m"),
	}

	if cfg.SecretKey == "" {
		log.Fatal("SECRET_KEY is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}
