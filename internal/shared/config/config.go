package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the hallbook API
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	AllowedOrigins []string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	Kafka     KafkaConfig
	Booking   BookingConfig

	// Debug endpoints under /bookings/debug
	DebugEndpointsEnabled bool

	LogLevel string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string

	CatalogTTL      time.Duration
	AvailabilityTTL time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	JWTExpiresIn     time.Duration
	RefreshExpiresIn time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	OwnerRequests   int           `json:"owner_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`

	BookingCriticalRequests int `json:"booking_critical_requests"`
	UserRequests            int `json:"user_requests"`
	StreamRequests          int `json:"stream_requests"`
	HealthRequests          int `json:"health_requests"`
}

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	SendTimeout  time.Duration
}

// Configured reports whether an SMTP relay is available.
func (e EmailConfig) Configured() bool {
	return e.SMTPHost != "" && e.FromEmail != ""
}

// KafkaConfig holds the e-mail queue configuration
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	EmailTopic    string
	ConsumerGroup string
	Workers       int
	MaxRetries    int
	RetryBackoff  time.Duration
}

// BookingConfig tunes the booking workflow
type BookingConfig struct {
	SlotLockEnabled   bool
	SlotLockTTL       time.Duration
	LookupTimeout     time.Duration
	LookupRetries     int
	RetryBackoff      time.Duration
	CodeAttempts      int
	SideEffectTimeout time.Duration
	ReminderCron      string
	ReminderEnabled   bool
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 0),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB
		AllowedOrigins: getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "hallbook_db"),
			User:     getEnv("DB_USER", "hallbook_user"),
			Password: getEnv("DB_PASSWORD", "hallbook_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),

			CatalogTTL:      getDurationEnv("REDIS_CATALOG_TTL", 10*time.Minute),
			AvailabilityTTL: getDurationEnv("REDIS_AVAILABILITY_TTL", 1*time.Minute),
		},

		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
			JWTExpiresIn:     getDurationEnvSeconds("JWT_EXPIRES_IN", 15*time.Minute),
			RefreshExpiresIn: getDurationEnvSeconds("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
		},

		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:  getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 100),
			AuthRequests:    getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 10),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 20),
			OwnerRequests:   getIntEnv("RATE_LIMIT_OWNER_REQUESTS", 200),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),

			BookingCriticalRequests: getIntEnv("RATE_LIMIT_BOOKING_CRITICAL_REQUESTS", 5),
			UserRequests:            getIntEnv("RATE_LIMIT_USER_REQUESTS", 120),
			StreamRequests:          getIntEnv("RATE_LIMIT_STREAM_REQUESTS", 10),
			HealthRequests:          getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 300),
		},

		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getIntEnv("SMTP_PORT", 587),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@hallbook.app"),
			FromName:     getEnv("FROM_NAME", "Hall Booking"),
			SendTimeout:  getDurationEnv("SMTP_SEND_TIMEOUT", 10*time.Second),
		},

		Kafka: KafkaConfig{
			Enabled:       getBoolEnv("KAFKA_ENABLED", false),
			Brokers:       getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			EmailTopic:    getEnv("KAFKA_EMAIL_TOPIC", "hallbook.emails"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "hallbook-email-workers"),
			Workers:       getIntEnv("KAFKA_EMAIL_WORKERS", 3),
			MaxRetries:    getIntEnv("KAFKA_EMAIL_MAX_RETRIES", 3),
			RetryBackoff:  getDurationEnv("KAFKA_EMAIL_RETRY_BACKOFF", 2*time.Second),
		},

		Booking: BookingConfig{
			SlotLockEnabled:   getBoolEnv("BOOKING_SLOT_LOCK_ENABLED", false),
			SlotLockTTL:       getDurationEnv("BOOKING_SLOT_LOCK_TTL", 15*time.Second),
			LookupTimeout:     getDurationEnv("BOOKING_LOOKUP_TIMEOUT", 10*time.Second),
			LookupRetries:     getIntEnv("BOOKING_LOOKUP_RETRIES", 2),
			RetryBackoff:      getDurationEnv("BOOKING_RETRY_BACKOFF", 200*time.Millisecond),
			CodeAttempts:      getIntEnv("BOOKING_CODE_ATTEMPTS", 12),
			SideEffectTimeout: getDurationEnv("BOOKING_SIDE_EFFECT_TIMEOUT", 10*time.Second),
			ReminderCron:      getEnv("BOOKING_REMINDER_CRON", "0 9 * * *"),
			ReminderEnabled:   getBoolEnv("BOOKING_REMINDER_ENABLED", true),
		},

		DebugEndpointsEnabled: getBoolEnv("DEBUG_ENDPOINTS_ENABLED", true),

		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return "host=" + db.Host +
		" port=" + db.Port +
		" user=" + db.User +
		" password=" + db.Password +
		" dbname=" + db.Name +
		" sslmode=" + db.SSLMode
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getDurationEnvSeconds reads an integer number of seconds
func getDurationEnvSeconds(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
