package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envProfilingEnabled      = "PROFILING_ENABLED"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envRBACPreset            = "RBAC_PRESET"
	envRoleLookup            = "RBAC_ROLE_LOOKUP"
	envAuditTimeout          = "AUDIT_WRITE_TIMEOUT"
	envRateLimitRPS          = "RATE_LIMIT_RPS"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
	envLogLevel              = "LOG_LEVEL"
	envLogFormat             = "LOG_FORMAT"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "business"
	defaultDBUser             = "business_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 10
	defaultDBMinConns         = 2
	defaultJWTExpiry          = 60 * time.Minute
	defaultRBACPreset         = "business"
	defaultAuditTimeout       = 2 * time.Second
	defaultRateLimitRPS       = 100
	defaultRateLimitBurst     = 200
	defaultLogLevel           = "info"
	defaultLogFormat          = "text"
	minJWTSecretLength        = 32
	minUniqueCharsInSecret    = 16
	minRepeatedCharThreshold  = 4
	maxRepeatedChars          = 2

	errPortRequiredFmt         = "PORT must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropyFmt  = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errRBACPresetRequiredFmt   = "RBAC_PRESET must be set"
	errRoleLookupNeedsDBFmt    = "RBAC_ROLE_LOOKUP requires DB_PASSWORD"
	errLogFormatInvalidFmt     = "LOG_FORMAT must be text or json, got %q"
	errInvalidConfigurationFmt = "invalid configuration: %w"
	errLoadEnvFileFmt          = "failed to load %s: %w"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RBAC      RBACConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// Profiling exposes pprof under /debug for admins
	Profiling bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type JWTConfig struct {
	Secret         string
	ExpiryDuration time.Duration
}

// RBACConfig selects the role table and how roles are resolved
type RBACConfig struct {
	Preset       string
	RoleLookup   bool
	AuditTimeout time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

type LogConfig struct {
	Level  string
	Format string
}

// LoadEnvFile loads key=value pairs from path into the process environment.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf(errLoadEnvFileFmt, path, err)
	}
	return nil
}

func Load() (*Config, error) {
	secret, err := requireEnv(envJWTSecret)
	if err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			Profiling:       getBoolEnv(envProfilingEnabled, false),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		JWT: JWTConfig{
			Secret:         secret,
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
		},
		RBAC: RBACConfig{
			Preset:       getEnv(envRBACPreset, defaultRBACPreset),
			RoleLookup:   getBoolEnv(envRoleLookup, false),
			AuditTimeout: getDurationEnv(envAuditTimeout, defaultAuditTimeout),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getIntEnv(envRateLimitRPS, defaultRateLimitRPS),
			Burst:             getIntEnv(envRateLimitBurst, defaultRateLimitBurst),
		},
		Log: LogConfig{
			Level:  getEnv(envLogLevel, defaultLogLevel),
			Format: getEnv(envLogFormat, defaultLogFormat),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return messages.jwtSecretTooShort()
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropyFmt)
	}

	if c.RBAC.Preset == "" {
		return fmt.Errorf(errRBACPresetRequiredFmt)
	}

	if c.RBAC.RoleLookup && !c.Database.Enabled() {
		return fmt.Errorf(errRoleLookupNeedsDBFmt)
	}

	if c.RateLimit.RequestsPerSecond <= 0 {
		return messages.envOutOfRange(envRateLimitRPS, c.RateLimit.RequestsPerSecond)
	}

	if c.RateLimit.Burst <= 0 {
		return messages.envOutOfRange(envRateLimitBurst, c.RateLimit.Burst)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		return messages.invalidLogFormat(c.Log.Format)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	if len(charCounts) < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

// Enabled reports whether enough settings are present to open a pool.
// Postgres is optional: without it audit events are only logged.
func (c *DatabaseConfig) Enabled() bool {
	return c.Password != ""
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", messages.requiredEnvNotSet(key)
	}
	return value, nil
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
