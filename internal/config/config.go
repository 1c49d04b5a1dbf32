package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	HTTP     HTTPConfig
	GRPC     GRPCConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Log      LogConfig
}

// HTTPConfig contains REST server settings.
type HTTPConfig struct {
	Address     string   // listen address (e.g., ":5000")
	CORSOrigins []string // allowed browser origins
}

// GRPCConfig contains gRPC health server settings.
type GRPCConfig struct {
	Address string // gRPC server listen address (e.g., ":50051"); empty disables it
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Driver       string // "sqlite3" or "mysql"
	Path         string // SQLite database file path
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxOpenConns int
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret     string        // JWT signing secret
	JWTIssuer     string        // iss claim
	TokenTTL      time.Duration // session token lifetime
	BcryptCost    int
	AdminUsername string // bootstrap admin, created at startup when both are set
	AdminPassword string
}

// RedisConfig points at the session revocation store. Empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig points at the MinIO bucket used for payslips. Empty Endpoint disables it.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string // debug|info|warn|error
	Format string // json|console
}

// Load loads configuration from environment variables (and an optional .env file)
// with sensible defaults. JWT_SECRET is mandatory.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}

	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	// A missing .env file is fine; real environment variables win either way.
	_ = godotenv.Load()

	port, err := getEnvInt("DB_PORT", 3306)
	if err != nil {
		return nil, err
	}
	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, err
	}
	cost, err := getEnvInt("BCRYPT_COST", 10)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	useSSL, err := getEnvBool("MINIO_USE_SSL", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTP: HTTPConfig{
			Address:     getEnv("HTTP_ADDRESS", ":5000"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		},
		GRPC: GRPCConfig{
			Address: getEnv("GRPC_ADDRESS", ":50051"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite3")),
			Path:         getEnv("DB_PATH", "app.db"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         port,
			User:         getEnv("DB_USER", "root"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "employee_management_system"),
			MaxOpenConns: maxOpen,
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", defaultSecret),
			JWTIssuer:     getEnv("JWT_ISSUER", "employee-management"),
			TokenTTL:      ttl,
			BcryptCost:    cost,
			AdminUsername: getEnv("ADMIN_USERNAME", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "payslips"),
			UseSSL:    useSSL,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	switch cfg.Database.Driver {
	case "sqlite3", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want sqlite3 or mysql)", cfg.Database.Driver)
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive")
	}
	return cfg, nil
}

// DSN returns the driver-specific data source name.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?multiStatements=true&clientFoundRows=true", d.User, d.Password, d.Host, d.Port, d.Name)
	}
	return d.Path
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	db := c.Database.Path
	if c.Database.Driver == "mysql" {
		db = fmt.Sprintf("%s@%s:%d/%s", c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name)
	}
	return fmt.Sprintf("Config{HTTP: %s, gRPC: %s, DB: %s(%s), Redis: %t, Storage: %t, Auth: *** (masked) ***}",
		c.HTTP.Address, c.GRPC.Address, c.Database.Driver, db, c.Redis.Addr != "", c.Storage.Endpoint != "")
}
