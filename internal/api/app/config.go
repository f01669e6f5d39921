package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	StoreDriver   string // mongo or sqlite (default: sqlite)
	MongoURI      string // default: mongodb://localhost:27017
	MongoDatabase string // default: taskboard
	SQLiteFile    string // default: ./taskboard.db

	JWTSecret  string        // Required outside dev
	JWTIssuer  string        // default: taskboard
	JWTTTL     time.Duration // default: 12h
	PepperFile string        // Optional: path to the password pepper (default: ./pepper)

	BootstrapAdminEmail    string // Optional: first admin, created on an empty store
	BootstrapAdminPassword string

	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// fileConfig mirrors Config for TASKBOARD_CONFIG. Durations are Go duration strings.
type fileConfig struct {
	Env       string `yaml:"env"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Port      int    `yaml:"port"`

	Store struct {
		Driver string `yaml:"driver"`
		Mongo  struct {
			URI      string `yaml:"uri"`
			Database string `yaml:"database"`
		} `yaml:"mongo"`
		SQLite struct {
			File string `yaml:"file"`
		} `yaml:"sqlite"`
	} `yaml:"store"`

	JWT struct {
		Secret string `yaml:"secret"`
		Issuer string `yaml:"issuer"`
		TTL    string `yaml:"ttl"`
	} `yaml:"jwt"`
	PepperFile string `yaml:"pepper_file"`

	Bootstrap struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"bootstrap"`

	ShutdownGracePeriod string `yaml:"shutdown_grace_period"`
}

// LoadConfig builds the config from defaults, then the YAML file named by
// TASKBOARD_CONFIG, then the environment.
func LoadConfig() (Config, error) {
	cfg := Config{
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                8080,
		StoreDriver:         DriverSQLite,
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "taskboard",
		SQLiteFile:          "taskboard.db",
		JWTIssuer:           "taskboard",
		JWTTTL:              12 * time.Hour,
		PepperFile:          "pepper",
		ShutdownGracePeriod: 10 * time.Second,
	}

	if path := os.Getenv("TASKBOARD_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.StoreDriver = getEnvOrDefault("STORE_DRIVER", cfg.StoreDriver)
	cfg.MongoURI = getEnvOrDefault("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnvOrDefault("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.SQLiteFile = getEnvOrDefault("SQLITE_FILE", cfg.SQLiteFile)
	cfg.JWTSecret = getEnvOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnvOrDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.JWTTTL = getEnvDurationOrDefault("JWT_TTL", cfg.JWTTTL)
	cfg.PepperFile = getEnvOrDefault("PEPPER_FILE", cfg.PepperFile)
	cfg.BootstrapAdminEmail = getEnvOrDefault("BOOTSTRAP_ADMIN_EMAIL", cfg.BootstrapAdminEmail)
	cfg.BootstrapAdminPassword = getEnvOrDefault("BOOTSTRAP_ADMIN_PASSWORD", cfg.BootstrapAdminPassword)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)

	return cfg, cfg.Validate()
}

// Validate rejects configs the application cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q (want %s or %s)", c.StoreDriver, DriverMongo, DriverSQLite)
	}
	if c.JWTSecret == "" && c.Env != "dev" {
		return fmt.Errorf("JWT_SECRET is required when ENV=%s", c.Env)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Env, f.Env)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.LogFormat, f.LogFormat)
	if f.Port != 0 {
		c.Port = f.Port
	}
	setString(&c.StoreDriver, f.Store.Driver)
	setString(&c.MongoURI, f.Store.Mongo.URI)
	setString(&c.MongoDatabase, f.Store.Mongo.Database)
	setString(&c.SQLiteFile, f.Store.SQLite.File)
	setString(&c.JWTSecret, f.JWT.Secret)
	setString(&c.JWTIssuer, f.JWT.Issuer)
	setString(&c.PepperFile, f.PepperFile)
	setString(&c.BootstrapAdminEmail, f.Bootstrap.Email)
	setString(&c.BootstrapAdminPassword, f.Bootstrap.Password)

	if err := setDuration(&c.JWTTTL, f.JWT.TTL); err != nil {
		return fmt.Errorf("jwt.ttl: %w", err)
	}
	if err := setDuration(&c.ShutdownGracePeriod, f.ShutdownGracePeriod); err != nil {
		return fmt.Errorf("shutdown_grace_period: %w", err)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
