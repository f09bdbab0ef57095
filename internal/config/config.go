package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port       string `yaml:"port" env:"SERVER_PORT"`
		Mode       string `yaml:"mode" env:"SERVER_MODE"`
		BaseURL    string `yaml:"base_url" env:"SERVER_BASE_URL"`
		ExportPath string `yaml:"export_path" env:"SERVER_EXPORT_PATH"`
	} `yaml:"server"`

	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"` // badger | memory
		Path   string `yaml:"path" env:"STORAGE_PATH"`
	} `yaml:"storage"`

	Catalog struct {
		Source   string `yaml:"source" env:"CATALOG_SOURCE"` // kv | postgres
		DataFile string `yaml:"data_file" env:"CATALOG_DATA_FILE"`
	} `yaml:"catalog"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Registration struct {
		MinUnits    int    `yaml:"min_units" env:"REG_MIN_UNITS"`
		MaxUnits    int    `yaml:"max_units" env:"REG_MAX_UNITS"`
		BaseTuition int64  `yaml:"base_tuition" env:"REG_BASE_TUITION"`
		UnitPrice   int64  `yaml:"unit_price" env:"REG_UNIT_PRICE"`
		Currency    string `yaml:"currency" env:"REG_CURRENCY"`
		Semester    string `yaml:"semester" env:"REG_SEMESTER"`
	} `yaml:"registration"`

	Simulation struct {
		PaymentFailureRate  float64       `yaml:"payment_failure_rate" env:"SIM_PAYMENT_FAILURE_RATE"`
		PaymentLatency      time.Duration `yaml:"payment_latency" env:"SIM_PAYMENT_LATENCY"`
		FinalizeFailureRate float64       `yaml:"finalize_failure_rate" env:"SIM_FINALIZE_FAILURE_RATE"`
		FinalizeLatency     time.Duration `yaml:"finalize_latency" env:"SIM_FINALIZE_LATENCY"`
		Seed                int64         `yaml:"seed" env:"SIM_SEED"` // 0 seeds from the clock
	} `yaml:"simulation"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
	} `yaml:"smtp"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults plus env are enough to run
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ExportPath = "exports"

	config.Storage.Driver = "badger"
	config.Storage.Path = "data/kv"

	config.Catalog.Source = "kv"
	config.Catalog.DataFile = "data/courses.json"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "unireg"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "12h"
	config.JWT.Issuer = "unireg.app"

	config.Registration.MinUnits = 12
	config.Registration.MaxUnits = 20
	config.Registration.BaseTuition = 2500000
	config.Registration.UnitPrice = 200000
	config.Registration.Currency = "IRR"
	config.Registration.Semester = "2-1403"

	config.Simulation.PaymentFailureRate = 0.10
	config.Simulation.PaymentLatency = 3 * time.Second
	config.Simulation.FinalizeFailureRate = 0.05
	config.Simulation.FinalizeLatency = 2 * time.Second

	config.SMTP.Port = 587
	config.SMTP.FromName = "UniReg"
	config.SMTP.FromEmail = "no-reply@unireg.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch strings.ToLower(config.Storage.Driver) {
	case "badger":
		if config.Storage.Path == "" {
			return fmt.Errorf("storage path is required for the badger driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	switch strings.ToLower(config.Catalog.Source) {
	case "kv":
	case "postgres":
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for the postgres catalog")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", config.Catalog.Source)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	reg := config.Registration
	if reg.MaxUnits <= 0 {
		return fmt.Errorf("registration max units must be positive")
	}
	if reg.MinUnits < 0 || reg.MinUnits > reg.MaxUnits {
		return fmt.Errorf("registration min units must be between 0 and max units (%d)", reg.MaxUnits)
	}

	for name, rate := range map[string]float64{
		"payment":  config.Simulation.PaymentFailureRate,
		"finalize": config.Simulation.FinalizeFailureRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s failure rate must be within [0, 1], got %v", name, rate)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// UsesPostgresCatalog reports whether courses are served from PostgreSQL
func (c *Config) UsesPostgresCatalog() bool {
	return strings.EqualFold(c.Catalog.Source, "postgres")
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
