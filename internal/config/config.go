package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing"`
	NATS     NATSConfig     `yaml:"nats"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port               int           `yaml:"port"`
	Host               string        `yaml:"host"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	DBName          string `yaml:"dbname"`
	SSLMode         string `yaml:"sslmode"`
	MaxConns        int32  `yaml:"max_conns"`
	ApplyMigrations bool   `yaml:"apply_migrations"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// TracingConfig holds OpenTelemetry configuration. Tracing is off when
// Endpoint is empty.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// NATSConfig holds event publishing configuration. Publishing is off when
// URL is empty.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// Default returns the configuration used for anything the file and the
// environment leave unset.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxConns:        10,
			ApplyMigrations: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			ServiceName: "users-api",
			Insecure:    true,
		},
		NATS: NATSConfig{
			Subject: "users.likes.created",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults, then
// applies environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	var problems []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	if c.Database.Host == "" {
		problems = append(problems, errors.New("database.host is required"))
	}
	if c.Database.DBName == "" {
		problems = append(problems, errors.New("database.dbname is required"))
	}
	if c.Database.MaxConns <= 0 {
		problems = append(problems, errors.New("database.max_conns must be positive"))
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		problems = append(problems, errors.New("metrics.path is required when metrics are enabled"))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(problems...))
	}
	return nil
}

// Addr returns the listen address of the HTTP server
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Host, "USERS_API_SERVER_HOST")
	setString(&c.Database.Host, "USERS_API_DB_HOST")
	setString(&c.Database.User, "USERS_API_DB_USER")
	setString(&c.Database.Password, "USERS_API_DB_PASSWORD")
	setString(&c.Database.DBName, "USERS_API_DB_NAME")
	setString(&c.Database.SSLMode, "USERS_API_DB_SSLMODE")
	setString(&c.Log.Level, "USERS_API_LOG_LEVEL")
	setString(&c.Log.Format, "USERS_API_LOG_FORMAT")
	setString(&c.NATS.URL, "USERS_API_NATS_URL")
	setString(&c.Tracing.Endpoint, "USERS_API_OTEL_ENDPOINT")

	if err := setInt(&c.Server.Port, "USERS_API_SERVER_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Database.Port, "USERS_API_DB_PORT"); err != nil {
		return err
	}

	if v, ok := os.LookupEnv("USERS_API_DB_MAX_CONNS"); ok {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("USERS_API_DB_MAX_CONNS: %w", err)
		}
		c.Database.MaxConns = int32(n)
	}

	if v, ok := os.LookupEnv("USERS_API_DB_APPLY_MIGRATIONS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("USERS_API_DB_APPLY_MIGRATIONS: %w", err)
		}
		c.Database.ApplyMigrations = b
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
