package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, poll intervals, etc.)
//
// The per-run triage settings (maxcourses, reject, ...) are NOT environment
// configuration; they live in the triage_settings table and are loaded once
// per pass. See usecase/commands.Config.
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	Auth     AuthConfig
	Platform PlatformConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type AuthConfig struct {
	// Shared secret for operator bearer tokens on mutating endpoints.
	JWTSecret   string `envconfig:"AUTH_JWT_SECRET" required:"true"`
	JWTDuration string `envconfig:"AUTH_JWT_DURATION" default:"1h"`
}

// PlatformConfig describes the host platform's course API, including the
// polling contract for its asynchronous duplication jobs.
type PlatformConfig struct {
	BaseURL        string        `envconfig:"PLATFORM_BASE_URL" required:"true"`
	CourseBaseURL  string        `envconfig:"PLATFORM_COURSE_BASE_URL" default:""`
	Token          string        `envconfig:"PLATFORM_TOKEN" required:"true"`
	RequestTimeout time.Duration `envconfig:"PLATFORM_REQUEST_TIMEOUT" default:"30s"`
	PollInterval   time.Duration `envconfig:"PLATFORM_POLL_INTERVAL" default:"2s"`
	PollTimeout    time.Duration `envconfig:"PLATFORM_POLL_TIMEOUT" default:"2m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Auth: AuthConfig{
			JWTSecret:   "test-secret",
			JWTDuration: "1h",
		},
		Platform: PlatformConfig{
			BaseURL:        "http://localhost:8890",
			Token:          "test-token",
			RequestTimeout: time.Second,
			PollInterval:   10 * time.Millisecond,
			PollTimeout:    time.Second,
		},
	}
}
