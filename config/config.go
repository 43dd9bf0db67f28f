package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DBConfig holds the relational store settings.
type DBConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"postgres"`
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT"`
	User     string `env:"DB_USER" envDefault:"root"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"10"`
	Migrate  bool   `env:"DB_MIGRATE" envDefault:"true"`
}

// CloudinaryConfig holds credentials for the optional Cloudinary image store.
type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"CLOUDINARY_FOLDER" envDefault:"events"`
}

// MailConfig holds settings for contact notification emails.
type MailConfig struct {
	Provider           string `env:"EMAIL_PROVIDER" envDefault:"noop"`
	FromAddress        string `env:"EMAIL_FROM"`
	FromName           string `env:"EMAIL_FROM_NAME"`
	NotifyAddress      string `env:"CONTACT_NOTIFY_EMAIL"`
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	InsecureSkipVerify bool   `env:"SES_INSECURE_SKIP_VERIFY" envDefault:"false"`
}

// Config holds all configuration for the application
type Config struct {
	Environment string `env:"GO_ENV" envDefault:"development"`
	Port        string `env:"SERVER_PORT" envDefault:"8081"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DB DBConfig

	JWTSecret string        `env:"JWT_SECRET"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	PublicDir     string `env:"PUBLIC_DIR" envDefault:"public"`
	UploadStorage string `env:"UPLOAD_STORAGE" envDefault:"local"`
	Cloudinary    CloudinaryConfig

	FeedInterval    time.Duration `env:"FEED_INTERVAL" envDefault:"5s"`
	FeedRecentLimit int           `env:"FEED_RECENT_LIMIT" envDefault:"10"`

	ContactRateLimit int `env:"CONTACT_RATE_LIMIT" envDefault:"5"`

	Mail MailConfig
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	// In production the environment is the only source; .env is a development convenience.
	if goEnv != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.Driver != DriverPostgres && c.DB.Driver != DriverMySQL {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMySQL, c.DB.Driver)
	}
	if c.DB.URL == "" && c.DB.Name == "" {
		return fmt.Errorf("DB_NAME is missing in environment variables")
	}
	if c.DB.MaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DB.MaxConns)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is missing in environment variables")
	}
	if c.FeedInterval <= 0 {
		return fmt.Errorf("FEED_INTERVAL must be positive, got %s", c.FeedInterval)
	}
	if c.FeedRecentLimit < 1 {
		return fmt.Errorf("FEED_RECENT_LIMIT must be positive, got %d", c.FeedRecentLimit)
	}
	if c.UploadStorage == "cloudinary" && c.Cloudinary.CloudName == "" {
		return fmt.Errorf("UPLOAD_STORAGE=cloudinary requires CLOUDINARY_CLOUD_NAME")
	}
	return nil
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits FRONTEND_URL into the CORS origin list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// DSN returns the driver-specific data source name. DATABASE_URL wins when set.
func (d DBConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	port := d.Port
	switch d.Driver {
	case DriverMySQL:
		if port == 0 {
			port = 3306
		}
		mc := mysql.NewConfig()
		mc.User = d.User
		mc.Passwd = d.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(d.Host, strconv.Itoa(port))
		mc.DBName = d.Name
		mc.ParseTime = true
		return mc.FormatDSN()
	default:
		if port == 0 {
			port = 5432
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     net.JoinHostPort(d.Host, strconv.Itoa(port)),
			Path:     "/" + d.Name,
			RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
		}
		return u.String()
	}
}

// LogValue masks the password so the settings can be logged at startup.
func (d DBConfig) LogValue() map[string]any {
	password := "[EMPTY]"
	if d.Password != "" {
		password = "[HIDDEN]"
	}
	return map[string]any{
		"driver":    d.Driver,
		"host":      d.Host,
		"port":      d.Port,
		"user":      d.User,
		"name":      d.Name,
		"password":  password,
		"max_conns": d.MaxConns,
	}
}
