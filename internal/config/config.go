package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	S3       S3Config
	Upload   UploadConfig
	Log      LogConfig
	CORS     CORSConfig
	Watchdog WatchdogConfig
	Email    EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	PublicURL string `mapstructure:"public_url"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// UploadConfig holds document upload settings.
type UploadConfig struct {
	MaxFileSizeMB int64         `mapstructure:"max_file_size_mb"`
	PresignExpiry int64         `mapstructure:"presign_expiry"`
	URLCacheTTL   time.Duration `mapstructure:"url_cache_ttl"`
}

// WatchdogConfig holds settings for the stuck-upload watchdog.
type WatchdogConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	StuckAfter   time.Duration `mapstructure:"stuck_after"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// Load reads configuration from environment variables with the LUXBYTE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LUXBYTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "luxbyte")
	v.SetDefault("db.password", "luxbyte_secret")
	v.SetDefault("db.name", "luxbyte_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "luxbyte")

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "luxbyte-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.public_url", "")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 5)
	v.SetDefault("upload.presign_expiry", 3600)
	v.SetDefault("upload.url_cache_ttl", "45m")

	// Watchdog defaults
	v.SetDefault("watchdog.poll_interval", "30s")
	v.SetDefault("watchdog.stuck_after", "5m")

	// Log defaults
	v.SetDefault("log.level", "debug")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-central-1")
	v.SetDefault("email.from_address", "noreply@luxbyte.app")
	v.SetDefault("email.from_name", "LUXBYTE")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":           "LUXBYTE_SERVER_PORT",
		"server.read_timeout":   "LUXBYTE_SERVER_READ_TIMEOUT",
		"server.write_timeout":  "LUXBYTE_SERVER_WRITE_TIMEOUT",
		"server.environment":    "LUXBYTE_SERVER_ENVIRONMENT",
		"db.host":               "LUXBYTE_DB_HOST",
		"db.port":               "LUXBYTE_DB_PORT",
		"db.user":               "LUXBYTE_DB_USER",
		"db.password":           "LUXBYTE_DB_PASSWORD",
		"db.name":               "LUXBYTE_DB_NAME",
		"db.sslmode":            "LUXBYTE_DB_SSLMODE",
		"db.max_open":           "LUXBYTE_DB_MAX_OPEN",
		"db.max_idle":           "LUXBYTE_DB_MAX_IDLE",
		"jwt.secret":            "LUXBYTE_JWT_SECRET",
		"jwt.access_expiry":     "LUXBYTE_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":    "LUXBYTE_JWT_REFRESH_EXPIRY",
		"jwt.issuer":            "LUXBYTE_JWT_ISSUER",
		"s3.region":             "LUXBYTE_S3_REGION",
		"s3.bucket":             "LUXBYTE_S3_BUCKET",
		"s3.endpoint":           "LUXBYTE_S3_ENDPOINT",
		"s3.public_url":         "LUXBYTE_S3_PUBLIC_URL",
		"s3.access_key":         "LUXBYTE_S3_ACCESS_KEY",
		"s3.secret_key":         "LUXBYTE_S3_SECRET_KEY",
		"upload.max_file_size_mb": "LUXBYTE_UPLOAD_MAX_FILE_SIZE_MB",
		"upload.presign_expiry":   "LUXBYTE_UPLOAD_PRESIGN_EXPIRY",
		"upload.url_cache_ttl":    "LUXBYTE_UPLOAD_URL_CACHE_TTL",
		"watchdog.poll_interval":  "LUXBYTE_WATCHDOG_POLL_INTERVAL",
		"watchdog.stuck_after":    "LUXBYTE_WATCHDOG_STUCK_AFTER",
		"log.level":               "LUXBYTE_LOG_LEVEL",
		"cors.allowed_origins":    "LUXBYTE_CORS_ALLOWED_ORIGINS",
		"email.provider":          "LUXBYTE_EMAIL_PROVIDER",
		"email.region":            "LUXBYTE_EMAIL_REGION",
		"email.from_address":      "LUXBYTE_EMAIL_FROM_ADDRESS",
		"email.from_name":         "LUXBYTE_EMAIL_FROM_NAME",
		"email.frontend_url":      "LUXBYTE_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LUXBYTE_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LUXBYTE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		PublicURL: v.GetString("s3.public_url"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
		PresignExpiry: v.GetInt64("upload.presign_expiry"),
		URLCacheTTL:   v.GetDuration("upload.url_cache_ttl"),
	}
	cfg.Watchdog = WatchdogConfig{
		PollInterval: v.GetDuration("watchdog.poll_interval"),
		StuckAfter:   v.GetDuration("watchdog.stuck_after"),
	}
	cfg.Log = LogConfig{
		Level: v.GetString("log.level"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	return cfg, nil
}

// MaxFileSizeBytes returns the configured upload cap in bytes.
func (u *UploadConfig) MaxFileSizeBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}
