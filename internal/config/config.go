package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port     string
		GinMode  string
		LogLevel string
	}

	JWT struct {
		Secret      string
		ExpireHours int
	}

	Upload struct {
		Backend     string // "local" or "minio"
		Dir         string
		MaxFileSize int64
	}

	MinIO struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
	}

	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
		StatsTTL time.Duration
	}

	Mail struct {
		Provider        string // "ses" or "noop"
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		FromAddress     string
		FromName        string
		AdminAddress    string
	}

	Admin struct {
		Name     string
		Email    string
		Password string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "mulearn")
	config.DB.Password = getEnv("DB_PASSWORD", "mulearn_password")
	config.DB.Name = getEnv("DB_NAME", "mulearn_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	config.JWT.Secret = getEnv("JWT_SECRET", "change-me-in-production")
	config.JWT.ExpireHours = getEnvAsInt("JWT_EXPIRE_HOURS", 24)

	config.Upload.Backend = getEnv("UPLOAD_BACKEND", "local")
	config.Upload.Dir = getEnv("UPLOADS_DIR", "./uploads")
	config.Upload.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 5<<20)

	config.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	config.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", "")
	config.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", "")
	config.MinIO.Bucket = getEnv("MINIO_BUCKET", "mulearn-uploads")
	config.MinIO.UseSSL = getEnvAsBool("MINIO_USE_SSL", false)

	config.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", false)
	config.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	config.Redis.Password = getEnv("REDIS_PASSWORD", "")
	config.Redis.DB = getEnvAsInt("REDIS_DB", 0)
	config.Redis.StatsTTL = time.Duration(getEnvAsInt("REDIS_STATS_TTL_SECONDS", 60)) * time.Second

	config.Mail.Provider = getEnv("MAIL_PROVIDER", "noop")
	config.Mail.Region = getEnv("MAIL_SES_REGION", "ap-south-1")
	config.Mail.AccessKeyID = getEnv("MAIL_SES_ACCESS_KEY_ID", "")
	config.Mail.SecretAccessKey = getEnv("MAIL_SES_SECRET_ACCESS_KEY", "")
	config.Mail.FromAddress = getEnv("MAIL_FROM_ADDRESS", "noreply@gecidukki.ac.in")
	config.Mail.FromName = getEnv("MAIL_FROM_NAME", "MuLearn GEC Idukki")
	config.Mail.AdminAddress = getEnv("MAIL_ADMIN_ADDRESS", "mulearn@gecidukki.ac.in")

	config.Admin.Name = getEnv("ADMIN_NAME", "MuLearn Admin")
	config.Admin.Email = getEnv("ADMIN_EMAIL", "mulearn@gecidukki.ac.in")
	config.Admin.Password = getEnv("ADMIN_PASSWORD", "")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "*")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
