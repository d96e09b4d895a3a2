package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Questions QuestionsConfig `mapstructure:"questions"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Tracing   TracingConfig   `mapstructure:"tracing"`

	// Runtime-флаги (задаются аргументами командной строки, не файлом)
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// QuestionsConfig описывает источник банка вопросов.
// source = "local" — каталог с JSON-файлами <специализация>.json,
// source = "minio" — bucket с теми же объектами.
type QuestionsConfig struct {
	Source         string        `mapstructure:"source"`
	LocalPath      string        `mapstructure:"local_path"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl_minutes"`
	MinioEndpoint  string        `mapstructure:"minio_endpoint"`
	MinioAccessKey string        `mapstructure:"minio_access_key"`
	MinioSecretKey string        `mapstructure:"minio_secret_key"`
	MinioBucket    string        `mapstructure:"minio_bucket"`
	MinioUseSSL    bool          `mapstructure:"minio_use_ssl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("TESTBOT")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Question bank
	viper.BindEnv("questions.source", "QUESTIONS_SOURCE")
	viper.BindEnv("questions.local_path", "QUESTIONS_LOCAL_PATH")
	viper.BindEnv("questions.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("questions.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("questions.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("questions.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Questions.CacheTTL = cfg.Questions.CacheTTL * time.Minute

	if cfg.Questions.Source == "minio" && cfg.Questions.MinioBucket == "" {
		return nil, fmt.Errorf("questions.minio_bucket is required when questions.source is minio")
	}

	return &cfg, nil
}
