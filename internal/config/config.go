package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jokeoftheday/jotd/internal/joke"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	GitHub    GitHubConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Jokes     JokesConfig
	Admin     AdminConfig
	Backup    BackupConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StoreConfig struct {
	// Backend selects the versioned blob store: "github", "mongo", "memory".
	Backend string
	Path    string
}

type GitHubConfig struct {
	Token  string
	Owner  string
	Repo   string
	Branch string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	CacheTTL time.Duration
}

type JokesConfig struct {
	// Timezone controls the local-midnight boundary of the daily pick.
	Timezone       string
	DefaultRatings []string
}

type AdminConfig struct {
	JWTSecret    string
	TokenTTL     time.Duration
	OIDCIssuer   string
	OIDCClientID string
}

type BackupConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and a local .env file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("STORE_BACKEND", "memory")
	viper.SetDefault("STORE_PATH", "jokes.json")
	viper.SetDefault("GITHUB_BRANCH", "main")
	viper.SetDefault("MONGODB_DATABASE", "jotd")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("CACHE_TTL_SECONDS", 30)
	viper.SetDefault("JOKES_TIMEZONE", "America/New_York")
	viper.SetDefault("JOKES_DEFAULT_RATINGS", "G,PG")
	viper.SetDefault("ADMIN_TOKEN_TTL", 60)
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("MINIO_BUCKET", "jotd-backups")
	viper.SetDefault("MINIO_PREFIX", "snapshots/")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend: strings.ToLower(viper.GetString("STORE_BACKEND")),
			Path:    viper.GetString("STORE_PATH"),
		},
		GitHub: GitHubConfig{
			Token:  viper.GetString("GITHUB_TOKEN"),
			Owner:  viper.GetString("GITHUB_OWNER"),
			Repo:   viper.GetString("GITHUB_REPO"),
			Branch: viper.GetString("GITHUB_BRANCH"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			CacheTTL: time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Jokes: JokesConfig{
			Timezone:       viper.GetString("JOKES_TIMEZONE"),
			DefaultRatings: splitList(viper.GetString("JOKES_DEFAULT_RATINGS")),
		},
		Admin: AdminConfig{
			JWTSecret:    viper.GetString("ADMIN_JWT_SECRET"),
			TokenTTL:     time.Duration(viper.GetInt("ADMIN_TOKEN_TTL")) * time.Minute,
			OIDCIssuer:   viper.GetString("ADMIN_OIDC_ISSUER"),
			OIDCClientID: viper.GetString("ADMIN_OIDC_CLIENT_ID"),
		},
		Backup: BackupConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: viper.GetString("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetString("MINIO_USE_SSL") == "true",
			Bucket:    viper.GetString("MINIO_BUCKET"),
			Prefix:    viper.GetString("MINIO_PREFIX"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	if len(cfg.Jokes.DefaultRatings) == 0 {
		cfg.Jokes.DefaultRatings = []string{joke.RatingG, joke.RatingPG}
	}

	return cfg, nil
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
