package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the location of the optional YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "foodgram-dev-secret"

var defaultConfigPaths = []string{"config.yaml", "/etc/foodgram/config.yaml"}

// Config holds all configuration for the application
type Config struct {
	Environment Environment `koanf:"-"`

	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	Auth       AuthConfig       `koanf:"auth"`
	Recipes    RecipeConfig     `koanf:"recipes"`
	Users      UserConfig       `koanf:"users"`
	Pagination PaginationConfig `koanf:"pagination"`
	Storage    StorageConfig    `koanf:"storage"`
	Logging    LoggingConfig    `koanf:"logging"`
	CORS       CORSConfig       `koanf:"cors"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	Mode            string        `koanf:"mode"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	Path            string        `koanf:"path"`
	MigrationsDir   string        `koanf:"migrations_dir"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DSN returns a key/value connection string understood by both pgx and lib/pq.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	URL      string `koanf:"url"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// RecipeConfig bounds the numeric recipe fields.
type RecipeConfig struct {
	MinCookingTime int `koanf:"min_cooking_time"`
	MaxCookingTime int `koanf:"max_cooking_time"`
	MinAmount      int `koanf:"min_amount"`
	MaxAmount      int `koanf:"max_amount"`
}

type UserConfig struct {
	ForbiddenUsernames []string `koanf:"forbidden_usernames"`
}

type PaginationConfig struct {
	PageSize int `koanf:"page_size"`
	MaxLimit int `koanf:"max_limit"`
}

type StorageConfig struct {
	Driver      string `koanf:"driver"`
	MediaDir    string `koanf:"media_dir"`
	MediaURL    string `koanf:"media_url"`
	S3Bucket    string `koanf:"s3_bucket"`
	S3Region    string `koanf:"s3_region"`
	S3PublicURL string `koanf:"s3_public_url"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type RateLimitConfig struct {
	RecipeCreationLimit      int           `koanf:"recipe_creation_limit"`
	RecipeCreationWindow     time.Duration `koanf:"recipe_creation_window"`
	RecipeModificationLimit  int           `koanf:"recipe_modification_limit"`
	RecipeModificationWindow time.Duration `koanf:"recipe_modification_window"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			Mode:            "release",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            "5432",
			User:            "foodgram",
			Name:            "foodgram",
			SSLMode:         "disable",
			Path:            "foodgram.db",
			MigrationsDir:   "migrations",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Auth: AuthConfig{
			JWTSecret: DefaultJWTSecret,
			TokenTTL:  24 * time.Hour,
		},
		Recipes: RecipeConfig{
			MinCookingTime: 1,
			MaxCookingTime: 32000,
			MinAmount:      1,
			MaxAmount:      32000,
		},
		Users: UserConfig{
			ForbiddenUsernames: []string{"me"},
		},
		Pagination: PaginationConfig{
			PageSize: 6,
			MaxLimit: 100,
		},
		Storage: StorageConfig{
			Driver:   "local",
			MediaDir: "media",
			MediaURL: "/media",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		RateLimit: RateLimitConfig{
			RecipeCreationLimit:      20,
			RecipeCreationWindow:     time.Hour,
			RecipeModificationLimit:  30,
			RecipeModificationWindow: time.Hour,
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// environment variables and finally Docker secrets, then validates it.
func LoadConfig() (*Config, error) {
	envName := GetEnvironment()
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc(envName)), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Environment = envName

	// CI reads everything from the environment.
	if envName != CI {
		applySecrets(cfg)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"cors.allowed_origins",
	"users.forbidden_usernames",
}

// processSliceFields splits comma-separated env values for slice settings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"server_host":             "server.host",
	"server_port":             "server.port",
	"gin_mode":                "server.mode",
	"db_driver":               "database.driver",
	"db_host":                 "database.host",
	"db_port":                 "database.port",
	"db_user":                 "database.user",
	"db_password":             "database.password",
	"db_name":                 "database.name",
	"db_ssl_mode":             "database.ssl_mode",
	"db_path":                 "database.path",
	"migrations_dir":          "database.migrations_dir",
	"redis_enabled":           "redis.enabled",
	"redis_host":              "redis.host",
	"redis_port":              "redis.port",
	"redis_password":          "redis.password",
	"redis_url":               "redis.url",
	"jwt_secret":              "auth.jwt_secret",
	"token_ttl":               "auth.token_ttl",
	"min_cooking_time":        "recipes.min_cooking_time",
	"max_cooking_time":        "recipes.max_cooking_time",
	"min_amount_ingredient":   "recipes.min_amount",
	"max_amount_ingredient":   "recipes.max_amount",
	"forbidden_usernames":     "users.forbidden_usernames",
	"page_size":               "pagination.page_size",
	"max_page_limit":          "pagination.max_limit",
	"storage_driver":          "storage.driver",
	"media_dir":               "storage.media_dir",
	"media_url":               "storage.media_url",
	"s3_bucket_name":          "storage.s3_bucket",
	"aws_region":              "storage.s3_region",
	"s3_public_url":           "storage.s3_public_url",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
	"log_caller":              "logging.caller",
	"cors_allowed_origins":    "cors.allowed_origins",
	"recipe_creation_limit":   "rate_limit.recipe_creation_limit",
	"recipe_creation_window":  "rate_limit.recipe_creation_window",
	"recipe_modify_limit":     "rate_limit.recipe_modification_limit",
	"recipe_modify_window":    "rate_limit.recipe_modification_window",
}

// ciMappings are the GitHub Actions secret names used in CI.
var ciMappings = map[string]string{
	"test_db_password":    "database.password",
	"test_jwt_secret":     "auth.jwt_secret",
	"test_redis_password": "redis.password",
	"test_redis_url":      "redis.url",
}

// envTransformFunc maps environment variable names to koanf paths. Unknown
// variables map to "" and are skipped.
func envTransformFunc(envName Environment) func(string) string {
	return func(key string) string {
		key = strings.ToLower(key)
		if envName == CI {
			if mapped, ok := ciMappings[key]; ok {
				return mapped
			}
		}
		return envMappings[key]
	}
}

// applySecrets overlays Docker secrets when the files exist.
func applySecrets(cfg *Config) {
	if v := readSecret("db_user"); v != "" {
		cfg.Database.User = v
	}
	if v := readSecret("db_password"); v != "" {
		cfg.Database.Password = v
	}
	if v := readSecret("jwt_secret"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := readSecret("redis_password"); v != "" {
		cfg.Redis.Password = v
	}
	if v := readSecret("redis_url"); v != "" {
		cfg.Redis.URL = v
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
