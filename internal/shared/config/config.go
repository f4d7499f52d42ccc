package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"usermanager/internal/shared/telemetry"
)

const (
	DefaultDirectoryURL     = "https://jsonplaceholder.typicode.com"
	DefaultDirectoryTimeout = 10 * time.Second
)

// Config holds application configuration.
type Config struct {
	Port             string        `yaml:"port"`
	Env              string        `yaml:"env"`
	DirectoryURL     string        `yaml:"directoryUrl"`
	DirectoryTimeout time.Duration `yaml:"directoryTimeout"`
	CORSAllowOrigin  []string      `yaml:"corsAllowOrigins"`
	SandboxPort      string        `yaml:"sandboxPort"`
	SandboxStore     string        `yaml:"sandboxStore"`
	SandboxRateLimit float64       `yaml:"sandboxRateLimit"`
	DatabaseURL      string        `yaml:"databaseUrl"`
	SQLitePath       string        `yaml:"sqlitePath"`
}

// Defaults returns the configuration used when nothing else is provided.
func Defaults() Config {
	return Config{
		Port:             "8080",
		Env:              "dev",
		DirectoryURL:     DefaultDirectoryURL,
		DirectoryTimeout: DefaultDirectoryTimeout,
		CORSAllowOrigin:  []string{"http://localhost:8080"},
		SandboxPort:      "8081",
		SandboxStore:     "memory",
		SQLitePath:       "./data/directory.db",
	}
}

// Load reads configuration from defaults, an optional YAML file and environment variables,
// in that order of precedence (environment wins).
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			telemetry.Warn("config.file.ignored", map[string]any{"path": path, "err": err})
		}
	}
	applyEnv(&cfg)
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.SandboxStore = normalizeStore(cfg.SandboxStore)
	cfg.DirectoryURL = strings.TrimRight(strings.TrimSpace(cfg.DirectoryURL), "/")
	if cfg.DirectoryTimeout <= 0 {
		cfg.DirectoryTimeout = DefaultDirectoryTimeout
	}

	if cfg.Env == "production" && cfg.SandboxStore == "postgres" && cfg.DatabaseURL == "" {
		telemetry.Warn("config.database_url.missing", map[string]any{"sandbox_store": cfg.SandboxStore})
	}
	return cfg
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.DirectoryURL = getEnv("DIRECTORY_URL", cfg.DirectoryURL)
	cfg.DirectoryTimeout = getEnvDuration("DIRECTORY_TIMEOUT", cfg.DirectoryTimeout)
	if raw := os.Getenv("CORS_ALLOW_ORIGINS"); raw != "" {
		cfg.CORSAllowOrigin = splitAndTrim(raw)
	}
	cfg.SandboxPort = getEnv("SANDBOX_PORT", cfg.SandboxPort)
	cfg.SandboxStore = getEnv("SANDBOX_STORE", cfg.SandboxStore)
	cfg.SandboxRateLimit = getEnvFloat("SANDBOX_RATE_LIMIT", cfg.SandboxRateLimit)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	// Bare integers are seconds.
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	telemetry.Warn("config.env.invalid", map[string]any{"key": key, "value": raw})
	return def
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		telemetry.Warn("config.env.invalid", map[string]any{"key": key, "value": raw})
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg", "postgresql":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return "memory"
	}
}
