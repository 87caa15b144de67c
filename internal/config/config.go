package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Analyzer AnalyzerConfig
	Auth     AuthConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
	MaxImageBytes   int
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// StorageConfig holds Azure Blob Storage configuration for photos and reports
type StorageConfig struct {
	AccountName     string
	AccountKey      string
	PhotoContainer  string
	ReportContainer string
}

// AnalyzerConfig selects and configures the skin analysis backend
type AnalyzerConfig struct {
	Backend    string // mock, webhook or openai
	MockSeed   int64
	WebhookURL string
	Timeout    time.Duration
	MaxRetries int
	OpenAI     OpenAIConfig
}

// OpenAIConfig holds Azure OpenAI configuration
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Provider     string // supabase or static
	SupabaseURL  string
	SupabaseKey  string
	StaticTokens map[string]string
}

// SecurityConfig holds encryption configuration
type SecurityConfig struct {
	EncryptionKey string // base64, 32 bytes once decoded
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if raw := v.GetString("auth_static_tokens"); raw != "" {
		tokens, err := parseStaticTokens(raw)
		if err != nil {
			return nil, err
		}
		cfg.Auth.StaticTokens = tokens
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)
	v.SetDefault("server.maximagebytes", 8<<20)

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sqlitepath", "data/skincare.db")
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// Azure Storage defaults
	v.SetDefault("storage.photocontainer", "skin-photos")
	v.SetDefault("storage.reportcontainer", "skin-reports")

	// Analyzer defaults
	v.SetDefault("analyzer.backend", "mock")
	v.SetDefault("analyzer.mockseed", 1)
	v.SetDefault("analyzer.timeout", 60*time.Second)
	v.SetDefault("analyzer.maxretries", 3)

	// Auth defaults
	v.SetDefault("auth.provider", "supabase")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")
	v.BindEnv("server.maximagebytes", "MAX_IMAGE_BYTES")

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("database.sqlitepath", "SQLITE_PATH")

	// Azure Storage
	v.BindEnv("storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("storage.photocontainer", "AZURE_STORAGE_PHOTO_CONTAINER")
	v.BindEnv("storage.reportcontainer", "AZURE_STORAGE_REPORT_CONTAINER")

	// Analyzer
	v.BindEnv("analyzer.backend", "ANALYZER_BACKEND")
	v.BindEnv("analyzer.mockseed", "ANALYZER_MOCK_SEED")
	v.BindEnv("analyzer.webhookurl", "N8N_WEBHOOK_URL")
	v.BindEnv("analyzer.timeout", "ANALYZER_TIMEOUT")
	v.BindEnv("analyzer.maxretries", "ANALYZER_MAX_RETRIES")
	v.BindEnv("analyzer.openai.endpoint", "AZURE_OPENAI_ENDPOINT")
	v.BindEnv("analyzer.openai.apikey", "AZURE_OPENAI_API_KEY")
	v.BindEnv("analyzer.openai.deployment", "AZURE_OPENAI_DEPLOYMENT")

	// Auth
	v.BindEnv("auth.provider", "AUTH_PROVIDER")
	v.BindEnv("auth.supabaseurl", "SUPABASE_URL")
	v.BindEnv("auth.supabasekey", "SUPABASE_ANON_KEY")
	v.BindEnv("auth_static_tokens", "AUTH_STATIC_TOKENS")

	// Security
	v.BindEnv("security.encryptionkey", "ENCRYPTION_KEY")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// parseStaticTokens reads "token:user,token:user"
func parseStaticTokens(raw string) (map[string]string, error) {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, userID, ok := strings.Cut(pair, ":")
		if !ok || token == "" || userID == "" {
			return nil, fmt.Errorf("invalid AUTH_STATIC_TOKENS entry %q, want token:user", pair)
		}
		tokens[token] = userID
	}
	return tokens, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlitepath is required")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	switch c.Analyzer.Backend {
	case "mock":
	case "webhook":
		if c.Analyzer.WebhookURL == "" {
			return fmt.Errorf("analyzer.webhookurl is required for the webhook backend")
		}
	case "openai":
		if c.Analyzer.OpenAI.Endpoint == "" || c.Analyzer.OpenAI.APIKey == "" || c.Analyzer.OpenAI.Deployment == "" {
			return fmt.Errorf("azure openai endpoint, apikey and deployment are required for the openai backend")
		}
	default:
		return fmt.Errorf("unsupported analyzer backend: %s", c.Analyzer.Backend)
	}

	switch c.Auth.Provider {
	case "supabase":
		if c.Auth.SupabaseURL == "" || c.Auth.SupabaseKey == "" {
			return fmt.Errorf("supabase url and anon key are required")
		}
	case "static":
		if c.Server.Environment == "production" {
			return fmt.Errorf("static auth is not allowed in production")
		}
	default:
		return fmt.Errorf("unsupported auth provider: %s", c.Auth.Provider)
	}

	if c.Security.EncryptionKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.Security.EncryptionKey)
		if err != nil {
			return fmt.Errorf("security.encryptionkey must be base64: %w", err)
		}
		if len(key) != 32 {
			return fmt.Errorf("security.encryptionkey must decode to 32 bytes, got %d", len(key))
		}
	}

	return nil
}

// BlobStorageEnabled reports whether Azure credentials are configured. Without
// them photos and reports are kept in process memory.
func (c *Config) BlobStorageEnabled() bool {
	return c.Storage.AccountName != "" && c.Storage.AccountKey != ""
}

// EncryptionKeyBytes returns the decoded encryption key, nil if unset
func (c *Config) EncryptionKeyBytes() []byte {
	if c.Security.EncryptionKey == "" {
		return nil
	}
	key, _ := base64.StdEncoding.DecodeString(c.Security.EncryptionKey)
	return key
}
