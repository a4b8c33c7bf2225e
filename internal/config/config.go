package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	LLM        LLMConfig
	Chat       ChatConfig
	Classifier ClassifierConfig
	Enrichment EnrichmentConfig
	Report     ReportConfig
	Azure      AzureConfig
	Logging    LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL string
}

// LLMConfig selects and configures the generation engine
type LLMConfig struct {
	Provider string // gemini or openai
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey string
	Model  string
}

// ChatConfig holds chat assistant configuration
type ChatConfig struct {
	Responder  string // llm or keyword
	ImageLimit int
}

// ClassifierConfig holds the external disease classifier configuration
type ClassifierConfig struct {
	BaseURL string
	Timeout time.Duration
}

// EnrichmentConfig bounds the disease-report generation call
type EnrichmentConfig struct {
	Timeout time.Duration
}

// ReportConfig holds report generation configuration
type ReportConfig struct {
	SiteURL            string // encoded into the report QR code
	AssetsDir          string
	LogoFile           string
	DevanagariFontFile string
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	Storage StorageConfig
}

// StorageConfig holds Azure Blob Storage configuration. Optional: when the
// account is unset, report archival is disabled.
type StorageConfig struct {
	AccountName     string
	AccountKey      string
	ReportContainer string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

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

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")

	// Chat defaults
	v.SetDefault("chat.responder", "llm")
	v.SetDefault("chat.imagelimit", 3)

	// Classifier defaults
	v.SetDefault("classifier.timeout", 30*time.Second)

	// Enrichment defaults: the upstream LLM call can be slow
	v.SetDefault("enrichment.timeout", 60*time.Second)

	// Report defaults
	v.SetDefault("report.siteurl", "https://fasalrakshak.com")
	v.SetDefault("report.assetsdir", "assets")
	v.SetDefault("report.logofile", "logo.png")
	v.SetDefault("report.devanagarifontfile", "NotoSerifDevanagari.ttf")

	// Azure Storage defaults
	v.SetDefault("azure.storage.reportcontainer", "disease-reports")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// LLM
	v.BindEnv("llm.provider", "LLM_PROVIDER")
	v.BindEnv("llm.gemini.apikey", "GEMINI_API_KEY")
	v.BindEnv("llm.gemini.model", "GEMINI_MODEL")
	v.BindEnv("llm.openai.apikey", "OPENAI_API_KEY")
	v.BindEnv("llm.openai.model", "OPENAI_MODEL")

	// Chat
	v.BindEnv("chat.responder", "CHAT_RESPONDER")
	v.BindEnv("chat.imagelimit", "CHAT_IMAGE_LIMIT")

	// Classifier
	v.BindEnv("classifier.baseurl", "CLASSIFIER_URL")
	v.BindEnv("classifier.timeout", "CLASSIFIER_TIMEOUT")

	// Enrichment
	v.BindEnv("enrichment.timeout", "ENRICHMENT_TIMEOUT")

	// Report
	v.BindEnv("report.siteurl", "SITE_URL")
	v.BindEnv("report.assetsdir", "ASSETS_DIR")

	// Azure Storage
	v.BindEnv("azure.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.storage.reportcontainer", "AZURE_STORAGE_REPORT_CONTAINER")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	switch c.LLM.Provider {
	case "gemini":
		if c.LLM.Gemini.APIKey == "" {
			return fmt.Errorf("llm.gemini.apikey is required")
		}
	case "openai":
		if c.LLM.OpenAI.APIKey == "" {
			return fmt.Errorf("llm.openai.apikey is required")
		}
	default:
		return fmt.Errorf("llm.provider must be gemini or openai, got %q", c.LLM.Provider)
	}

	if c.Chat.Responder != "llm" && c.Chat.Responder != "keyword" {
		return fmt.Errorf("chat.responder must be llm or keyword, got %q", c.Chat.Responder)
	}

	if c.Chat.ImageLimit < 0 {
		return fmt.Errorf("chat.imagelimit must not be negative")
	}

	if c.Classifier.BaseURL == "" {
		return fmt.Errorf("classifier.baseurl is required")
	}

	if c.Azure.Storage.AccountName != "" && c.Azure.Storage.AccountKey == "" {
		return fmt.Errorf("azure.storage.accountkey is required when accountname is set")
	}

	return nil
}

// ArchivalEnabled reports whether report archival to blob storage is configured
func (c *Config) ArchivalEnabled() bool {
	return c.Azure.Storage.AccountName != "" && c.Azure.Storage.AccountKey != ""
}
