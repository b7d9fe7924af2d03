package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Port         string
	DatabasePath string
	Version      string
	LogLevel     string

	// Enrichment
	OpenAIKey        string
	OpenAIModel      string
	EnrichmentBudget float64 // total spend allowed per pass, 0 = unlimited

	// Merge policy: similarity at or above this triggers an auto-merge
	MergeThreshold float64

	// AccountsFile points at the YAML mailbox account list
	AccountsFile string
}

// Account describes one configured mailbox source.
type Account struct {
	Provider string `yaml:"provider"` // imap or mailbox
	Email    string `yaml:"email"`
	Server   string `yaml:"server,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	// PasswordEnv names the environment variable holding the password, so
	// credentials stay out of the accounts file.
	PasswordEnv string `yaml:"password_env,omitempty"`
	// Path is a local mailbox archive (mbox/eml) for provider "mailbox".
	Path string `yaml:"path,omitempty"`
}

// Load initializes and returns application configuration
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:             getEnv("PORT", "8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "contacts.db"),
		Version:          getEnv("VERSION", "1.0.0"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", ""),
		EnrichmentBudget: getEnvFloat("ENRICHMENT_BUDGET", 0),
		MergeThreshold:   getEnvFloat("MERGE_THRESHOLD", 0.9),
		AccountsFile:     getEnv("ACCOUNTS_FILE", "accounts.yaml"),
	}
}

// LoadAccounts reads the YAML account list.
func (c *Config) LoadAccounts() ([]Account, error) {
	raw, err := os.ReadFile(c.AccountsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file: %w", err)
	}

	var file struct {
		Accounts []Account `yaml:"accounts"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file: %w", err)
	}

	for i, account := range file.Accounts {
		if account.Email == "" {
			return nil, fmt.Errorf("account %d has no email", i)
		}
	}
	return file.Accounts, nil
}

// Password resolves the account password from its environment variable.
func (a Account) Password() string {
	if a.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(a.PasswordEnv)
}

// getEnv gets an environment variable with a default fallback
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat gets an environment variable as float with a default fallback
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// SetupLogger configures zerolog with JSON output and single-line format
func (c *Config) SetupLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "contactiq").
		Str("version", c.Version).
		Logger()

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}
