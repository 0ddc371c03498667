// Package config builds the process configuration from the environment once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	// SummaryMaxTokens caps the length of every AI summary.
	SummaryMaxTokens = 150
	// SummaryTemperature is the sampling temperature for summaries.
	SummaryTemperature = 0.7

	DefaultScheduleTime = "09:00"
	DefaultSMTPHost     = "smtp.gmail.com"
	DefaultSMTPPort     = 587
)

// DefaultFeeds are polled when no feeds file overrides them.
var DefaultFeeds = []string{
	"https://krebsonsecurity.com/feed/",
	"https://www.bleepingcomputer.com/feed/",
	"https://threatpost.com/feed/",
	"https://www.schneier.com/blog/atom.xml",
}

// DefaultKeywords decide relevance when no feeds file overrides them.
var DefaultKeywords = []string{
	"cybersecurity", "cyber attack", "data breach", "ransomware", "phishing",
	"malware", "vulnerability", "exploit", "zero-day", "security breach",
	"cybercrime", "hack", "threat actor", "APT", "MFA", "patch", "AI security",
}

type Config struct {
	// Mail settings
	SenderEmail    string
	SenderPassword string
	RecipientEmail string
	SMTPHost       string
	SMTPPort       int

	// AI settings
	AIProvider    string // "openai" or "gemini"
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string

	// Feed settings
	FeedsConfigPath string
	Feeds           []string
	Keywords        []string
	RequestTimeout  time.Duration

	// Schedule and output
	ScheduleTime string // local HH:MM
	EscapeHTML   bool

	// App settings
	Debug            bool
	EnableMonitoring bool
	MonitoringPort   string
}

// FeedsFile is the optional YAML override for the built-in lists.
//
//	feeds:
//	  - https://...
//	keywords:
//	  - ransomware
type FeedsFile struct {
	Feeds    []string `yaml:"feeds"`
	Keywords []string `yaml:"keywords"`
}

func Load() (*Config, error) {
	cfg := &Config{
		SMTPHost:        DefaultSMTPHost,
		SMTPPort:        DefaultSMTPPort,
		AIProvider:      ProviderOpenAI,
		FeedsConfigPath: "configs/feeds.yaml",
		Feeds:           append([]string(nil), DefaultFeeds...),
		Keywords:        append([]string(nil), DefaultKeywords...),
		RequestTimeout:  30 * time.Second,
		ScheduleTime:    DefaultScheduleTime,
		MonitoringPort:  "8080",
	}

	cfg.SenderEmail = strings.TrimSpace(os.Getenv("SENDER_EMAIL"))
	cfg.SenderPassword = os.Getenv("SENDER_PASSWORD")
	cfg.RecipientEmail = strings.TrimSpace(os.Getenv("RECIPIENT_EMAIL"))
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.SMTPHost = getEnvOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = getEnvIntOrDefault("SMTP_PORT", cfg.SMTPPort)
	cfg.AIProvider = strings.ToLower(getEnvOrDefault("AI_PROVIDER", cfg.AIProvider))
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.ScheduleTime = getEnvOrDefault("SCHEDULE_TIME", cfg.ScheduleTime)
	cfg.MonitoringPort = getEnvOrDefault("MONITORING_PORT", cfg.MonitoringPort)

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}

	cfg.EscapeHTML = os.Getenv("DIGEST_ESCAPE_HTML") == "true"
	cfg.Debug = os.Getenv("DEBUG") == "true"
	cfg.EnableMonitoring = os.Getenv("ENABLE_HTTP_MONITORING") == "true"

	if err := cfg.applyFeedsFile(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// applyFeedsFile overrides feeds and keywords from the YAML file. A missing file keeps the defaults.
func (c *Config) applyFeedsFile() error {
	if c.FeedsConfigPath == "" {
		return nil
	}
	ff, err := LoadFeedsFile(c.FeedsConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load feeds file %s: %w", c.FeedsConfigPath, err)
	}
	if len(ff.Feeds) > 0 {
		c.Feeds = ff.Feeds
	}
	if len(ff.Keywords) > 0 {
		c.Keywords = ff.Keywords
	}
	return nil
}

// LoadFeedsFile reads the feeds/keywords YAML file.
func LoadFeedsFile(path string) (*FeedsFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ff FeedsFile
	if err := yaml.NewDecoder(f).Decode(&ff); err != nil {
		return nil, err
	}
	return &ff, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ParseScheduleTime splits a local "HH:MM" time of day.
func ParseScheduleTime(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid schedule time %q, want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// MailConfigured reports whether all credentials needed for delivery are present.
func (c *Config) MailConfigured() bool {
	return c.SenderEmail != "" && c.SenderPassword != "" && c.RecipientEmail != ""
}

// AIKey returns the credential of the selected provider.
func (c *Config) AIKey() string {
	if c.AIProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

func (c *Config) Validate() error {
	if _, _, err := ParseScheduleTime(c.ScheduleTime); err != nil {
		return fmt.Errorf("SCHEDULE_TIME: %w", err)
	}
	if c.AIProvider != ProviderOpenAI && c.AIProvider != ProviderGemini {
		return fmt.Errorf("AI_PROVIDER must be '%s' or '%s'", ProviderOpenAI, ProviderGemini)
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
	}
	if len(c.Feeds) == 0 {
		return fmt.Errorf("at least one feed URL is required")
	}
	if len(c.Keywords) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}
	return nil
}
