package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	const key = "CYBERDIGEST_TEST_KEY"

	t.Setenv(key, "")
	if got := getEnvOrDefault(key, "fallback"); got != "fallback" {
		t.Fatalf("getEnvOrDefault(%q) = %q, want %q", key, got, "fallback")
	}

	t.Setenv(key, "set")
	if got := getEnvOrDefault(key, "fallback"); got != "set" {
		t.Fatalf("getEnvOrDefault(%q) = %q, want %q", key, got, "set")
	}
}

func TestLoadDefaultsWithoutCredentials(t *testing.T) {
	t.Setenv("FEEDS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SENDER_EMAIL", "")
	t.Setenv("SENDER_PASSWORD", "")
	t.Setenv("RECIPIENT_EMAIL", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("SCHEDULE_TIME", "")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("SMTP_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MailConfigured() {
		t.Fatalf("MailConfigured() = true with no credentials")
	}
	if cfg.AIKey() != "" {
		t.Fatalf("AIKey() = %q, want empty", cfg.AIKey())
	}
	if cfg.SMTPHost != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Fatalf("SMTP = %s:%d, want smtp.gmail.com:587", cfg.SMTPHost, cfg.SMTPPort)
	}
	if cfg.ScheduleTime != "09:00" {
		t.Fatalf("ScheduleTime = %q, want 09:00", cfg.ScheduleTime)
	}
	if len(cfg.Feeds) != len(DefaultFeeds) || len(cfg.Keywords) != len(DefaultKeywords) {
		t.Fatalf("got %d feeds / %d keywords, want defaults", len(cfg.Feeds), len(cfg.Keywords))
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
}

func TestLoadReadsCredentialsAndProvider(t *testing.T) {
	t.Setenv("FEEDS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("SENDER_EMAIL", " me@example.com ")
	t.Setenv("SENDER_PASSWORD", "app-password")
	t.Setenv("RECIPIENT_EMAIL", "you@example.com")
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.MailConfigured() {
		t.Fatalf("MailConfigured() = false, cfg: %+v", cfg)
	}
	if cfg.SenderEmail != "me@example.com" {
		t.Fatalf("SenderEmail = %q, want trimmed address", cfg.SenderEmail)
	}
	if cfg.AIProvider != ProviderGemini || cfg.AIKey() != "g-key" {
		t.Fatalf("provider = %q key = %q, want gemini/g-key", cfg.AIProvider, cfg.AIKey())
	}
}

func TestLoadFeedsFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := "feeds:\n  - https://example.com/rss\nkeywords:\n  - ransomware\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write feeds file: %v", err)
	}
	t.Setenv("FEEDS_CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0] != "https://example.com/rss" {
		t.Fatalf("Feeds = %v", cfg.Feeds)
	}
	if len(cfg.Keywords) != 1 || cfg.Keywords[0] != "ransomware" {
		t.Fatalf("Keywords = %v", cfg.Keywords)
	}
}

func TestLoadRejectsBrokenFeedsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	if err := os.WriteFile(path, []byte("feeds: [unclosed"), 0o644); err != nil {
		t.Fatalf("write feeds file: %v", err)
	}
	t.Setenv("FEEDS_CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatalf("Load() with malformed YAML: expected error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AIProvider:   ProviderOpenAI,
			SMTPPort:     587,
			ScheduleTime: "09:00",
			Feeds:        []string{"https://example.com/rss"},
			Keywords:     []string{"hack"},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("Validate() on valid config: %v", err)
	}

	cases := map[string]func(c *Config){
		"bad schedule":  func(c *Config) { c.ScheduleTime = "9am" },
		"hour overflow": func(c *Config) { c.ScheduleTime = "25:00" },
		"bad provider":  func(c *Config) { c.AIProvider = "llama" },
		"bad port":      func(c *Config) { c.SMTPPort = 0 },
		"no feeds":      func(c *Config) { c.Feeds = nil },
		"no keywords":   func(c *Config) { c.Keywords = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatalf("Validate() = nil, want error")
			}
		})
	}
}

func TestParseScheduleTime(t *testing.T) {
	h, m, err := ParseScheduleTime("14:30")
	if err != nil {
		t.Fatalf("ParseScheduleTime error: %v", err)
	}
	if h != 14 || m != 30 {
		t.Fatalf("ParseScheduleTime = %d:%d, want 14:30", h, m)
	}
}
