package config

import (
	"log"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

const (
	defaultStorePath  = "cfp.db"
	defaultDelimiter  = ";"
	defaultDateLayout = "2006-01-02"
	defaultInterval   = 24 * time.Hour

	configPathEnv    = "CFPTRACKER_CONFIG"
	storePathEnv     = "CFPTRACKER_STORE_PATH"
	logLevelEnv      = "CFPTRACKER_LOG_LEVEL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Store         StoreConfig        `yaml:"store"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
	Sites         []SiteConfig       `yaml:"sites"`
}

// StoreConfig fixes the on-disk snapshot contract: location, field order,
// delimiter and the calendar-date layout. These are configuration constants,
// never auto-detected from the file.
type StoreConfig struct {
	Path       string   `yaml:"path"`
	Delimiter  string   `yaml:"delimiter"`
	DateLayout string   `yaml:"dateLayout"`
	Header     []string `yaml:"header"`
}

// DelimiterRune resolves the configured field delimiter.
func (s StoreConfig) DelimiterRune() rune {
	if s.Delimiter == "" {
		return ';'
	}
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	return r
}

// SchedulerConfig defines how often the tracker re-scans in watch mode.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
}

// IntervalDuration resolves the interval string, falling back to daily runs.
func (s SchedulerConfig) IntervalDuration() time.Duration {
	if s.Interval == "" {
		return defaultInterval
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d <= 0 {
		log.Printf("config: invalid interval %q, reverting to %s", s.Interval, defaultInterval)
		return defaultInterval
	}
	return d
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig controls diagnostic verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SiteConfig describes a single tracked page with its scanner strategy.
type SiteConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
	Options map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return LoadPath(os.Getenv(configPathEnv))
}

// LoadPath reads the given YAML file on top of defaults. An empty path keeps
// the defaults; a broken file falls back to them with a diagnostic.
func LoadPath(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(storePathEnv); v != "" {
		c.Store.Path = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Store.Path != "" {
		base.Store.Path = override.Store.Path
	}
	if override.Store.Delimiter != "" {
		base.Store.Delimiter = override.Store.Delimiter
	}
	if override.Store.DateLayout != "" {
		base.Store.DateLayout = override.Store.DateLayout
	}
	if len(override.Store.Header) > 0 {
		base.Store.Header = override.Store.Header
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Path:       defaultStorePath,
			Delimiter:  defaultDelimiter,
			DateLayout: defaultDateLayout,
			Header:     []string{"Type", "Name", "Title", "Summary", "Deadline", "TitleLink", "ActionsLink"},
		},
		Scheduler: SchedulerConfig{Interval: "24h"},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Logging: LoggingConfig{Level: "info"},
		Sites: []SiteConfig{
			{
				Name:    "ieee-cs-cfp",
				Scanner: "ieee-cs",
				URL:     "https://www.computer.org/publications/author-resources/calls-for-papers",
				Headers: map[string]string{
					"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
					"Accept-Language": "en-US,en;q=0.9",
					"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.4 Safari/605.1.15",
				},
			},
		},
	}
}
