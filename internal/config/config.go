package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "TRENDSCOUT_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	botTokenEnv      = "TELEGRAM_BOT_TOKEN"
	webhookSecretEnv = "WEBHOOK_SECRET"
	webhookBaseEnv   = "WEBHOOK_BASE_URL"
	adminChatIDEnv   = "ADMIN_CHAT_ID"
	searchAPIKeyEnv  = "SEARCH_API_KEY"
	chatGPTAPIKeyEnv = "CHATGPT_API_KEY"
	chatGPTModelEnv  = "CHATGPT_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
	Telegram TelegramConfig `yaml:"telegram"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
	ChatGPT  ChatGPTConfig  `yaml:"chatgpt"`
	Trends   TrendsConfig   `yaml:"trends"`
	Scout    ScoutConfig    `yaml:"scout"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// TelegramConfig wires bot credentials and the single authorized principal.
type TelegramConfig struct {
	BotToken       string `yaml:"botToken"`
	WebhookSecret  string `yaml:"webhookSecret"`
	WebhookBaseURL string `yaml:"webhookBaseUrl"`
	AdminChatID    int64  `yaml:"adminChatId"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SearchConfig defines how to contact the web-search backend.
type SearchConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// ChatGPTConfig defines how to contact the semantic-extraction backend.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// TrendsConfig bounds and scopes trend synthesis.
type TrendsConfig struct {
	Count       int    `yaml:"count"`
	Category    string `yaml:"category"`
	Subcategory string `yaml:"subcategory"`
}

// FeedConfig describes one feed endpoint; URL may carry a {topic} placeholder
// expanded per scouting run.
type FeedConfig struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Source string `yaml:"source"`
}

// ScoutConfig lists the fixed feed set scanned per scouting run.
type ScoutConfig struct {
	NewsFeeds       []FeedConfig `yaml:"newsFeeds"`
	DiscussionFeeds []FeedConfig `yaml:"discussionFeeds"`
	PerFeedCap      int          `yaml:"perFeedCap"`
}

// Feeds returns the complete fan-out list for one run.
func (s ScoutConfig) Feeds() []FeedConfig {
	feeds := make([]FeedConfig, 0, len(s.NewsFeeds)+len(s.DiscussionFeeds))
	feeds = append(feeds, s.NewsFeeds...)
	feeds = append(feeds, s.DiscussionFeeds...)
	return feeds
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
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

	if len(cfg.Scout.NewsFeeds) == 0 && len(cfg.Scout.DiscussionFeeds) == 0 {
		cfg.Scout = defaultConfig().Scout
	}

	return cfg
}

// Validate rejects configurations the process cannot safely start with.
// The admin chat ID gates every command and callback; without it the bot
// would either answer nobody or everybody.
func (c Config) Validate() error {
	if c.Telegram.AdminChatID == 0 {
		return fmt.Errorf("config: admin chat id is required (set %s)", adminChatIDEnv)
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("config: telegram bot token is required (set %s)", botTokenEnv)
	}
	if c.Telegram.WebhookSecret == "" {
		return fmt.Errorf("config: webhook secret is required (set %s)", webhookSecretEnv)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(botTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}

	if v := os.Getenv(webhookSecretEnv); v != "" {
		c.Telegram.WebhookSecret = v
	}

	if v := os.Getenv(webhookBaseEnv); v != "" {
		c.Telegram.WebhookBaseURL = v
	}

	if v := os.Getenv(adminChatIDEnv); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			log.Printf("config: invalid %s %q: %v", adminChatIDEnv, v, err)
		} else {
			c.Telegram.AdminChatID = id
		}
	}

	if v := os.Getenv(searchAPIKeyEnv); v != "" {
		c.Search.APIKey = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}

	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Server.Port != "" {
		base.Server = override.Server
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.WebhookSecret != "" {
		base.Telegram.WebhookSecret = override.Telegram.WebhookSecret
	}
	if override.Telegram.WebhookBaseURL != "" {
		base.Telegram.WebhookBaseURL = override.Telegram.WebhookBaseURL
	}
	if override.Telegram.AdminChatID != 0 {
		base.Telegram.AdminChatID = override.Telegram.AdminChatID
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Search.Endpoint != "" {
		base.Search.Endpoint = override.Search.Endpoint
	}
	if override.Search.APIKey != "" {
		base.Search.APIKey = override.Search.APIKey
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}

	if override.Trends.Count != 0 {
		base.Trends.Count = override.Trends.Count
	}
	if override.Trends.Category != "" {
		base.Trends.Category = override.Trends.Category
	}
	if override.Trends.Subcategory != "" {
		base.Trends.Subcategory = override.Trends.Subcategory
	}

	if len(override.Scout.NewsFeeds) > 0 {
		base.Scout.NewsFeeds = override.Scout.NewsFeeds
	}
	if len(override.Scout.DiscussionFeeds) > 0 {
		base.Scout.DiscussionFeeds = override.Scout.DiscussionFeeds
	}
	if override.Scout.PerFeedCap != 0 {
		base.Scout.PerFeedCap = override.Scout.PerFeedCap
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Port: "8080"},
		ChatGPT: ChatGPTConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
		},
		Trends: TrendsConfig{Count: 6, Category: "tech"},
		Scout: ScoutConfig{
			PerFeedCap: 3,
			NewsFeeds: []FeedConfig{
				{Name: "techcrunch", URL: "https://techcrunch.com/feed/", Source: "rss"},
				{Name: "theverge", URL: "https://www.theverge.com/rss/index.xml", Source: "rss"},
				{Name: "hackernews", URL: "https://news.ycombinator.com/rss", Source: "rss"},
				{Name: "wired-security", URL: "https://www.wired.com/feed/category/security/latest/rss", Source: "rss"},
			},
			DiscussionFeeds: []FeedConfig{
				{Name: "r-technology", URL: "https://www.reddit.com/r/technology/search.rss?q={topic}&restrict_sr=1&sort=top&t=week", Source: "rss"},
				{Name: "r-artificial", URL: "https://www.reddit.com/r/artificial/search.rss?q={topic}&restrict_sr=1&sort=top&t=week", Source: "rss"},
				{Name: "r-programming", URL: "https://www.reddit.com/r/programming/search.rss?q={topic}&restrict_sr=1&sort=top&t=week", Source: "rss"},
			},
		},
	}
}
