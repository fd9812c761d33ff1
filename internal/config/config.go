package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Portfolio struct {
		Path string `yaml:"path"`
	} `yaml:"portfolio"`
	LLM struct {
		Model        string `yaml:"model"`
		AnthropicKey string `yaml:"anthropic_api_key"`
		OpenAIKey    string `yaml:"openai_api_key"`
	} `yaml:"llm"`
	Search struct {
		TavilyKey     string `yaml:"tavily_api_key"`
		PerplexityKey string `yaml:"perplexity_api_key"`
	} `yaml:"search"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		CheckCron       string `yaml:"check_cron"`
		MarketHoursOnly bool   `yaml:"market_hours_only"`
	} `yaml:"schedule"`
	Alerts struct {
		Dir string `yaml:"dir"`
	} `yaml:"alerts"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORTFOLIO_PATH"); v != "" {
		cfg.Portfolio.Path = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.AnthropicKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.OpenAIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		cfg.Search.TavilyKey = v
	}
	if v := os.Getenv("PERPLEXITY_API_KEY"); v != "" {
		cfg.Search.PerplexityKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("CHECK_CRON"); v != "" {
		cfg.Schedule.CheckCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Portfolio.Path == "" {
		cfg.Portfolio.Path = "data/portfolio.json"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "claude-sonnet-4-20250514"
	}
	if cfg.Schedule.CheckCron == "" {
		// Every 30 minutes.
		cfg.Schedule.CheckCron = "0 */30 * * * *"
	}
	if cfg.Alerts.Dir == "" {
		cfg.Alerts.Dir = "data/alerts"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/port_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Portfolio.Path == "" {
		return fmt.Errorf("portfolio.path is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.AnthropicKey == "" && c.LLM.OpenAIKey == "" {
		return fmt.Errorf("either llm.anthropic_api_key or llm.openai_api_key is required")
	}
	return nil
}
