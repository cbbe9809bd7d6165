package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Browser BrowserConfig
	Scrape  ScrapeConfig
	Output  OutputConfig
}

// ServerConfig controls the HTTP job server.
type ServerConfig struct {
	Addr string // default: ":8000"
}

// BrowserConfig controls the shared Chromium session.
type BrowserConfig struct {
	Headless      bool   // default: true
	CountSelector string // selector of the ads-count element
	UserAgent     string
}

// ScrapeConfig controls per-row extraction and the retry policy. The plain
// timeouts are the strict single-shot profile; the Retry* timeouts are the
// tolerant profile the batch runner uses.
type ScrapeConfig struct {
	NavTimeout          time.Duration // default: 60s
	ElementTimeout      time.Duration // default: 30s
	RetryNavTimeout     time.Duration // default: 90s
	RetryElementTimeout time.Duration // default: 60s
	MaxAttempts         int           // default: 3
	RetryDelay          time.Duration // pause between attempts; default: 2s
	RowDelay            time.Duration // polite pause between rows; default: 1s
}

// OutputConfig controls how results land in the output table.
type OutputConfig struct {
	Column string // default: "number of ads"
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8000"},
		Browser: BrowserConfig{
			Headless:      true,
			CountSelector: ".ads-count-searchable",
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		Scrape: ScrapeConfig{
			NavTimeout:          60 * time.Second,
			ElementTimeout:      30 * time.Second,
			RetryNavTimeout:     90 * time.Second,
			RetryElementTimeout: 60 * time.Second,
			MaxAttempts:         3,
			RetryDelay:          2 * time.Second,
			RowDelay:            1 * time.Second,
		},
		Output: OutputConfig{Column: "number of ads"},
	}
}

// fileConfig is the YAML shape of an optional config file. Durations are
// written as Go duration strings ("90s", "2s"); absent fields keep defaults.
type fileConfig struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Browser struct {
		Headless      *bool  `yaml:"headless"`
		CountSelector string `yaml:"count_selector"`
		UserAgent     string `yaml:"user_agent"`
	} `yaml:"browser"`
	Scrape struct {
		NavTimeout          string `yaml:"nav_timeout"`
		ElementTimeout      string `yaml:"element_timeout"`
		RetryNavTimeout     string `yaml:"retry_nav_timeout"`
		RetryElementTimeout string `yaml:"retry_element_timeout"`
		MaxAttempts         int    `yaml:"max_attempts"`
		RetryDelay          string `yaml:"retry_delay"`
		RowDelay            string `yaml:"row_delay"`
	} `yaml:"scrape"`
	Output struct {
		Column string `yaml:"column"`
	} `yaml:"output"`
}

// LoadConfig builds the configuration from defaults, then the YAML file named
// by ADSCOUNT_CONFIG (if any), then environment variables. A .env file in the
// working directory is loaded first so both layers can come from it.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("ADSCOUNT_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if fc.Server.Addr != "" {
		cfg.Server.Addr = fc.Server.Addr
	}
	if fc.Browser.Headless != nil {
		cfg.Browser.Headless = *fc.Browser.Headless
	}
	if fc.Browser.CountSelector != "" {
		cfg.Browser.CountSelector = fc.Browser.CountSelector
	}
	if fc.Browser.UserAgent != "" {
		cfg.Browser.UserAgent = fc.Browser.UserAgent
	}
	if fc.Scrape.MaxAttempts > 0 {
		cfg.Scrape.MaxAttempts = fc.Scrape.MaxAttempts
	}
	if fc.Output.Column != "" {
		cfg.Output.Column = fc.Output.Column
	}

	durations := []struct {
		raw  string
		dst  *time.Duration
		name string
	}{
		{fc.Scrape.NavTimeout, &cfg.Scrape.NavTimeout, "nav_timeout"},
		{fc.Scrape.ElementTimeout, &cfg.Scrape.ElementTimeout, "element_timeout"},
		{fc.Scrape.RetryNavTimeout, &cfg.Scrape.RetryNavTimeout, "retry_nav_timeout"},
		{fc.Scrape.RetryElementTimeout, &cfg.Scrape.RetryElementTimeout, "retry_element_timeout"},
		{fc.Scrape.RetryDelay, &cfg.Scrape.RetryDelay, "retry_delay"},
		{fc.Scrape.RowDelay, &cfg.Scrape.RowDelay, "row_delay"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse config file: %s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Addr = getEnv("ADSCOUNT_ADDR", cfg.Server.Addr)
	cfg.Browser.CountSelector = getEnv("ADSCOUNT_COUNT_SELECTOR", cfg.Browser.CountSelector)
	cfg.Browser.UserAgent = getEnv("ADSCOUNT_USER_AGENT", cfg.Browser.UserAgent)
	cfg.Output.Column = getEnv("ADSCOUNT_OUTPUT_COLUMN", cfg.Output.Column)

	var err error
	if cfg.Browser.Headless, err = getBool("ADSCOUNT_HEADLESS", cfg.Browser.Headless); err != nil {
		return err
	}
	if cfg.Scrape.MaxAttempts, err = getInt("ADSCOUNT_MAX_ATTEMPTS", cfg.Scrape.MaxAttempts); err != nil {
		return err
	}
	if cfg.Scrape.NavTimeout, err = getDuration("ADSCOUNT_NAV_TIMEOUT", cfg.Scrape.NavTimeout); err != nil {
		return err
	}
	if cfg.Scrape.ElementTimeout, err = getDuration("ADSCOUNT_ELEMENT_TIMEOUT", cfg.Scrape.ElementTimeout); err != nil {
		return err
	}
	if cfg.Scrape.RetryNavTimeout, err = getDuration("ADSCOUNT_RETRY_NAV_TIMEOUT", cfg.Scrape.RetryNavTimeout); err != nil {
		return err
	}
	if cfg.Scrape.RetryElementTimeout, err = getDuration("ADSCOUNT_RETRY_ELEMENT_TIMEOUT", cfg.Scrape.RetryElementTimeout); err != nil {
		return err
	}
	if cfg.Scrape.RetryDelay, err = getDuration("ADSCOUNT_RETRY_DELAY", cfg.Scrape.RetryDelay); err != nil {
		return err
	}
	if cfg.Scrape.RowDelay, err = getDuration("ADSCOUNT_ROW_DELAY", cfg.Scrape.RowDelay); err != nil {
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}
