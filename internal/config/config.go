package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppConfig     *AppConfig
	BrowserConfig *BrowserConfig
}

type AppConfig struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	Debug          bool   `envconfig:"DEBUG" default:"false"`
	LogFile        string `envconfig:"LOG_FILE" default:""`
	LogMaxSizeMB   int    `envconfig:"LOG_MAX_SIZE_MB" default:"10"`
	LogMaxBackups  int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
	LogMaxAgeDays  int    `envconfig:"LOG_MAX_AGE_DAYS" default:"7"`
	TracingEnabled bool   `envconfig:"TRACING_ENABLED" default:"false"`
}

type BrowserConfig struct {
	Type           string `envconfig:"BROWSER_TYPE" default:"chromium"`
	Headless       bool   `envconfig:"BROWSER_HEADLESS" default:"false"`
	SlowMo         int    `envconfig:"BROWSER_SLOW_MO" default:"50"`
	Timeout        int    `envconfig:"BROWSER_TIMEOUT" default:"30000"`
	ViewportWidth  int    `envconfig:"BROWSER_VIEWPORT_WIDTH" default:"1280"`
	ViewportHeight int    `envconfig:"BROWSER_VIEWPORT_HEIGHT" default:"720"`
	Install        bool   `envconfig:"BROWSER_INSTALL" default:"true"`
}

func GetConfig() (*Config, error) {
	_ = godotenv.Load()

	var conf Config

	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("read config from env vars: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *Config) Validate() error {
	if c.BrowserConfig == nil || c.AppConfig == nil {
		return fmt.Errorf("config sections are not loaded")
	}

	switch c.BrowserConfig.Type {
	case "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("unsupported browser type %q", c.BrowserConfig.Type)
	}

	if c.BrowserConfig.ViewportWidth <= 0 || c.BrowserConfig.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d",
			c.BrowserConfig.ViewportWidth, c.BrowserConfig.ViewportHeight)
	}

	if c.BrowserConfig.Timeout <= 0 {
		return fmt.Errorf("browser timeout must be positive, got %d", c.BrowserConfig.Timeout)
	}

	return nil
}
