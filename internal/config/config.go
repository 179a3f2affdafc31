package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"TreasuryWatch/internal/flow"
	"TreasuryWatch/internal/window"
)

// EnvPrefix prefixes every environment override, e.g. TREASURYWATCH_SOURCES_RATIO.
const EnvPrefix = "TREASURYWATCH"

// AssetConfig describes one flow series.
type AssetConfig struct {
	Key    string   `yaml:"key" validate:"required,alphanum"`
	Anchor string   `yaml:"anchor" validate:"omitempty,datetime=2006-01-02"`
	Funds  []string `yaml:"funds"`
}

// Config holds all application configuration.
type Config struct {
	Sources struct {
		Ratio     string        `yaml:"ratio"`
		Flows     string        `yaml:"flows"`
		Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
		UserAgent string        `yaml:"user_agent" split_words:"true"`
		APIKey    string        `yaml:"api_key" split_words:"true"`
	} `yaml:"sources"`
	Assets   []AssetConfig `yaml:"assets" ignored:"true" validate:"required,min=1,dive"`
	Schedule struct {
		Cron string `yaml:"cron" validate:"required"`
	} `yaml:"schedule"`
	Server struct {
		Addr   string `yaml:"addr" validate:"required"`
		Window string `yaml:"window"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token" split_words:"true"`
		ChatID   string `yaml:"chat_id" split_words:"true" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
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

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if cfg.Proxy == "" {
		cfg.Proxy = os.Getenv("HTTPS_PROXY")
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Sources.Timeout == 0 {
		c.Sources.Timeout = 30 * time.Second
	}
	if len(c.Assets) == 0 {
		for _, a := range flow.DefaultAssets() {
			c.Assets = append(c.Assets, AssetConfig{Key: a.Key, Anchor: a.Anchor, Funds: a.Funds})
		}
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 0 * * * *"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Window == "" {
		c.Server.Window = "all"
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/treasurywatch.db"
	}
}

var validate = validator.New()

var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Validate checks field constraints plus the things tags cannot express. Sources are checked
// separately by RequireSources since single-dataset commands need only one of them.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cronParser.Parse(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron: %w", err)
	}
	if _, err := window.Parse(c.Server.Window); err != nil {
		return fmt.Errorf("server.window: %w", err)
	}
	seen := make(map[string]bool, len(c.Assets))
	for _, a := range c.Assets {
		k := strings.ToUpper(a.Key)
		if seen[k] {
			return fmt.Errorf("assets: duplicate key %s", a.Key)
		}
		seen[k] = true
	}
	return nil
}

// RequireSources checks that both dataset sources are set.
func (c *Config) RequireSources() error {
	if c.Sources.Ratio == "" {
		return fmt.Errorf("sources.ratio is required")
	}
	if c.Sources.Flows == "" {
		return fmt.Errorf("sources.flows is required")
	}
	return nil
}

// FlowAssets converts the asset configs, filling in the known fund lists for BTC and ETH.
func (c *Config) FlowAssets() []flow.Asset {
	out := make([]flow.Asset, 0, len(c.Assets))
	for _, a := range c.Assets {
		fa := flow.Asset{Key: strings.ToUpper(a.Key), Anchor: a.Anchor, Funds: a.Funds}
		if len(fa.Funds) == 0 {
			switch fa.Key {
			case "BTC":
				fa.Funds = flow.BTCFunds
			case "ETH":
				fa.Funds = flow.ETHFunds
			}
		}
		out = append(out, fa)
	}
	return out
}
