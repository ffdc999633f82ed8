// Package config loads the server configuration from YAML with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/henrysammarfo/tapngo/internal/calculator"
	"github.com/henrysammarfo/tapngo/internal/oracle"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DB struct {
		Path string `yaml:"path"`
	} `yaml:"db"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Auth struct {
		JWTSecret           string   `yaml:"jwt_secret"`
		TokenTTLHours       int      `yaml:"token_ttl_hours"`
		ChallengeTTLSeconds int      `yaml:"challenge_ttl_seconds"`
		Admins              []string `yaml:"admins"`
	} `yaml:"auth"`
	Token struct {
		Owner string `yaml:"owner"`
		// InitialSupply is in whole tokens.
		InitialSupply uint64 `yaml:"initial_supply"`
	} `yaml:"token"`
	Orders struct {
		TTLMinutes        int `yaml:"ttl_minutes"`
		MaxRateAgeSeconds int `yaml:"max_rate_age_seconds"`
	} `yaml:"orders"`
	Pricing struct {
		FixedRate           string `yaml:"fixed_rate"`
		FeedURL             string `yaml:"feed_url"`
		PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
		FeedTimeoutSeconds  int    `yaml:"feed_timeout_seconds"`
		PlatformFeeBps      int    `yaml:"platform_fee_bps"`
		FeeRecipient        string `yaml:"fee_recipient"`
	} `yaml:"pricing"`
	Worker struct {
		ExpiryIntervalSeconds int `yaml:"expiry_interval_seconds"`
	} `yaml:"worker"`
	Events struct {
		NATSURL       string `yaml:"nats_url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"events"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.DB.Path == "" {
		return errors.New("db.path is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if !isAddress(c.Token.Owner) {
		return errors.New("token.owner must be a non-zero address")
	}
	for _, a := range c.Auth.Admins {
		if !isAddress(a) {
			return fmt.Errorf("auth.admins: %q is not an address", a)
		}
	}
	if !isAddress(c.Pricing.FeeRecipient) {
		return errors.New("pricing.fee_recipient must be a non-zero address")
	}
	if c.Pricing.PlatformFeeBps < 0 || c.Pricing.PlatformFeeBps > calculator.MaxFeeBps {
		return fmt.Errorf("pricing.platform_fee_bps must be between 0 and %d", calculator.MaxFeeBps)
	}
	if c.Pricing.FixedRate == "" && c.Pricing.FeedURL == "" {
		return errors.New("pricing needs fixed_rate or feed_url")
	}
	if c.Pricing.FixedRate != "" {
		if _, err := oracle.ParseRate(c.Pricing.FixedRate); err != nil {
			return fmt.Errorf("pricing.fixed_rate: %w", err)
		}
	}
	if c.Orders.TTLMinutes <= 0 {
		return errors.New("orders.ttl_minutes must be positive")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Auth.TokenTTLHours == 0 {
		cfg.Auth.TokenTTLHours = 24
	}
	if cfg.Auth.ChallengeTTLSeconds == 0 {
		cfg.Auth.ChallengeTTLSeconds = 300
	}
	if cfg.Token.Owner != "" && len(cfg.Auth.Admins) == 0 {
		cfg.Auth.Admins = []string{cfg.Token.Owner}
	}
	if cfg.Orders.TTLMinutes == 0 {
		cfg.Orders.TTLMinutes = 15
	}
	if cfg.Pricing.PollIntervalSeconds == 0 {
		cfg.Pricing.PollIntervalSeconds = 30
	}
	if cfg.Pricing.FeedTimeoutSeconds == 0 {
		cfg.Pricing.FeedTimeoutSeconds = 5
	}
	if cfg.Worker.ExpiryIntervalSeconds == 0 {
		cfg.Worker.ExpiryIntervalSeconds = 30
	}
	if cfg.Events.SubjectPrefix == "" {
		cfg.Events.SubjectPrefix = "tapngo"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("ADMIN_ADDRESSES"); v != "" {
		cfg.Auth.Admins = splitCommaList(v)
	}
	if v := os.Getenv("TOKEN_OWNER"); v != "" {
		cfg.Token.Owner = v
	}
	if v := os.Getenv("ORDER_TTL_MINUTES"); v != "" {
		cfg.Orders.TTLMinutes = atoiOr(cfg.Orders.TTLMinutes, v)
	}
	if v := os.Getenv("MAX_RATE_AGE_SECONDS"); v != "" {
		cfg.Orders.MaxRateAgeSeconds = atoiOr(cfg.Orders.MaxRateAgeSeconds, v)
	}
	if v := os.Getenv("FIXED_RATE"); v != "" {
		cfg.Pricing.FixedRate = v
	}
	if v := os.Getenv("PRICE_FEED_URL"); v != "" {
		cfg.Pricing.FeedURL = v
	}
	if v := os.Getenv("PLATFORM_FEE_BPS"); v != "" {
		cfg.Pricing.PlatformFeeBps = atoiOr(cfg.Pricing.PlatformFeeBps, v)
	}
	if v := os.Getenv("FEE_RECIPIENT"); v != "" {
		cfg.Pricing.FeeRecipient = v
	}
	if v := os.Getenv("WORKER_EXPIRY_INTERVAL_SECONDS"); v != "" {
		cfg.Worker.ExpiryIntervalSeconds = atoiOr(cfg.Worker.ExpiryIntervalSeconds, v)
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.Events.NATSURL = v
	}
}

// OrderTTL is how long a pending order stays payable.
func (c *Config) OrderTTL() time.Duration {
	return time.Duration(c.Orders.TTLMinutes) * time.Minute
}

// MaxRateAge is the oldest rate an order may be priced at; zero disables the check.
func (c *Config) MaxRateAge() time.Duration {
	return time.Duration(c.Orders.MaxRateAgeSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

func (c *Config) ChallengeTTL() time.Duration {
	return time.Duration(c.Auth.ChallengeTTLSeconds) * time.Second
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Pricing.PollIntervalSeconds) * time.Second
}

func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.Pricing.FeedTimeoutSeconds) * time.Second
}

func (c *Config) ExpiryInterval() time.Duration {
	return time.Duration(c.Worker.ExpiryIntervalSeconds) * time.Second
}

func isAddress(s string) bool {
	return common.IsHexAddress(s) && common.HexToAddress(s) != (common.Address{})
}

func splitCommaList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func atoiOr(fallback int, v string) int {
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
