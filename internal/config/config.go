// Package config loads the service configuration from an optional YAML file
// with environment-variable overrides. A .env file, when present, is folded
// into the environment before the overrides apply.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"rmdesk.org/internal/intent"
)

type Config struct {
	Server struct {
		Addr               string   `yaml:"addr"`
		GRPCHealthAddr     string   `yaml:"grpc_health_addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		MaxBodyBytes       int64    `yaml:"max_body_bytes"`
	} `yaml:"server"`

	Storage struct {
		DSN string `yaml:"dsn"`
	} `yaml:"storage"`

	Session struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
	} `yaml:"session"`

	Lockout struct {
		Threshold int           `yaml:"threshold"`
		Window    time.Duration `yaml:"window"`
	} `yaml:"lockout"`

	Desk struct {
		SupportedIntents  []string      `yaml:"supported_intents"`
		DeflectionMessage string        `yaml:"deflection_message"`
		DelegationTimeout time.Duration `yaml:"delegation_timeout"`
	} `yaml:"desk"`

	OpenAI struct {
		Model  string `yaml:"model"`
		APIKey string `yaml:"api_key"`
	} `yaml:"openai"`

	Rate struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate"`
}

// Load reads the YAML file at path (optional: an empty path or a missing file
// yields defaults), folds in .env, and applies RMDESK_* env overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 1 << 20
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Lockout.Threshold == 0 {
		c.Lockout.Threshold = 3
	}
	if c.Lockout.Window == 0 {
		c.Lockout.Window = 15 * time.Minute
	}
	if len(c.Desk.SupportedIntents) == 0 {
		for _, l := range intent.DefaultSupported() {
			c.Desk.SupportedIntents = append(c.Desk.SupportedIntents, string(l))
		}
	}
	if c.Desk.DelegationTimeout == 0 {
		c.Desk.DelegationTimeout = 20 * time.Second
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Rate.RPS == 0 {
		c.Rate.RPS = 20
	}
	if c.Rate.Burst == 0 {
		c.Rate.Burst = 40
	}
}

func (c *Config) validate() error {
	for _, s := range c.Desk.SupportedIntents {
		if !intent.Label(strings.ToUpper(strings.TrimSpace(s))).Known() {
			return fmt.Errorf("config: unknown supported intent %q", s)
		}
	}
	if c.Lockout.Threshold < 1 {
		return fmt.Errorf("config: lockout threshold must be positive")
	}
	return nil
}

// SupportedLabels returns the configured supported subset as intent labels.
func (c *Config) SupportedLabels() []intent.Label {
	out := make([]intent.Label, 0, len(c.Desk.SupportedIntents))
	for _, s := range c.Desk.SupportedIntents {
		out = append(out, intent.Parse(s))
	}
	return out
}

func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("RMDESK_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("RMDESK_GRPC_HEALTH_ADDR"); ok {
		c.Server.GRPCHealthAddr = v
	}
	if v, ok := getEnvCSV("RMDESK_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvInt("RMDESK_MAX_BODY_BYTES"); ok {
		c.Server.MaxBodyBytes = int64(v)
	}
	if v, ok := getEnvStr("RMDESK_DB_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("RMDESK_SESSION_SECRET"); ok {
		c.Session.Secret = v
	}
	if v, ok := getEnvDur("RMDESK_SESSION_TTL"); ok {
		c.Session.TTL = v
	}
	if v, ok := getEnvInt("RMDESK_LOCKOUT_THRESHOLD"); ok {
		c.Lockout.Threshold = v
	}
	if v, ok := getEnvDur("RMDESK_LOCKOUT_WINDOW"); ok {
		c.Lockout.Window = v
	}
	if v, ok := getEnvCSV("RMDESK_SUPPORTED_INTENTS"); ok {
		c.Desk.SupportedIntents = v
	}
	if v, ok := getEnvStr("RMDESK_DEFLECTION_MESSAGE"); ok {
		c.Desk.DeflectionMessage = v
	}
	if v, ok := getEnvDur("RMDESK_DELEGATION_TIMEOUT"); ok {
		c.Desk.DelegationTimeout = v
	}
	if v, ok := getEnvStr("RMDESK_OPENAI_MODEL"); ok {
		c.OpenAI.Model = v
	}
	if v, ok := getEnvStr("OPENAI_API_KEY"); ok {
		c.OpenAI.APIKey = v
	}
	if v, ok := getEnvFloat("RMDESK_RATE_RPS"); ok {
		c.Rate.RPS = v
	}
	if v, ok := getEnvInt("RMDESK_RATE_BURST"); ok {
		c.Rate.Burst = v
	}
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvFloat(key string) (float64, bool) {
	if s, ok := getEnvStr(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}
