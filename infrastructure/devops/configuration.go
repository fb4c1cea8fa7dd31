package devops

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	Slack    SlackConfig    `yaml:"slack"`
	Holidays HolidaysConfig `yaml:"holidays"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	// Timezone is the business time zone attendance is classified in.
	Timezone   string `yaml:"timezone"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	MaxConns int    `yaml:"max_conns"`
	LogLevel string `yaml:"log_level"`
}

type AuthConfig struct {
	// Secret is the HMAC signing key; prefix with "base64:" for binary keys.
	Secret      string        `yaml:"secret"`
	TokenTTLRaw string        `yaml:"token_ttl"`
	TokenTTL    time.Duration `yaml:"-"`

	signingKey []byte
}

type MailConfig struct {
	Enabled bool   `yaml:"enabled"`
	From    string `yaml:"from"`
	Region  string `yaml:"region"`
}

type SlackConfig struct {
	Token          string `yaml:"token"`
	InfoChannelID  string `yaml:"info_channel"`
	ErrorChannelID string `yaml:"error_channel"`
}

type HolidaysConfig struct {
	Bucket       string `yaml:"bucket"`
	// SyncSchedule is a cron expression; empty disables the in-process sync.
	SyncSchedule string `yaml:"sync_schedule"`
}

// SigningKey returns the decoded token signing key.
func (a AuthConfig) SigningKey() []byte {
	return a.signingKey
}

// Load reads the yaml file at path (optional when empty), a .env file when present,
// then applies environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var b []byte
	if path != "" {
		var err error
		b, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file %s: %w", path, err)
		}
	}
	return Parse(b)
}

// LoadFromSSM reads the same yaml document from an SSM parameter.
func LoadFromSSM(ctx context.Context, paramName string) (*Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter: %w", err)
	}

	return Parse([]byte(aws.ToString(out.Parameter.Value)))
}

// Parse decodes a yaml document, applies environment overrides and validates the result.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Server.ListenAddr, "LISTEN_ADDR")
	if port := os.Getenv("PORT"); port != "" {
		c.Server.ListenAddr = ":" + port
	}
	setString(&c.Server.Timezone, "TIMEZONE")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DSN")
	setString(&c.Database.LogLevel, "DB_LOG_LEVEL")
	setString(&c.Auth.Secret, "JWT_SECRET")
	setString(&c.Mail.From, "EMAIL_FROM")
	setString(&c.Mail.Region, "AWS_REGION")
	setString(&c.Slack.Token, "SLACK_BOT_TOKEN")
	setString(&c.Slack.InfoChannelID, "SLACK_INFO_CHANNEL")
	setString(&c.Slack.ErrorChannelID, "SLACK_ERROR_CHANNEL")
	setString(&c.Holidays.Bucket, "HOLIDAYS_BUCKET")
	setString(&c.Holidays.SyncSchedule, "HOLIDAYS_SYNC_SCHEDULE")

	if v := os.Getenv("MAIL_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("[WARN] ignoring MAIL_ENABLED=%q: %v", v, err)
		} else {
			c.Mail.Enabled = enabled
		}
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":3000"
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("config: server.timezone: %w", err)
	}

	if err := c.Database.validateAndNormalize(); err != nil {
		return err
	}
	if err := c.Auth.validateAndNormalize(); err != nil {
		return err
	}

	if c.Mail.Enabled && c.Mail.From == "" {
		return fmt.Errorf("config: mail.from must be set when mail is enabled")
	}
	if c.Holidays.SyncSchedule != "" && c.Holidays.Bucket == "" {
		return fmt.Errorf("config: holidays.bucket must be set when holidays.sync_schedule is")
	}
	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	switch d.Driver {
	case "":
		d.Driver = "sqlite"
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("config: database.driver %q is not supported", d.Driver)
	}

	if d.DSN == "" {
		if d.Driver == "mysql" {
			return fmt.Errorf("config: database.dsn must be set")
		}
		d.DSN = "hrm.db"
	}
	if d.MaxConns <= 0 {
		d.MaxConns = 10
	}
	if d.LogLevel == "" {
		d.LogLevel = "warn"
	}
	return nil
}

func (a *AuthConfig) validateAndNormalize() error {
	if a.Secret == "" {
		return fmt.Errorf("config: auth.secret must be set")
	}

	if raw, ok := strings.CutPrefix(a.Secret, "base64:"); ok {
		key, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return fmt.Errorf("config: auth.secret: %w", err)
		}
		a.signingKey = key
	} else {
		a.signingKey = []byte(a.Secret)
	}

	a.TokenTTL = time.Hour
	if a.TokenTTLRaw != "" {
		ttl, err := time.ParseDuration(a.TokenTTLRaw)
		if err != nil {
			return fmt.Errorf("config: auth.token_ttl: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("config: auth.token_ttl must be positive")
		}
		a.TokenTTL = ttl
	}
	return nil
}
