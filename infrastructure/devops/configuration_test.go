package devops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LISTEN_ADDR", "PORT", "TIMEZONE", "DB_DRIVER", "DSN", "DB_LOG_LEVEL", "JWT_SECRET",
		"EMAIL_FROM", "AWS_REGION", "SLACK_BOT_TOKEN", "SLACK_INFO_CHANNEL", "SLACK_ERROR_CHANNEL",
		"HOLIDAYS_BUCKET", "HOLIDAYS_SYNC_SCHEDULE", "MAIL_ENABLED",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  listen_addr: ":8080"
  timezone: "UTC"
database:
  driver: mysql
  dsn: "hrm:secret@tcp(localhost:3306)/hrm?parseTime=true"
  max_conns: 4
auth:
  secret: "base64:c2VjcmV0LWtleQ=="
  token_ttl: "30m"
mail:
  enabled: true
  from: "hr@example.com"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 4, cfg.Database.MaxConns)
	assert.Equal(t, "warn", cfg.Database.LogLevel)
	assert.Equal(t, []byte("secret-key"), cfg.Auth.SigningKey())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Mail.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
auth:
  secret: "from-file"
`)
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DSN", "file:test.db")
	t.Setenv("MAIL_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.ListenAddr)
	assert.Equal(t, []byte("from-env"), cfg.Auth.SigningKey())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Mail.Enabled)
}

func TestParse_Validation(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing secret", `database: {driver: sqlite}`, "auth.secret must be set"},
		{"unknown driver", "auth: {secret: x}\ndatabase: {driver: oracle}", "not supported"},
		{"mysql without dsn", "auth: {secret: x}\ndatabase: {driver: mysql}", "database.dsn must be set"},
		{"bad ttl", `auth: {secret: x, token_ttl: soon}`, "auth.token_ttl"},
		{"negative ttl", `auth: {secret: x, token_ttl: "-1m"}`, "must be positive"},
		{"bad timezone", "auth: {secret: x}\nserver: {timezone: Mars/Olympus}", "server.timezone"},
		{"mail without sender", "auth: {secret: x}\nmail: {enabled: true}", "mail.from must be set"},
		{"schedule without bucket", "auth: {secret: x}\nholidays: {sync_schedule: \"@daily\"}", "holidays.bucket"},
		{"bad base64", `auth: {secret: "base64:%%%"}`, "auth.secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read file")
}
