package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atinyakov/vh7/internal/config"
	"github.com/atinyakov/vh7/internal/retention"
)

const testSecret = "0123456789abcdef"

// clearEnv unsets every variable Options reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"CONFIG", "SERVER_ADDRESS", "INSTANCE_URL", "INSTANCE_APP_URL", "INSTANCE_ADMIN",
		"DATABASE_DSN", "UPLOAD_DIR", "SECRET_KEY", "ACCESS_TOKEN_TTL", "EMAIL_TOKEN_TTL",
		"LINK_STRATEGY", "ID_ALPHABET", "WORD_COUNT", "WORD_SEPARATOR", "UPLOAD_MIN_AGE",
		"UPLOAD_MAX_AGE", "UPLOAD_MAX_SIZE", "CLEANUP_INTERVAL", "REDIS_ADDR", "CACHE_TTL",
		"AMQP_URL", "MAIL_FROM", "GRPC_PORT", "TRUSTED_SUBNET", "ENABLE_HTTPS", "HTTPS_HOSTS",
		"CERT_CACHE", "ENABLE_PPROF", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vh7.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		opts, err := config.Parse([]string{"--secret", testSecret})
		require.NoError(t, err)
		require.Equal(t, "localhost:8080", opts.ServerAddress)
		require.Equal(t, "http://localhost:8080", opts.BaseURL)
		require.Equal(t, "https://app.vh7.uk", opts.AppURL)
		require.Equal(t, "uploads", opts.UploadDir)
		require.Equal(t, "id", opts.LinkStrategy)
		require.Equal(t, 4*time.Hour, opts.CleanupInterval)
		require.Equal(t, config.CommandServe, opts.Command())
		require.Equal(t, retention.Policy{MinAge: 30, MaxAge: 90, MaxSize: 256}, opts.Retention())
		require.Equal(t, int64(256_000_000), opts.MaxUploadBytes())
		require.False(t, opts.EnableHTTPS)
		require.False(t, opts.EnablePprof)
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SERVER_ADDRESS", "127.0.0.1:9999")
		t.Setenv("INSTANCE_URL", "https://vh7.example")
		t.Setenv("SECRET_KEY", testSecret)
		t.Setenv("ENABLE_HTTPS", "true")
		t.Setenv("HTTPS_HOSTS", "vh7.example,www.vh7.example")
		t.Setenv("TRUSTED_SUBNET", "192.168.0.0/24")
		t.Setenv("CLEANUP_INTERVAL", "30m")

		opts, err := config.Parse(nil)
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:9999", opts.ServerAddress)
		require.Equal(t, "https://vh7.example", opts.BaseURL)
		require.True(t, opts.EnableHTTPS)
		require.Equal(t, []string{"vh7.example", "www.vh7.example"}, opts.Hosts)
		require.Equal(t, "192.168.0.0/24", opts.TrustedSubnet)
		require.Equal(t, 30*time.Minute, opts.CleanupInterval)
	})

	t.Run("config file, env and flags", func(t *testing.T) {
		clearEnv(t)

		path := writeConfig(t, `
server_address: 10.0.0.1:8081
base_url: http://testhost
database_dsn: postgres://test
secret: 0123456789abcdef
link_strategy: words
retention_min_age: 7
retention_max_age: 14
retention_max_size: 10
cleanup_interval: 1h
grpc_port: 3200
`)
		t.Setenv("CONFIG", path)
		t.Setenv("INSTANCE_URL", "http://envhost")

		opts, err := config.Parse([]string{"-a", "0.0.0.0:80", "cleanup"})
		require.NoError(t, err)
		require.Equal(t, path, opts.Config)
		require.Equal(t, "0.0.0.0:80", opts.ServerAddress)
		require.Equal(t, "http://envhost", opts.BaseURL)
		require.Equal(t, "postgres://test", opts.DatabaseDSN)
		require.Equal(t, "words", opts.LinkStrategy)
		require.Equal(t, retention.Policy{MinAge: 7, MaxAge: 14, MaxSize: 10}, opts.Retention())
		require.Equal(t, time.Hour, opts.CleanupInterval)
		require.Equal(t, 3200, opts.GRPCPort)
		require.Equal(t, config.CommandCleanup, opts.Command())
	})

	t.Run("config flag", func(t *testing.T) {
		clearEnv(t)

		path := writeConfig(t, "admin: Someone <a@b.c>\n")

		opts, err := config.Parse([]string{"--config", path, "migrate"})
		require.NoError(t, err)
		require.Equal(t, "Someone <a@b.c>", opts.Admin)
		require.Equal(t, config.CommandMigrate, opts.Command())
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing secret", args: nil},
		{name: "short secret", args: []string{"--secret", "short"}},
		{name: "unknown command", args: []string{"--secret", testSecret, "frobnicate"}},
		{name: "bad strategy", args: []string{"--secret", testSecret, "--link-strategy", "emoji"}},
		{name: "min age above max age", args: []string{"--secret", testSecret, "--retention-min-age", "100"}},
		{name: "https without hosts", args: []string{"--secret", testSecret, "--https"}},
		{name: "missing config file", args: []string{"--secret", testSecret, "-c", "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			_, err := config.Parse(tt.args)
			require.Error(t, err)
		})
	}
}

func TestParse_SecretNotNeededForMigrate(t *testing.T) {
	clearEnv(t)

	opts, err := config.Parse([]string{"migrate"})
	require.NoError(t, err)
	require.Equal(t, config.CommandMigrate, opts.Command())
}

func TestParse_InvalidYAML(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "grpc_port: [not a number\n")

	_, err := config.Parse([]string{"-c", path, "migrate"})
	require.Error(t, err)
}
