// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/atinyakov/vh7/internal/retention"
	"github.com/atinyakov/vh7/internal/shortlink"
)

// Commands accepted as the first positional argument.
const (
	CommandServe   = "serve"
	CommandCleanup = "cleanup"
	CommandMigrate = "migrate"
)

// Options holds the configuration values for the application.
type Options struct {
	// Config is the path of a YAML file read before the environment and flags.
	Config string `short:"c" long:"config" env:"CONFIG" description:"path to a YAML config file" yaml:"-"`

	// ServerAddress defines the server's listening address (ip:port).
	ServerAddress string `short:"a" long:"address" env:"SERVER_ADDRESS" description:"run on ip:port server" yaml:"server_address"`
	// BaseURL is the public URL of the API used for short links.
	BaseURL string `short:"b" long:"base-url" env:"INSTANCE_URL" description:"public base url of the instance" yaml:"base_url"`
	// AppURL is the web app that non-URL links and / redirect to.
	AppURL string `long:"app-url" env:"INSTANCE_APP_URL" description:"web app url" yaml:"app_url"`
	// Admin is the contact shown by /info.
	Admin string `long:"admin" env:"INSTANCE_ADMIN" description:"instance admin contact" yaml:"admin"`

	// DatabaseDSN selects the storage: postgres://..., sqlite3://path or
	// empty for memory.
	DatabaseDSN string `short:"d" long:"database-dsn" env:"DATABASE_DSN" description:"postgres:// or sqlite3:// dsn, memory storage when empty" yaml:"database_dsn"`
	// UploadDir is where uploaded files are kept.
	UploadDir string `short:"u" long:"upload-dir" env:"UPLOAD_DIR" description:"directory for uploaded files" yaml:"upload_dir"`

	Secret          string        `long:"secret" env:"SECRET_KEY" description:"key for signing tokens, at least 16 bytes" yaml:"secret"`
	AccessTokenTTL  time.Duration `long:"access-token-ttl" env:"ACCESS_TOKEN_TTL" description:"lifetime of access tokens" yaml:"access_token_ttl"`
	EmailTokenTTL   time.Duration `long:"email-token-ttl" env:"EMAIL_TOKEN_TTL" description:"lifetime of confirmation and reset tokens" yaml:"email_token_ttl"`
	LinkStrategy    string        `long:"link-strategy" env:"LINK_STRATEGY" choice:"id" choice:"words" description:"how short links are named" yaml:"link_strategy"`
	Alphabet        string        `long:"alphabet" env:"ID_ALPHABET" description:"alphabet of id links, never change after the first run" yaml:"alphabet"`
	WordCount       int           `long:"word-count" env:"WORD_COUNT" description:"number of words in word links" yaml:"word_count"`
	WordSeparator   string        `long:"word-separator" env:"WORD_SEPARATOR" description:"separator of word links" yaml:"word_separator"`
	RetentionMinAge int           `long:"retention-min-age" env:"UPLOAD_MIN_AGE" description:"days the largest file is kept" yaml:"retention_min_age"`
	RetentionMaxAge int           `long:"retention-max-age" env:"UPLOAD_MAX_AGE" description:"days an empty file is kept" yaml:"retention_max_age"`
	RetentionMaxMB  float64       `long:"retention-max-size" env:"UPLOAD_MAX_SIZE" description:"largest accepted upload in megabytes" yaml:"retention_max_size"`
	CleanupInterval time.Duration `long:"cleanup-interval" env:"CLEANUP_INTERVAL" description:"how often expired uploads are removed" yaml:"cleanup_interval"`

	RedisAddr string        `long:"redis" env:"REDIS_ADDR" description:"redis address for the link cache, disabled when empty" yaml:"redis_addr"`
	CacheTTL  time.Duration `long:"cache-ttl" env:"CACHE_TTL" description:"lifetime of cached links" yaml:"cache_ttl"`
	AMQPURL   string        `long:"amqp" env:"AMQP_URL" description:"broker url for outgoing mail, mail is logged when empty" yaml:"amqp_url"`
	MailFrom  string        `long:"mail-from" env:"MAIL_FROM" description:"sender address of emails" yaml:"mail_from"`

	GRPCPort      int    `short:"g" long:"grpc-port" env:"GRPC_PORT" description:"gRPC port, disabled when 0" yaml:"grpc_port"`
	TrustedSubnet string `short:"t" long:"trusted-subnet" env:"TRUSTED_SUBNET" description:"CIDR allowed to call internal endpoints" yaml:"trusted_subnet"`

	EnableHTTPS bool     `short:"s" long:"https" env:"ENABLE_HTTPS" description:"serve https with autocert" yaml:"enable_https"`
	Hosts       []string `long:"host" env:"HTTPS_HOSTS" env-delim:"," description:"domains autocert may issue certificates for" yaml:"hosts"`
	CertCache   string   `long:"cert-cache" env:"CERT_CACHE" description:"directory for autocert certificates" yaml:"cert_cache"`
	EnablePprof bool     `short:"p" long:"pprof" env:"ENABLE_PPROF" description:"serve pprof on localhost:6060" yaml:"enable_pprof"`
	LogLevel    string   `short:"l" long:"log-level" env:"LOG_LEVEL" description:"debug, info, warn or error" yaml:"log_level"`

	Args struct {
		Command string `positional-arg-name:"command" description:"serve, cleanup or migrate"`
	} `positional-args:"yes" yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Options {
	return Options{
		ServerAddress:   "localhost:8080",
		BaseURL:         "http://localhost:8080",
		AppURL:          "https://app.vh7.uk",
		Admin:           "admin@unknown.vh7.uk",
		UploadDir:       "uploads",
		AccessTokenTTL:  24 * time.Hour,
		EmailTokenTTL:   24 * time.Hour,
		LinkStrategy:    "id",
		Alphabet:        shortlink.DefaultAlphabet,
		WordCount:       2,
		WordSeparator:   ".",
		RetentionMinAge: 30,
		RetentionMaxAge: 90,
		RetentionMaxMB:  256,
		CleanupInterval: 4 * time.Hour,
		CacheTTL:        10 * time.Minute,
		MailFrom:        "VH7 <noreply@vh7.uk>",
		CertCache:       "cache-dir",
		LogLevel:        "info",
	}
}

// Parse builds Options from defaults, the YAML config, the environment and
// args, each overriding the previous one.
func Parse(args []string) (*Options, error) {
	opts := Default()

	path, err := configPath(args)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := loadFile(path, &opts); err != nil {
			return nil, err
		}
	}

	if _, err := flags.NewParser(&opts, flags.Default).ParseArgs(args); err != nil {
		return nil, fmt.Errorf("parse params error: %w", err)
	}

	if opts.Args.Command == "" {
		opts.Args.Command = CommandServe
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &opts, nil
}

// configPath finds -c/--config or CONFIG without applying other options.
func configPath(args []string) (string, error) {
	var pre struct {
		Config string `short:"c" long:"config" env:"CONFIG"`
	}

	parser := flags.NewParser(&pre, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(args); err != nil {
		return "", fmt.Errorf("parse params error: %w", err)
	}

	return pre.Config, nil
}

func loadFile(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	return nil
}

// Validate checks values that cannot be expressed as flag choices.
func (o *Options) Validate() error {
	var errs []error

	switch o.Args.Command {
	case CommandServe, CommandCleanup, CommandMigrate:
	default:
		errs = append(errs, fmt.Errorf("unknown command %q", o.Args.Command))
	}

	if err := o.Retention().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("retention: %w", err))
	}

	if o.Command() == CommandServe && len(o.Secret) < 16 {
		errs = append(errs, errors.New("secret must be at least 16 bytes"))
	}

	if o.EnableHTTPS && len(o.Hosts) == 0 {
		errs = append(errs, errors.New("https requires at least one host"))
	}

	return errors.Join(errs...)
}

// Command is the subcommand to run.
func (o *Options) Command() string {
	return o.Args.Command
}

// Retention returns the configured retention policy.
func (o *Options) Retention() retention.Policy {
	return retention.Policy{
		MinAge:  o.RetentionMinAge,
		MaxAge:  o.RetentionMaxAge,
		MaxSize: o.RetentionMaxMB,
	}
}

// MaxUploadBytes is the largest accepted upload in bytes.
func (o *Options) MaxUploadBytes() int64 {
	return int64(o.RetentionMaxMB * 1e6)
}
