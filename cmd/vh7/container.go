package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/handler"
	"github.com/atinyakov/vh7/internal/app/server"
	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/cache"
	"github.com/atinyakov/vh7/internal/config"
	"github.com/atinyakov/vh7/internal/logger"
	"github.com/atinyakov/vh7/internal/mailer"
	"github.com/atinyakov/vh7/internal/middleware"
	"github.com/atinyakov/vh7/internal/repository"
	"github.com/atinyakov/vh7/internal/storage"
	"github.com/atinyakov/vh7/internal/uploads"
)

const connectTimeout = 10 * time.Second

// closers collects what has to be released when a command returns.
type closers struct {
	fns []func() error
}

func (c *closers) add(fn func() error) {
	c.fns = append(c.fns, fn)
}

// Close releases resources in reverse order of acquisition.
func (c *closers) Close() error {
	var errs []error
	for i := len(c.fns) - 1; i >= 0; i-- {
		errs = append(errs, c.fns[i]())
	}
	return errors.Join(errs...)
}

func buildContainer(opts *config.Options) *dig.Container {
	container := dig.New()

	provide := func(constructor any, opts ...dig.ProvideOption) {
		if err := container.Provide(constructor, opts...); err != nil {
			panic(fmt.Sprintf("DI error: %s", err))
		}
	}

	provide(func() *config.Options { return opts })
	provide(func() *closers { return &closers{} })
	provide(provideLogger)

	provide(provideStorage)
	provide(provideLinkCache)
	provide(provideFileStore)
	provide(provideMailSender)
	provide(provideNotifier)

	provide(service.LoadLanguages)
	provide(provideAuth)
	provide(provideLinkService)
	provide(provideUserService)
	provide(service.NewBucketService)

	provide(provideTrustedSubnet)
	provide(provideRouter)

	return container
}

func provideLogger(opts *config.Options, res *closers) (*zap.Logger, error) {
	l := logger.New()
	if err := l.Init(opts.LogLevel); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	res.add(func() error {
		l.Sync()
		return nil
	})

	return l.Log, nil
}

// provideStorage opens the database behind the DSN and applies pending
// migrations. Without a DSN everything lives in memory.
func provideStorage(opts *config.Options, res *closers, log *zap.Logger) (storage.Storage, error) {
	if opts.DatabaseDSN == "" {
		log.Warn("using in memory storage, data is lost on restart")
		return storage.CreateMemoryStorage()
	}

	if err := repository.Migrate(opts.DatabaseDSN, log); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, dialect, err := repository.InitDB(ctx, opts.DatabaseDSN, log)
	if err != nil {
		return nil, err
	}
	res.add(db.Close)

	log.Info("database connected", zap.String("dialect", string(dialect)))
	return repository.NewRepository(db, log), nil
}

func provideLinkCache(opts *config.Options, res *closers, log *zap.Logger) (cache.LinkCache, error) {
	if opts.RedisAddr == "" {
		return cache.Noop{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.RedisAddr,
		MaxRetries:   3,
		DialTimeout:  connectTimeout,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	res.add(client.Close)

	log.Info("link cache enabled", zap.String("redis", opts.RedisAddr))
	return cache.NewRedis(client, opts.CacheTTL, log), nil
}

func provideFileStore(opts *config.Options) (service.FileStore, error) {
	return uploads.NewDiskStore(opts.UploadDir)
}

func provideMailSender(opts *config.Options, res *closers, log *zap.Logger) (mailer.Sender, error) {
	if opts.AMQPURL == "" {
		log.Warn("no mail broker configured, emails are only logged")
		return mailer.NewLogSender(log), nil
	}

	conn, ch, err := mailer.DialAMQP(opts.AMQPURL, log)
	if err != nil {
		return nil, err
	}
	res.add(conn.Close)

	return mailer.NewAMQPSender(ch), nil
}

func provideNotifier(opts *config.Options, sender mailer.Sender) (service.Notifier, error) {
	return mailer.New(sender, opts.AppURL, opts.MailFrom)
}

func provideAuth(opts *config.Options) (*service.Auth, error) {
	return service.NewAuth(opts.Secret, opts.AccessTokenTTL, opts.EmailTokenTTL)
}

func provideLinkService(
	opts *config.Options,
	store storage.Storage,
	files service.FileStore,
	linkCache cache.LinkCache,
	languages *service.Languages,
	log *zap.Logger,
) (*service.LinkService, error) {
	linkOpts := service.LinkOptions{
		Strategy:      service.LinkStrategy(opts.LinkStrategy),
		Alphabet:      opts.Alphabet,
		WordCount:     opts.WordCount,
		WordSeparator: opts.WordSeparator,
		Retention:     opts.Retention(),
	}

	return service.NewLinkService(linkOpts, store, files, linkCache, languages, log)
}

func provideUserService(store storage.Storage, auth *service.Auth, notifier service.Notifier, log *zap.Logger) *service.UserService {
	return service.NewUserService(store, auth, notifier, log)
}

func provideTrustedSubnet(opts *config.Options) (middleware.Subnet, error) {
	subnet, err := middleware.ParseSubnet(opts.TrustedSubnet)
	if err != nil {
		return middleware.Subnet{}, fmt.Errorf("trusted subnet: %w", err)
	}
	return subnet, nil
}

func provideRouter(
	opts *config.Options,
	subnet middleware.Subnet,
	links *service.LinkService,
	users *service.UserService,
	buckets *service.BucketService,
	languages *service.Languages,
	log *zap.Logger,
) *chi.Mux {
	routerOpts := server.Options{
		Instance: handler.Instance{
			BaseURL: opts.BaseURL,
			AppURL:  opts.AppURL,
			Admin:   opts.Admin,
		},
		MaxUpload:     opts.MaxUploadBytes(),
		TrustedSubnet: subnet,
	}

	svc := server.Services{
		Links:     links,
		Users:     users,
		Buckets:   buckets,
		Languages: languages.List(),
	}

	return server.Init(routerOpts, svc, log)
}

// newHTTPServer keeps slow clients from holding connections forever.
func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
