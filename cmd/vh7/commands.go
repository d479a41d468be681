package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	grpcserver "github.com/atinyakov/vh7/internal/app/server/grpc"
	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/config"
	"github.com/atinyakov/vh7/internal/middleware"
	"github.com/atinyakov/vh7/internal/repository"
	"github.com/atinyakov/vh7/internal/worker"
)

const (
	pprofAddr       = "localhost:6060"
	shutdownTimeout = 10 * time.Second
)

type serveDeps struct {
	dig.In

	Options *config.Options
	Closers *closers
	Logger  *zap.Logger
	Router  *chi.Mux
	Links   *service.LinkService
	Users   *service.UserService
	Subnet  middleware.Subnet
}

func runServe(deps serveDeps) error {
	log := deps.Logger
	opts := deps.Options
	defer deps.Closers.Close()

	log.Info("Welcome to VH7 API Server", zap.String("version", versionString()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if opts.EnablePprof {
		go func() {
			log.Info("Starting pprof server", zap.String("addr", pprofAddr))
			if err := http.ListenAndServe(pprofAddr, nil); err != nil {
				log.Error("pprof server error", zap.Error(err))
			}
		}()
	}

	stopCleanup := worker.NewCleanupWorker(log, deps.Links, opts.CleanupInterval).Start(ctx)
	defer stopCleanup()

	var grpcSrv *grpcserver.Server
	if opts.GRPCPort > 0 {
		grpcSrv = grpcserver.New(grpcserver.Config{
			BaseURL:       opts.BaseURL,
			TrustedSubnet: deps.Subnet,
			MaxUpload:     opts.MaxUploadBytes(),
			Port:          opts.GRPCPort,
		}, deps.Links, deps.Users, log)

		go func() {
			if err := grpcSrv.Start(); err != nil {
				fatal(log, "gRPC server failed", err)
			}
		}()
	}

	srv := newHTTPServer(opts.ServerAddress, deps.Router)

	errCh := make(chan error, 1)
	go func() {
		if opts.EnableHTTPS {
			manager := &autocert.Manager{
				Cache:      autocert.DirCache(opts.CertCache),
				Prompt:     autocert.AcceptTOS,
				HostPolicy: autocert.HostWhitelist(opts.Hosts...),
			}
			srv.Addr = ":443"
			srv.TLSConfig = manager.TLSConfig()

			log.Info("Server is running with TLS", zap.Strings("hosts", opts.Hosts))
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}

		log.Info("Server is running", zap.String("address", opts.ServerAddress))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}

	return srv.Shutdown(shutdownCtx)
}

func runMigrate(opts *config.Options, res *closers, log *zap.Logger) error {
	defer res.Close()

	if opts.DatabaseDSN == "" {
		return errors.New("migrate needs a database dsn")
	}

	if err := repository.Migrate(opts.DatabaseDSN, log); err != nil {
		return err
	}

	log.Info("migrations applied")
	return nil
}

func runCleanup(links *service.LinkService, res *closers, log *zap.Logger) error {
	defer res.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	removed, err := links.Cleanup(ctx)
	log.Info("cleanup done", zap.Int("removed", removed))

	return err
}

func versionString() string {
	return fmt.Sprintf("%s (%s, %s)", orNA(buildVersion), orNA(buildCommit), orNA(buildDate))
}
