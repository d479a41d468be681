// Command vh7 runs the VH7 URL shortener, pastebin and file sharing API.
//
//	vh7 [options] [serve|cleanup|migrate]
package main

import (
	"errors"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/config"
)

var buildVersion string
var buildDate string
var buildCommit string

func main() {
	fmt.Printf("Build version: %s\n", orNA(buildVersion))
	fmt.Printf("Build date: %s\n", orNA(buildDate))
	fmt.Printf("Build commit: %s\n", orNA(buildCommit))

	if err := run(os.Args[1:]); err != nil {
		exit(err)
	}
}

var errUsage = errors.New("usage error")

func run(args []string) error {
	// .env is optional
	_ = godotenv.Load()

	opts, err := config.Parse(args)
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	var command any
	switch opts.Command() {
	case config.CommandMigrate:
		command = runMigrate
	case config.CommandCleanup:
		command = runCleanup
	default:
		command = runServe
	}

	if err := buildContainer(opts).Invoke(command); err != nil {
		return dig.RootCause(err)
	}

	return nil
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	os.Exit(1)
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

func fatal(logger *zap.Logger, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	_ = logger.Sync()
	os.Exit(1)
}
