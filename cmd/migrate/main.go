package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"taskboard/internal/config"
	"taskboard/internal/migrations"
	"taskboard/pkg/logger"
	"taskboard/pkg/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	command string
	dsn     string
}

func parseFlags(args []string) (options, bool, error) {
	var opts options
	flagSet := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flagSet.StringVar(&opts.command, "command", migrations.CommandUp, "goose command: up, down, status or version")
	flagSet.StringVar(&opts.dsn, "dsn", "", "Postgres DSN (default: built from DB_* environment)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return opts, true, nil
		}
		return opts, false, err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return opts, true, nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, false, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	switch opts.command {
	case migrations.CommandUp, migrations.CommandDown, migrations.CommandStatus, migrations.CommandVersion:
	default:
		return opts, false, fmt.Errorf("unknown command %q", opts.command)
	}
	return opts, false, nil
}

func run(args []string) error {
	opts, done, err := parseFlags(args)
	if err != nil || done {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appEnv := os.Getenv("APP_ENV")
	log := logger.New(appEnv)
	slog.SetDefault(log)

	dsn := opts.dsn
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		dsn = cfg.PostgresDSN()
	}

	db, err := utils.OpenPostgres(ctx, "pgx", dsn, utils.PostgresPoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info("running migrations", "command", opts.command)
	if err := migrations.Run(ctx, db, opts.command); err != nil {
		return fmt.Errorf("migrate %s: %w", opts.command, err)
	}
	log.Info("migrations finished", "command", opts.command)
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Apply the embedded taskboard schema migrations.

Usage:
  migrate [flags]

Flags:
%s`, flagSet.FlagUsages())
}
