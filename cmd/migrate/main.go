// Command migrate applies the embedded schema migrations.
//
//	migrate [-dsn url] up|down|version|steps N|force V
//
// Without -dsn the connection comes from the same config.toml, overlay, and
// VERDICT_DB_* variables the server reads.
package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/verdict/internal/config"
	"github.com/JaimeStill/verdict/internal/infrastructure"
)

//go:embed migrations/*.sql
var migrations embed.FS

var errUsage = errors.New("usage: migrate [-dsn url] up|down|version|steps N|force V")

type command struct {
	name string
	n    int
}

func main() {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dsn := fs.String("dsn", "", "Database URL (default from config)")
	fs.Parse(os.Args[1:])

	cmd, err := parseCommand(fs.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	logger := infrastructure.NewLogger(&cfg.Logging, os.Stderr).With("system", "migrate")

	url := *dsn
	if url == "" {
		url = cfg.Database.Dsn()
	}

	if err := run(cmd, url, logger); err != nil {
		logger.Error("migration failed", "command", cmd.name, "error", err)
		os.Exit(1)
	}
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errUsage
	}

	switch name := args[0]; name {
	case "up", "down", "version":
		if len(args) != 1 {
			return command{}, errUsage
		}
		return command{name: name}, nil
	case "steps", "force":
		if len(args) != 2 {
			return command{}, errUsage
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || (name == "steps" && n == 0) {
			return command{}, fmt.Errorf("%s: invalid count %q", name, args[1])
		}
		return command{name: name, n: n}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q\n%w", name, errUsage)
	}
}

func run(cmd command, dsn string, logger *slog.Logger) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{logger}

	switch cmd.name {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(cmd.n)
	case "force":
		err = m.Force(cmd.n)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("schema version", "version", "none")
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		logger.Info("schema version", "version", v, "dirty", dirty)
	}
	return nil
}

// migrateLogger routes migrate's progress lines through slog at debug level.
type migrateLogger struct {
	logger *slog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l migrateLogger) Verbose() bool {
	return l.logger.Enabled(context.Background(), slog.LevelDebug)
}
