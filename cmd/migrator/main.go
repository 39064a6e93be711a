package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/niksmo/storefront/migrations"
	"github.com/spf13/pflag"
)

const (
	storagePathFlag = "storage-path"
	downFlag        = "down"
)

func main() {
	storagePath, down := getFlagsValues()
	validateFlags(storagePath)
	makeMigrations(storagePath, down)
}

type MigrationLogger struct {
	logger  *slog.Logger
	verbose bool
}

func NewMigrationLogger() *MigrationLogger {
	return &MigrationLogger{
		logger:  slog.Default(),
		verbose: true,
	}
}

func (ml *MigrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml *MigrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() (storage string, down bool) {
	storagePath := pflag.StringP(storagePathFlag, "s", "",
		"postgres dsn without scheme, e.g. user:pass@host:5432/storefront")
	rollback := pflag.Bool(downFlag, false, "roll back every migration")
	pflag.Parse()
	return *storagePath, *rollback
}

func validateFlags(storagePath string) {
	if storagePath == "" {
		slog.Error("too few args", "err", fmt.Errorf("--%s flag: required", storagePathFlag))
		fallDown()
	}
}

func makeMigrations(storagePath string, down bool) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		slog.Error("failed to read migrations", "err", err)
		fallDown()
	}

	m, err := migrate.NewWithSourceInstance(
		"iofs", src, fmt.Sprintf("pgx5://%s", storagePath),
	)
	if err != nil {
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}

	m.Log = NewMigrationLogger()

	apply := m.Up
	if down {
		apply = m.Down
	}

	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		slog.Error("failed to migrate", "err", err)
		fallDown()
	}
	m.Log.Printf("migration applied")
}

func fallDown() {
	os.Exit(2)
}
