package migration

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Runner applies the SQL migrations shipped in the migrations directory
// against a Postgres schema. It wraps golang-migrate so callers deal in
// commands, not driver plumbing.
type Runner struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// NewRunner binds a Runner to an open database handle and a directory of
// versioned .up.sql/.down.sql files.
func NewRunner(db *sql.DB, dir string, log *zap.Logger) (*Runner, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("open migration source %s: %w", dir, err)
	}

	return &Runner{m: m, log: log}, nil
}

// Up applies every pending migration.
func (r *Runner) Up() error {
	err := r.m.Up()
	if err == migrate.ErrNoChange {
		r.log.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	r.logVersion("Migrations applied")
	return nil
}

// Down rolls back every applied migration.
func (r *Runner) Down() error {
	err := r.m.Down()
	if err == migrate.ErrNoChange {
		r.log.Info("Nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	r.log.Info("All migrations rolled back")
	return nil
}

// Steps moves n versions forward (n > 0) or backward (n < 0).
func (r *Runner) Steps(n int) error {
	err := r.m.Steps(n)
	if err == migrate.ErrNoChange {
		r.log.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("step %d migrations: %w", n, err)
	}
	r.logVersion("Migration steps applied")
	return nil
}

// GoTo migrates the schema to an exact version, in either direction.
func (r *Runner) GoTo(version uint) error {
	err := r.m.Migrate(version)
	if err == migrate.ErrNoChange {
		r.log.Info("Already at requested version", zap.Uint("version", version))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate to version %d: %w", version, err)
	}
	r.log.Info("Schema migrated", zap.Uint("version", version))
	return nil
}

// Version reports the current schema version. A fresh database reports
// version 0 rather than an error.
func (r *Runner) Version() (uint, bool, error) {
	version, dirty, err := r.m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force overwrites the recorded version without running any SQL. Only for
// recovering a dirty schema after a failed migration.
func (r *Runner) Force(version int) error {
	r.log.Warn("Forcing schema version", zap.Int("version", version))
	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop removes every object in the schema, data included.
func (r *Runner) Drop() error {
	if err := r.m.Drop(); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	r.log.Info("Schema dropped")
	return nil
}

// Close releases the source and database handles held by the migrator.
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

func (r *Runner) logVersion(msg string) {
	version, dirty, err := r.m.Version()
	if err != nil {
		r.log.Warn("Schema version unreadable after migration", zap.Error(err))
		return
	}
	r.log.Info(msg, zap.Uint("version", version), zap.Bool("dirty", dirty))
}
