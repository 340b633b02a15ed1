package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// BootstrapState reports whether this instance's schema has been brought
// up to date. It only ever moves forward, from Uninitialized to Ready.
type BootstrapState int

const (
	StateUninitialized BootstrapState = iota
	StateReady
)

func (s BootstrapState) String() string {
	if s == StateReady {
		return "ready"
	}
	return "uninitialized"
}

// Bootstrapper runs the schema migrations for one database handle and
// remembers whether they completed.
type Bootstrapper struct {
	state BootstrapState
}

func NewBootstrapper() *Bootstrapper {
	return &Bootstrapper{state: StateUninitialized}
}

func (b *Bootstrapper) State() BootstrapState {
	return b.state
}

func (b *Bootstrapper) Migrate(dbConn *sql.DB) error {
	if b.state == StateReady {
		return nil
	}
	if err := Migrate(dbConn); err != nil {
		return err
	}
	b.state = StateReady
	return nil
}

// Migrate applies all pending schema migrations. Already-applied versions
// are tracked by the migrate library in its schema_migrations table, so
// running this on every startup is safe.
func Migrate(dbConn *sql.DB) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	driver, err := postgres.WithInstance(dbConn, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to initialize migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
