// Package migrations embebe el esquema SQL y lo aplica con golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

type Status struct {
	Version uint
	Latest  uint
	Dirty   bool
}

func (s Status) UpToDate() bool {
	return !s.Dirty && s.Version == s.Latest
}

// Up aplica las migraciones pendientes. Sin cambios no es error.
// El caller es dueño de db: no cerramos la instancia de migrate porque cerraría la conexión.
func Up(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// CurrentStatus devuelve la versión aplicada y la última embebida.
func CurrentStatus(db *sql.DB) (Status, error) {
	latest, err := LatestVersion()
	if err != nil {
		return Status{}, err
	}

	m, err := newMigrate(db)
	if err != nil {
		return Status{}, err
	}

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return Status{Latest: latest}, nil
		}
		return Status{}, fmt.Errorf("reading schema version: %w", err)
	}
	return Status{Version: version, Latest: latest, Dirty: dirty}, nil
}

// LatestVersion es la versión más alta presente en los archivos embebidos.
func LatestVersion() (uint, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("reading migration files: %w", err)
	}
	defer src.Close()
	return latestVersion(src)
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("creating source driver: %w", err)
	}

	drv, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("creating database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}
	return m, nil
}

func latestVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(v)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return v, nil
			}
			return 0, err
		}
		v = next
	}
}
