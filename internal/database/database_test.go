package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"spendtable/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return NewManagerWithDB(db, &Config{Driver: DriverPostgres}), mock
}

func TestManager_Ping(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.ExpectPing()

		if err := m.Ping(context.Background()); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		m, mock := newMockManager(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		if err := m.Ping(context.Background()); err == nil {
			t.Error("Ping() expected error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("postgres_urls", func(t *testing.T) {
		c, err := NewConfig(&config.Config{
			DBDriver: "postgres", DBHost: "db", DBPort: "5433", DBUser: "app",
			DBPassword: "p@ss word", DBName: "ledger", DBSSLMode: "disable",
		})
		if err != nil {
			t.Fatalf("NewConfig() error = %v", err)
		}
		if got, want := c.DSN(), "host=db port=5433 user=app password=p@ss word dbname=ledger sslmode=disable"; got != want {
			t.Errorf("DSN() = %q, want %q", got, want)
		}
		if got, want := c.MigrateURL(), "postgres://app:p%40ss%20word@db:5433/ledger?sslmode=disable"; got != want {
			t.Errorf("MigrateURL() = %q, want %q", got, want)
		}
	})

	t.Run("sqlite_urls", func(t *testing.T) {
		c, err := NewConfig(&config.Config{DBDriver: "sqlite", SQLitePath: "/var/lib/app.db"})
		if err != nil {
			t.Fatalf("NewConfig() error = %v", err)
		}
		if c.DSN() != "/var/lib/app.db" {
			t.Errorf("DSN() = %q", c.DSN())
		}
		if c.MigrateURL() != "sqlite3:///var/lib/app.db" {
			t.Errorf("MigrateURL() = %q", c.MigrateURL())
		}
	})

	t.Run("unknown_driver", func(t *testing.T) {
		if _, err := NewConfig(&config.Config{DBDriver: "mysql"}); err == nil {
			t.Error("NewConfig(mysql) expected error")
		}
	})
}

func TestRunMigrations_SQLite(t *testing.T) {
	cfg := &Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "migrate.db")}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	defer m.Close()

	if err := m.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	if err := m.RunMigrations(); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}

	for _, table := range []string{"users", "projects", "categories", "expenses", "audit_logs"} {
		if !m.DB().Migrator().HasTable(table) {
			t.Errorf("table %s missing after migrations", table)
		}
	}

	mig, err := NewMigrator(cfg)
	if err != nil {
		t.Fatalf("NewMigrator() error = %v", err)
	}
	defer CloseMigrator(mig)
	version, dirty, err := mig.Version()
	if err != nil || dirty || version != 1 {
		t.Errorf("Version() = %d, %v, %v; want 1, false, nil", version, dirty, err)
	}
}
