package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"sync"
	"testing"
	"time"
)

type nopDriver struct{}

func (d nopDriver) Open(name string) (driver.Conn, error) {
	return nopConn{}, nil
}

type nopConn struct{}

func (nopConn) Prepare(query string) (driver.Stmt, error) { return nopStmt{}, nil }
func (nopConn) Close() error                              { return nil }
func (nopConn) Begin() (driver.Tx, error)                 { return nopTx{}, nil }
func (nopConn) Ping(ctx context.Context) error            { return nil }

type nopStmt struct{}

func (nopStmt) Close() error                                    { return nil }
func (nopStmt) NumInput() int                                   { return -1 }
func (nopStmt) Exec(args []driver.Value) (driver.Result, error) { return driver.RowsAffected(0), nil }
func (nopStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, driver.ErrSkip }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

var registerTestDriverOnce sync.Once

func withTestDriver(t *testing.T) {
	t.Helper()
	registerTestDriverOnce.Do(func() {
		sql.Register("dbtest", nopDriver{})
	})
	prev := openDB
	openDB = func(name, dsn string) (*sql.DB, error) {
		return sql.Open("dbtest", dsn)
	}
	t.Cleanup(func() {
		openDB = prev
	})
}

func TestOptionsFromEnvAppliesOverrides(t *testing.T) {
	withTestDriver(t)

	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_MAX_IDLE_CONNS", "3")
	t.Setenv("DB_CONN_MAX_LIFETIME", "20m")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "1s")

	opts := OptionsFromEnv(DefaultServerOptions())
	db, err := Connect(context.Background(), "postgres://ignored", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	stats := db.Stats()
	if stats.MaxOpenConnections != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", stats.MaxOpenConnections)
	}
	if opts.MaxIdleConns != 3 {
		t.Fatalf("expected MaxIdleConns=3, got %d", opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime != 20*time.Minute {
		t.Fatalf("expected ConnMaxLifetime=20m, got %s", opts.ConnMaxLifetime)
	}
	if opts.ConnMaxIdleTime != 45*time.Second {
		t.Fatalf("expected ConnMaxIdleTime=45s, got %s", opts.ConnMaxIdleTime)
	}
	if opts.PingTimeout != time.Second {
		t.Fatalf("expected PingTimeout=1s, got %s", opts.PingTimeout)
	}
}

func TestOptionsFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("DB_PING_TIMEOUT", "soon")

	defaults := DefaultServerOptions()
	opts := OptionsFromEnv(defaults)
	if opts.MaxOpenConns != defaults.MaxOpenConns {
		t.Fatalf("expected default MaxOpenConns, got %d", opts.MaxOpenConns)
	}
	if opts.PingTimeout != defaults.PingTimeout {
		t.Fatalf("expected default PingTimeout, got %s", opts.PingTimeout)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		url     string
		dialect Dialect
		driver  string
		dsn     string
		wantErr bool
	}{
		{url: "postgres://u:p@localhost:5432/app", dialect: DialectPostgres, driver: "pgx", dsn: "postgres://u:p@localhost:5432/app"},
		{url: "postgresql://localhost/app", dialect: DialectPostgres, driver: "pgx", dsn: "postgresql://localhost/app"},
		{url: "sqlite://data/resumes.db", dialect: DialectSQLite, driver: "sqlite", dsn: "data/resumes.db"},
		{url: "sqlite://:memory:", dialect: DialectSQLite, driver: "sqlite", dsn: ":memory:"},
		{url: "", wantErr: true},
		{url: "sqlite://", wantErr: true},
		{url: "mysql://localhost/app", wantErr: true},
	}
	for _, tc := range cases {
		dialect, driverName, dsn, err := Parse(tc.url)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tc.url)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.url, err)
		}
		if dialect != tc.dialect || driverName != tc.driver || dsn != tc.dsn {
			t.Fatalf("Parse(%q) = %s %s %s", tc.url, dialect, driverName, dsn)
		}
	}
}

func TestConnectSQLiteMemoryAndMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, "sqlite://:memory:", DefaultServerOptions())
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()

	if got := db.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected single connection for :memory:, got %d", got)
	}
	if err := RunMigrations(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	version, err := MigrationVersion(ctx, db, DialectSQLite)
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected version 1, got %d", version)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM resumes").Scan(&count); err != nil {
		t.Fatalf("query resumes: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty table, got %d", count)
	}

	if err := RollbackMigration(ctx, db, DialectSQLite); err != nil {
		t.Fatalf("RollbackMigration: %v", err)
	}
	if _, err := db.ExecContext(ctx, "SELECT COUNT(*) FROM resumes"); err == nil {
		t.Fatalf("expected resumes table to be dropped")
	}
}

func TestRunMigrationsNilDatabase(t *testing.T) {
	if err := RunMigrations(context.Background(), nil, DialectPostgres); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}
