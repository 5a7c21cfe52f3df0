package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "sqlite3" {
			t.Errorf("DriverName() = %v, want sqlite3", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("BoolValue", func(t *testing.T) {
		if got := dialect.BoolValue(true); got != "1" {
			t.Errorf("BoolValue(true) = %v, want 1", got)
		}
		if got := dialect.BoolValue(false); got != "0" {
			t.Errorf("BoolValue(false) = %v, want 0", got)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "sqlite" {
			t.Errorf("MigrationsSubdir() = %v, want sqlite", got)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "postgres" {
			t.Errorf("DriverName() = %v, want postgres", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("BoolValue", func(t *testing.T) {
		if got := dialect.BoolValue(true); got != "TRUE" {
			t.Errorf("BoolValue(true) = %v, want TRUE", got)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "postgres" {
			t.Errorf("MigrationsSubdir() = %v, want postgres", got)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "mysql" {
			t.Errorf("DriverName() = %v, want mysql", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for MySQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "mysql" {
			t.Errorf("MigrationsSubdir() = %v, want mysql", got)
		}
	})
}

// Every supported dialect must ship its own schema files so RunMigrations
// can find DDL for whichever backend the config selects.
func TestMigrationsShippedPerDialect(t *testing.T) {
	dialects := []Dialect{
		NewSQLiteDialect(),
		NewPostgresDialect(),
		NewMySQLDialect(),
	}

	for _, d := range dialects {
		t.Run(d.DriverName(), func(t *testing.T) {
			pattern := filepath.Join("../../migrations", d.MigrationsSubdir(), "*.sql")
			files, err := filepath.Glob(pattern)
			if err != nil {
				t.Fatalf("Glob(%s) error: %v", pattern, err)
			}
			if len(files) == 0 {
				t.Fatalf("no migration files shipped for dialect %s", d.DriverName())
			}
			for _, f := range files {
				data, err := os.ReadFile(f)
				if err != nil {
					t.Fatalf("ReadFile(%s) error: %v", f, err)
				}
				if !strings.Contains(string(data), "CREATE TABLE") {
					t.Errorf("%s contains no CREATE TABLE statement", f)
				}
			}
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM accounts WHERE id = ?",
			expected: "SELECT * FROM accounts WHERE id = ?",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "SELECT * FROM accounts WHERE id = ? AND username = ?",
			expected: "SELECT * FROM accounts WHERE id = ? AND username = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM accounts WHERE id = ?",
			expected: "SELECT * FROM accounts WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO flashcards (account_id, position, front_text) VALUES (?, ?, ?)",
			expected: "INSERT INTO flashcards (account_id, position, front_text) VALUES ($1, $2, $3)",
		},
		{
			name:     "PostgreSQL no placeholders",
			dialect:  NewPostgresDialect(),
			query:    "SELECT COUNT(*) FROM accounts",
			expected: "SELECT COUNT(*) FROM accounts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.RewriteQuery(tt.query); got != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", got, tt.expected)
			}
		})
	}
}
