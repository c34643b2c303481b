package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jmoiron/sqlx"
)

const (
	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// MigrationFiles - файлы миграций с суффиксом в порядке применения:
// up по возрастанию имени, down по убыванию
func MigrationFiles(dir, suffix string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*"+suffix))
	if err != nil {
		return nil, fmt.Errorf("list migrations in %s: %w", dir, err)
	}
	sort.Strings(files)
	if suffix == downSuffix {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}
	return files, nil
}

// ApplyMigrations применяет *.up.sql, каждый файл в своей транзакции
func ApplyMigrations(t testing.TB, db *sqlx.DB, dir string) error {
	t.Helper()
	return runMigrations(t, db, dir, upSuffix)
}

// RollbackMigrations откатывает *.down.sql в обратном порядке
func RollbackMigrations(t testing.TB, db *sqlx.DB, dir string) error {
	t.Helper()
	return runMigrations(t, db, dir, downSuffix)
}

func runMigrations(t testing.TB, db *sqlx.DB, dir, suffix string) error {
	files, err := MigrationFiles(dir, suffix)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s migrations in %s", suffix, dir)
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", file, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", filepath.Base(file), err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", filepath.Base(file), err)
		}

		t.Logf("migration applied: %s", filepath.Base(file))
	}
	return nil
}
