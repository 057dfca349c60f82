package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// Pure-Go sqlite driver, registered as "sqlite".
	sqlite "modernc.org/sqlite"
)

// SQLite extended result codes for uniqueness violations.
const (
	sqliteConstraintUnique     = 2067
	sqliteConstraintPrimaryKey = 1555
)

// Connect opens a gorm handle: PostgreSQL for postgres:// DSNs, SQLite
// otherwise (local development and tests). TranslateError is on so unique
// constraint violations surface as gorm.ErrDuplicatedKey on the postgres
// dialector; the sqlite path needs TranslateDuplicateKey on top, because
// the sqlite dialector's translator does not recognize modernc errors.
func Connect(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
}

// TranslateDuplicateKey maps modernc sqlite unique-constraint failures to
// gorm.ErrDuplicatedKey. Repositories wrap insert and update errors with it
// so callers can match duplicates with errors.Is on either driver.
func TranslateDuplicateKey(err error) error {
	if err == nil {
		return nil
	}

	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", gorm.ErrDuplicatedKey, err)
		}
	}
	return err
}
