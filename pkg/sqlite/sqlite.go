// Package sqlite registers the sqlite-vec extension with the mattn driver so
// every connection opened through DriverName can create vec0 tables.
package sqlite

import (
	"database/sql"
	"fmt"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

const DriverName = "sqlite3"

func init() {
	vec.Auto()
}

// Open opens path with WAL and a busy timeout. Use ":memory:" in tests.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	}
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// each in-memory connection is its own database
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// SerializeVector encodes v as the little endian float32 blob vec0 expects.
func SerializeVector(v []float32) ([]byte, error) {
	blob, err := vec.SerializeFloat32(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vector: %w", err)
	}
	return blob, nil
}
