package db

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/harborline/harborline/internal/utils"
)

const memoryPath = ":memory:"

// Connection tuning for the document and chunk tables. The blob store writes
// chunk rows inside a single transaction per upload, so WAL with NORMAL
// synchronous lets those commits proceed without stalling readers. The
// negative cache_size is in KiB and holds roughly 16 MiB of pages, enough
// for a handful of chunks plus the document working set.
const tuning = `
PRAGMA journal_mode=WAL;
PRAGMA synchronous=NORMAL;
PRAGMA busy_timeout=5000;
PRAGMA foreign_keys=ON;
PRAGMA cache_size=-16000;
`

// Open opens the SQLite database at path, creating parent directories as
// needed. An empty path or ":memory:" opens a private in-memory database;
// every pool connection to an in-memory database is its own database, so
// callers wanting one must cap the pool at a single connection. maxConns
// caps the connection pool, zero leaves it unbounded.
func Open(path string, maxConns int) (*sqlx.DB, error) {
	dsn := memoryPath
	if path != "" && path != memoryPath {
		if err := utils.EnsureParent(path); err != nil {
			return nil, fmt.Errorf("ensure parent directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_txlock=immediate&mode=rwc", path)
	}

	slog.Debug("opening database", "driver", driverID, "path", path)
	conn, err := sqlx.Connect(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
	}

	if _, err := conn.Exec(tuning); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	return conn, nil
}
