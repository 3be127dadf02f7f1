package ledger

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ringmask/ringmask/internal/utils"
	"github.com/ringmask/ringmask/pkg/version"
)

// SQLite keeps seen versions in a single sqlite table, one row per key.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the ledger database at path.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS seen_versions (
  scope   TEXT PRIMARY KEY,
  major   INTEGER NOT NULL,
  minor   INTEGER NOT NULL,
  patch   INTEGER NOT NULL,
  seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) IsNew(key Key) bool {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM seen_versions WHERE scope = ?", key.String()).Scan(&one)
	if err == sql.ErrNoRows {
		return true
	}
	if err != nil {
		utils.Log.Debugf("ledger: isNew %s: %v", key, err)
		return true
	}
	return false
}

func (s *SQLite) IsNewRelativeTo(key Key, v version.Version) bool {
	var major, minor, patch int
	err := s.db.QueryRow("SELECT major, minor, patch FROM seen_versions WHERE scope = ?", key.String()).
		Scan(&major, &minor, &patch)
	if err == sql.ErrNoRows {
		return true
	}
	if err != nil {
		utils.Log.Debugf("ledger: isNewRelativeTo %s: %v", key, err)
		return true
	}
	return v.NewerThanParts(major, minor, patch)
}

func (s *SQLite) Register(key Key, v version.Version) {
	_, err := s.db.Exec(`INSERT INTO seen_versions(scope, major, minor, patch, seen_at)
VALUES(?,?,?,?,CURRENT_TIMESTAMP)
ON CONFLICT(scope) DO UPDATE SET major=excluded.major, minor=excluded.minor, patch=excluded.patch, seen_at=CURRENT_TIMESTAMP`,
		key.String(), v.Major, v.Minor, v.Patch)
	if err != nil {
		utils.Log.Debugf("ledger: register %s: %v", key, err)
	}
}

func (s *SQLite) Unregister(key Key) {
	if _, err := s.db.Exec("DELETE FROM seen_versions WHERE scope = ?", key.String()); err != nil {
		utils.Log.Debugf("ledger: unregister %s: %v", key, err)
	}
}

// Entry is one recorded row, used by the CLI.
type Entry struct {
	Scope  string
	Triple string
	SeenAt time.Time
}

// List returns every recorded key ordered by scope.
func (s *SQLite) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT scope, major, minor, patch, seen_at FROM seen_versions ORDER BY scope")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e                   Entry
			major, minor, patch int
		)
		if err := rows.Scan(&e.Scope, &major, &minor, &patch, &e.SeenAt); err != nil {
			return nil, err
		}
		v := version.Version{Name: "v", Major: major, Minor: minor, Patch: patch}
		e.Triple = v.Full()
		out = append(out, e)
	}
	return out, rows.Err()
}
