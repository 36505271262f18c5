package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridops/gridassess/internal/assess"
	"github.com/gridops/gridassess/internal/logx"
)

// DateLayout is how assessment and import dates are stored. The format is
// lexicographic-safe, so string comparison orders by date.
const DateLayout = "2006/01/02"

type Store struct {
	db     *sql.DB
	path   string
	logger logx.Logger
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string, logger logx.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	s := New(db, logger)
	s.path = path
	return s, nil
}

// New wraps an already-open database handle. Tests use this with sqlmock.
func New(db *sql.DB, logger logx.Logger) *Store {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &Store{db: db, logger: logger}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema creates the current schema. Safe to call on an existing
// database.
func (s *Store) InitSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS grid_leaders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			area TEXT NOT NULL,
			UNIQUE (name, area)
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS assessments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			leader_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			%s,
			import_date TEXT,
			total_score REAL,
			FOREIGN KEY (leader_id) REFERENCES grid_leaders (id)
		)`, strings.Join(dimensionColumnDefs(), ",\n\t\t\t")),
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	s.logger.Infow("schema ready")
	return nil
}

// Migrate upgrades a database created before total_score was stored.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(`ALTER TABLE assessments ADD COLUMN total_score REAL`)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate column name") {
			s.logger.Infow("total_score column already present")
			return nil
		}
		return fmt.Errorf("add total_score column: %w", err)
	}

	s.logger.Infow("total_score column added")
	return nil
}

func dimensionColumnDefs() []string {
	codes := assess.Codes()
	defs := make([]string, len(codes))
	for i, code := range codes {
		defs[i] = code + " REAL"
	}
	return defs
}
