package store

import (
	"database/sql"
	"errors"
)

var ErrNotFound = errors.New("not found")

type Leader struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Area string `json:"area"`
}

// UpsertLeader registers a leader, deduplicated by (name, area).
func (s *Store) UpsertLeader(name, area string) error {
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO grid_leaders (name, area) VALUES (?, ?)",
		name, area,
	)
	return err
}

// Leaders returns every registered leader ordered by id.
func (s *Store) Leaders() ([]Leader, error) {
	rows, err := s.db.Query("SELECT id, name, area FROM grid_leaders ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaders []Leader
	for rows.Next() {
		var l Leader
		if err := rows.Scan(&l.ID, &l.Name, &l.Area); err != nil {
			return nil, err
		}
		leaders = append(leaders, l)
	}
	return leaders, rows.Err()
}

// LeaderByName finds a leader by exact name.
func (s *Store) LeaderByName(name string) (Leader, error) {
	var l Leader
	err := s.db.QueryRow(
		"SELECT id, name, area FROM grid_leaders WHERE name = ?", name,
	).Scan(&l.ID, &l.Name, &l.Area)
	if errors.Is(err, sql.ErrNoRows) {
		return Leader{}, ErrNotFound
	}
	return l, err
}

// LeaderByID finds a leader by id.
func (s *Store) LeaderByID(id int64) (Leader, error) {
	var l Leader
	err := s.db.QueryRow(
		"SELECT id, name, area FROM grid_leaders WHERE id = ?", id,
	).Scan(&l.ID, &l.Name, &l.Area)
	if errors.Is(err, sql.ErrNoRows) {
		return Leader{}, ErrNotFound
	}
	return l, err
}
