package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
)

// Backup copies the database file into backupDir under a timestamped name
// and returns the backup path.
func (s *Store) Backup(backupDir string, now time.Time) (string, error) {
	if s.path == "" {
		return "", errors.New("store has no backing file")
	}

	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("grid_assessment_%s.db", now.Format("20060102150405"))
	dst := filepath.Join(backupDir, name)

	if err := copyFile(s.path, dst); err != nil {
		return "", fmt.Errorf("backup database: %w", err)
	}

	s.logger.Infow("database backed up", "path", dst)
	return dst, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	_, err = io.Copy(out, in)
	return err
}
