package vm

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrImageNotFound indicates the requested image doesn't exist in the store.
var ErrImageNotFound = errors.New("image not found")

// ImageStore persists images in a sqlite database, keyed by name. Saving
// under an existing name replaces the stored image.
type ImageStore struct {
	mu sync.Mutex
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS images (
	name     TEXT PRIMARY KEY,
	data     BLOB NOT NULL,
	saved_at TIMESTAMP NOT NULL
);
`

// OpenImageStore opens (creating if needed) an image store at the given
// path. Parent directories are created as needed.
func OpenImageStore(path string) (*ImageStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open image store %s: %w", path, err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialize image store schema: %w", err)
	}
	return &ImageStore{db: db}, nil
}

// Save serializes an image and stores it under the given name.
func (s *ImageStore) Save(name string, img *Image) error {
	data, err := MarshalImage(img)
	if err != nil {
		return fmt.Errorf("cannot encode image %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT INTO images (name, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		name, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cannot save image %s: %w", name, err)
	}
	return nil
}

// Load retrieves and decodes an image by name.
func (s *ImageStore) Load(name string) (*Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRow(`SELECT data FROM images WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("image %s: %w", name, ErrImageNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load image %s: %w", name, err)
	}
	return UnmarshalImage(data)
}

// List returns the names of stored images in sorted order.
func (s *ImageStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT name FROM images ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("cannot list images: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a stored image by name.
func (s *ImageStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM images WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("cannot delete image %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("image %s: %w", name, ErrImageNotFound)
	}
	return nil
}

// Close closes the underlying database.
func (s *ImageStore) Close() error {
	return s.db.Close()
}
